//go:build darwin

package asyncrt

import (
	"sync"

	"golang.org/x/sys/unix"
)

const maxFDs = 65536

type pollerEvent struct {
	fd  int
	dir IODirection
	err error
}

type fdEntry struct {
	armed bool
}

// poller is the kqueue-backed readiness backend for IoEventWorker on
// Darwin (this file builds for darwin only). Each Add registers one EVFILT_READ or EVFILT_WRITE with
// EV_ONESHOT, matching the Linux edge-triggered+one-shot contract: a fd
// must be re-armed after every notification.
type poller struct {
	kq       int
	eventBuf []unix.Kevent_t
	mu       sync.Mutex
	fds      map[int]*fdEntry
}

func newPoller() (*poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, newOSFatalError("kqueue", err)
	}
	return &poller{
		kq:       kq,
		eventBuf: make([]unix.Kevent_t, 256),
		fds:      make(map[int]*fdEntry),
	}, nil
}

func (p *poller) Close() error {
	return unix.Close(p.kq)
}

func filterFor(dir IODirection) int16 {
	if dir == DirWrite {
		return unix.EVFILT_WRITE
	}
	return unix.EVFILT_READ
}

func (p *poller) Add(fd int, dir IODirection) error {
	if fd < 0 || fd >= maxFDs {
		return panicInvariantFDRange(fd)
	}
	kev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: filterFor(dir),
		Flags:  unix.EV_ADD | unix.EV_ONESHOT | unix.EV_ENABLE,
	}
	_, err := unix.Kevent(p.kq, []unix.Kevent_t{kev}, nil, nil)
	if err != nil {
		return newOSFatalError("kevent", err)
	}
	p.mu.Lock()
	p.fds[fd] = &fdEntry{armed: true}
	p.mu.Unlock()
	return nil
}

func (p *poller) Remove(fd int) error {
	p.mu.Lock()
	delete(p.fds, fd)
	p.mu.Unlock()
	for _, filt := range [...]int16{unix.EVFILT_READ, unix.EVFILT_WRITE} {
		kev := unix.Kevent_t{Ident: uint64(fd), Filter: filt, Flags: unix.EV_DELETE}
		_, _ = unix.Kevent(p.kq, []unix.Kevent_t{kev}, nil, nil)
	}
	return nil
}

func (p *poller) Wait(timeoutMs int, dst []pollerEvent) ([]pollerEvent, error) {
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		t := unix.NsecToTimespec(int64(timeoutMs) * 1e6)
		ts = &t
	}
	n, err := unix.Kevent(p.kq, nil, p.eventBuf, ts)
	if err != nil {
		if err == unix.EINTR {
			return dst, nil
		}
		return dst, newOSFatalError("kevent", err)
	}
	for i := 0; i < n; i++ {
		ev := p.eventBuf[i]
		fd := int(ev.Ident)
		switch {
		case ev.Flags&unix.EV_ERROR != 0 || ev.Flags&unix.EV_EOF != 0:
			dst = append(dst, pollerEvent{fd: fd, err: newOSFatalError("poll", unix.EIO)})
		case ev.Filter == unix.EVFILT_READ:
			dst = append(dst, pollerEvent{fd: fd, dir: DirRead})
		case ev.Filter == unix.EVFILT_WRITE:
			dst = append(dst, pollerEvent{fd: fd, dir: DirWrite})
		}
	}
	return dst, nil
}

func panicInvariantFDRange(fd int) error {
	panicInvariantf("asyncrt: fd %d out of supported range [0, %d)", fd, maxFDs)
	return nil
}
