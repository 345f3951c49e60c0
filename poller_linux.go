//go:build linux

package asyncrt

import (
	"sync"

	"golang.org/x/sys/unix"
)

// maxFDs bounds the direct-indexed registration table. fds beyond this are
// rejected; the naive worker (ioworker.go) has no such limit and is the
// fallback for callers that need it.
const maxFDs = 65536

// pollerEvent is one readiness notification returned by a Wait call.
type pollerEvent struct {
	fd  int
	dir IODirection
	err error // non-nil on EPOLLERR/EPOLLHUP: readiness reported so the
	// waiting step observes the failure on its next read/write rather than
	// blocking forever.
}

// fdEntry records that a registered fd is armed (the direction is not
// stored): registration is edge-triggered and one-shot — a fd must be
// re-armed (Add again) after each readiness notification.
type fdEntry struct {
	armed bool
}

// poller is the epoll-backed readiness backend for IoEventWorker on Linux.
// Edge-triggered (EPOLLET) and one-shot (EPOLLONESHOT): once a fd fires, it
// is disarmed until the worker calls Add again, avoiding a second goroutine
// racing to re-read an already-delivered event.
type poller struct {
	epfd     int
	eventBuf []unix.EpollEvent
	mu       sync.Mutex
	fds      map[int]*fdEntry
}

func newPoller() (*poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, newOSFatalError("epoll_create1", err)
	}
	return &poller{
		epfd:     epfd,
		eventBuf: make([]unix.EpollEvent, 256),
		fds:      make(map[int]*fdEntry),
	}, nil
}

func (p *poller) Close() error {
	return unix.Close(p.epfd)
}

func epollBitsFor(dir IODirection) uint32 {
	bits := uint32(unix.EPOLLET | unix.EPOLLONESHOT)
	switch dir {
	case DirRead:
		bits |= unix.EPOLLIN
	case DirWrite:
		bits |= unix.EPOLLOUT
	}
	return bits
}

// Add (re-)arms fd for a single readiness notification in dir.
func (p *poller) Add(fd int, dir IODirection) error {
	if fd < 0 || fd >= maxFDs {
		return panicInvariantFDRange(fd)
	}
	ev := &unix.EpollEvent{Events: epollBitsFor(dir), Fd: int32(fd)}

	p.mu.Lock()
	entry, known := p.fds[fd]
	p.mu.Unlock()

	op := unix.EPOLL_CTL_MOD
	if !known {
		op = unix.EPOLL_CTL_ADD
	}
	if err := unix.EpollCtl(p.epfd, op, fd, ev); err != nil {
		return newOSFatalError("epoll_ctl", err)
	}

	if !known {
		p.mu.Lock()
		p.fds[fd] = &fdEntry{armed: true}
		p.mu.Unlock()
	} else {
		entry.armed = true
	}
	return nil
}

// Remove fully unregisters fd; the handle is expected to have finished with it.
func (p *poller) Remove(fd int) error {
	p.mu.Lock()
	delete(p.fds, fd)
	p.mu.Unlock()
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err != nil && err != unix.ENOENT {
		return newOSFatalError("epoll_ctl", err)
	}
	return nil
}

// Wait blocks up to timeoutMs (-1 for indefinite) and appends ready events
// to dst, returning the extended slice.
func (p *poller) Wait(timeoutMs int, dst []pollerEvent) ([]pollerEvent, error) {
	n, err := unix.EpollWait(p.epfd, p.eventBuf, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return dst, nil
		}
		return dst, newOSFatalError("epoll_wait", err)
	}
	for i := 0; i < n; i++ {
		ev := p.eventBuf[i]
		fd := int(ev.Fd)
		switch {
		case ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0:
			dst = append(dst, pollerEvent{fd: fd, err: newOSFatalError("poll", unix.EIO)})
		case ev.Events&unix.EPOLLIN != 0:
			dst = append(dst, pollerEvent{fd: fd, dir: DirRead})
		case ev.Events&unix.EPOLLOUT != 0:
			dst = append(dst, pollerEvent{fd: fd, dir: DirWrite})
		}
	}
	return dst, nil
}

func panicInvariantFDRange(fd int) error {
	panicInvariantf("asyncrt: fd %d out of supported range [0, %d)", fd, maxFDs)
	return nil // unreachable
}
