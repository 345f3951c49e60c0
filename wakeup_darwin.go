//go:build darwin

package asyncrt

import "golang.org/x/sys/unix"

// wakeHandle is a self-pipe used to break an IoEventWorker out of a
// blocking Wait call; pollerIOWorker signals it from stop so the loop can
// exit. Darwin's kqueue
// does support EVFILT_USER, but a pipe keeps the wakeup path identical in
// shape to the Linux eventfd handle and is simple to reason about.
type wakeHandle struct {
	r, w int
}

func newWakeHandle() (*wakeHandle, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, newOSFatalError("pipe", err)
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		return nil, newOSFatalError("fcntl", err)
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		return nil, newOSFatalError("fcntl", err)
	}
	return &wakeHandle{r: fds[0], w: fds[1]}, nil
}

func (w *wakeHandle) FD() int { return w.r }

func (w *wakeHandle) Signal() {
	var buf [1]byte
	_, _ = unix.Write(w.w, buf[:])
}

func (w *wakeHandle) Drain() {
	var buf [64]byte
	for {
		_, err := unix.Read(w.r, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *wakeHandle) Close() error {
	_ = unix.Close(w.w)
	return unix.Close(w.r)
}
