//go:build linux

package asyncrt

import "golang.org/x/sys/unix"

// wakeHandle is an eventfd used to break an IoEventWorker out of a blocking
// Wait call; pollerIOWorker signals it from stop so the loop can exit.
type wakeHandle struct {
	fd int
}

func newWakeHandle() (*wakeHandle, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, newOSFatalError("eventfd", err)
	}
	return &wakeHandle{fd: fd}, nil
}

func (w *wakeHandle) FD() int { return w.fd }

// Signal wakes a blocked Wait call at most once per drain; extra calls
// before the reader drains just coalesce into a single wakeup.
func (w *wakeHandle) Signal() {
	var buf [8]byte
	buf[0] = 1
	_, _ = unix.Write(w.fd, buf[:])
}

// Drain consumes the pending wakeup notification(s).
func (w *wakeHandle) Drain() {
	var buf [8]byte
	for {
		_, err := unix.Read(w.fd, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *wakeHandle) Close() error {
	return unix.Close(w.fd)
}
