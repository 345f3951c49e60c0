//go:build !linux && !darwin

package asyncrt

// wakeHandle on the portable stub platform is a plain channel-based wake
// signal with the same Signal/Drain shape as the native handles, so
// ioworker.go compiles unchanged. Nothing uses it at run time:
// newPollerIOWorker fails at newPoller before constructing one, and the
// naive IOWorker sleeps on its own ticker.
type wakeHandle struct {
	ch chan struct{}
}

func newWakeHandle() (*wakeHandle, error) {
	return &wakeHandle{ch: make(chan struct{}, 1)}, nil
}

func (w *wakeHandle) FD() int { return -1 }

func (w *wakeHandle) Signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func (w *wakeHandle) Drain() {
	select {
	case <-w.ch:
	default:
	}
}

func (w *wakeHandle) Close() error { return nil }
