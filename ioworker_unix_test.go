//go:build linux || darwin

package asyncrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// pipeReader waits for fd to become read-ready, then reads whatever is
// there and finishes. Waits again with IOWait on EAGAIN.
type pipeReader struct {
	fd   int
	got  []byte
	done chan struct{}
}

func (c *pipeReader) Act() Action {
	buf := make([]byte, 64)
	n, err := unix.Read(c.fd, buf)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return IOWait(c.fd, DirRead)
	}
	if err != nil {
		return Error(err)
	}
	c.got = append(c.got, buf[:n]...)
	close(c.done)
	return Finish()
}

func TestExecutorIOWaitOnPipeReadiness(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])
	require.NoError(t, unix.SetNonblock(fds[0], true))

	exec := NewExecutor(WithProcessors(1))
	defer exec.Stop()

	reader := &pipeReader{fd: fds[0], done: make(chan struct{})}
	_, err := exec.Submit(reader)
	require.NoError(t, err)

	// Give the first step a moment to observe EAGAIN and register for
	// readiness before we write.
	time.Sleep(20 * time.Millisecond)
	_, err = unix.Write(fds[1], []byte("hello"))
	require.NoError(t, err)

	select {
	case <-reader.done:
	case <-time.After(5 * time.Second):
		t.Fatal("reader coroutine never observed pipe readiness")
	}
	require.Equal(t, "hello", string(reader.got))
}
