// Package reader turns a blocking file descriptor into a channel of lines so
// that callers can wait on operator input and cancellation in one select.
package reader

import (
	"bytes"
	"os"

	"golang.org/x/sys/unix"
)

// Source is a readable file descriptor, typically os.Stdin.
type Source interface {
	Fd() uintptr
	Read(b []byte) (n int, err error)
}

const chunkSize = 4096

// Read pumps newline-separated lines from src onto lines until src reaches
// end of input or shutdown is closed, then closes lines. The trailing
// newline is stripped; a final unterminated line is still delivered.
// Closing shutdown wakes the pending select, so Read never stays blocked
// on a descriptor that will produce nothing.
func Read(src Source, lines chan<- string, shutdown <-chan struct{}) {
	done := make(chan struct{})

	// closing wakeWrite makes wakeRead readable, unblocking the select
	// below when shutdown fires.
	wakeRead, wakeWrite, err := os.Pipe()
	if err != nil {
		close(lines)
		return
	}

	defer func() {
		close(done)
		wakeRead.Close()
		close(lines)
	}()

	go func() {
		select {
		case <-shutdown:
		case <-done:
		}
		_ = wakeWrite.Close()
	}()

	var (
		srcFd   = int(src.Fd())
		wakeFd  = int(wakeRead.Fd())
		pending []byte
		buf     = make([]byte, chunkSize)
	)

	nfds := srcFd + 1
	if wakeFd >= nfds {
		nfds = wakeFd + 1
	}

	for {
		fdSet := unix.FdSet{}
		fdSet.Zero()
		fdSet.Set(srcFd)
		fdSet.Set(wakeFd)

		ready, err := unix.Select(nfds, &fdSet, nil, nil, nil)
		if err != nil {
			// interrupted syscall, retry
			continue
		}
		if ready == 0 {
			continue
		}

		if fdSet.IsSet(wakeFd) {
			return
		}

		n, err := src.Read(buf)
		if err != nil || n == 0 {
			if len(pending) > 0 {
				deliver(lines, string(pending), shutdown)
			}
			return
		}

		pending = append(pending, buf[:n]...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			if !deliver(lines, string(pending[:i]), shutdown) {
				return
			}
			pending = pending[i+1:]
		}
	}
}

// deliver sends one line unless shutdown fires first.
func deliver(lines chan<- string, line string, shutdown <-chan struct{}) bool {
	select {
	case lines <- line:
		return true
	case <-shutdown:
		return false
	}
}
