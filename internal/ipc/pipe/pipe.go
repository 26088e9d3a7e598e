package pipe

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ErrReleased is returned when an endpoint is used after Release or Close.
var ErrReleased = errors.New("pipe: endpoint no longer owns a descriptor")

// New creates a unidirectional pipe and returns its two endpoints, both
// blocking. Bytes written to the write endpoint are read, in order, from the
// read endpoint. Descriptors are opened close-on-exec; passing one to a child
// process goes through Release or File, which duplicate or hand off the
// descriptor explicitly.
func New() (*ReadEndpoint, *WriteEndpoint, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return nil, nil, os.NewSyscallError("pipe2", err)
	}
	return &ReadEndpoint{fd: fds[0]}, &WriteEndpoint{fd: fds[1]}, nil
}

// ReadEndpoint owns the read descriptor of a pipe.
type ReadEndpoint struct {
	fd int
}

// NewReadEndpointFromFd adopts an already-open read descriptor, typically one
// inherited from a parent process. The endpoint takes ownership.
func NewReadEndpointFromFd(fd int) *ReadEndpoint {
	return &ReadEndpoint{fd: fd}
}

// Read blocks until bytes are available and copies them into p. It returns
// (0, io.EOF) once every write descriptor of the pipe has been closed in
// every process holding one.
func (r *ReadEndpoint) Read(p []byte) (int, error) {
	if r.fd < 0 {
		return 0, ErrReleased
	}
	for {
		n, err := unix.Read(r.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, os.NewSyscallError("read", err)
		}
		if n == 0 && len(p) > 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

// Fd returns the underlying descriptor without transferring ownership.
func (r *ReadEndpoint) Fd() int { return r.fd }

// Release transfers the descriptor out of the endpoint without closing it.
// The endpoint must not be used afterwards.
func (r *ReadEndpoint) Release() int {
	fd := r.fd
	r.fd = -1
	return fd
}

// File releases the descriptor into an *os.File, for use with
// exec.Cmd.ExtraFiles. The endpoint must not be used afterwards.
func (r *ReadEndpoint) File() *os.File {
	return os.NewFile(uintptr(r.Release()), "pipe|r")
}

// Close closes the descriptor. It is idempotent and safe to call on a
// released endpoint.
func (r *ReadEndpoint) Close() error {
	if r.fd < 0 {
		return nil
	}
	err := unix.Close(r.fd)
	r.fd = -1
	if err != nil {
		return os.NewSyscallError("close", err)
	}
	return nil
}

// WriteEndpoint owns the write descriptor of a pipe.
type WriteEndpoint struct {
	fd int
}

// NewWriteEndpointFromFd adopts an already-open write descriptor, typically
// one inherited from a parent process. The endpoint takes ownership.
func NewWriteEndpointFromFd(fd int) *WriteEndpoint {
	return &WriteEndpoint{fd: fd}
}

// Write writes bytes from p into the pipe, blocking while the kernel buffer
// is full. It may write fewer than len(p) bytes without error; callers that
// need full delivery must loop (codec.Send does). Once every read descriptor
// of the pipe has been closed everywhere, Write fails with a broken-channel
// error.
func (w *WriteEndpoint) Write(p []byte) (int, error) {
	if w.fd < 0 {
		return 0, ErrReleased
	}
	for {
		n, err := unix.Write(w.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, os.NewSyscallError("write", err)
		}
		return n, nil
	}
}

// Flush is advisory. Pipes are kernel buffers, not regular files; there is no
// durability primitive with defined semantics for them, so Flush reports
// success without issuing a syscall.
func (w *WriteEndpoint) Flush() error {
	if w.fd < 0 {
		return ErrReleased
	}
	return nil
}

// Fd returns the underlying descriptor without transferring ownership.
func (w *WriteEndpoint) Fd() int { return w.fd }

// Release transfers the descriptor out of the endpoint without closing it.
// The endpoint must not be used afterwards.
func (w *WriteEndpoint) Release() int {
	fd := w.fd
	w.fd = -1
	return fd
}

// File releases the descriptor into an *os.File, for use with
// exec.Cmd.ExtraFiles. The endpoint must not be used afterwards.
func (w *WriteEndpoint) File() *os.File {
	return os.NewFile(uintptr(w.Release()), "pipe|w")
}

// Close closes the descriptor. It is idempotent and safe to call on a
// released endpoint.
func (w *WriteEndpoint) Close() error {
	if w.fd < 0 {
		return nil
	}
	err := unix.Close(w.fd)
	w.fd = -1
	if err != nil {
		return os.NewSyscallError("close", err)
	}
	return nil
}

// IsBrokenChannel reports whether err is the broken-channel condition: a
// write against a pipe whose read side is closed everywhere.
func IsBrokenChannel(err error) bool {
	return errors.Is(err, unix.EPIPE)
}
