package pipe

import (
	"context"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/rvarago/northstar/internal/ipc/poller"
)

// AsyncReadEndpoint is a read endpoint whose descriptor is nonblocking and
// registered with a poller. Reads suspend on the poller's readiness signal
// instead of blocking in the kernel.
//
// At most one read may be in flight at a time; concurrent reads from several
// goroutines have undefined ordering.
type AsyncReadEndpoint struct {
	ep  *ReadEndpoint
	reg *poller.Registration
}

// NewAsyncReadEndpoint consumes r: it switches the descriptor to nonblocking
// mode and registers it with p. On a registration error the descriptor has
// already been made nonblocking and the endpoint should be treated as
// unusable beyond closing it.
func NewAsyncReadEndpoint(p *poller.Poller, r *ReadEndpoint) (*AsyncReadEndpoint, error) {
	if r.fd < 0 {
		return nil, ErrReleased
	}
	if err := unix.SetNonblock(r.fd, true); err != nil {
		return nil, os.NewSyscallError("fcntl", err)
	}
	reg, err := p.Register(r.fd, poller.Read)
	if err != nil {
		return nil, err
	}
	return &AsyncReadEndpoint{ep: r, reg: reg}, nil
}

// Read suspends until the poller reports the descriptor read-ready, then
// attempts exactly one nonblocking read. A would-block result goes back to
// waiting; any other outcome completes the call. Returns (0, io.EOF) at end
// of stream.
//
// Cancellation through ctx can only take effect between syscall attempts, so
// an abandoned Read never loses a syscall result and the endpoint stays
// usable.
func (a *AsyncReadEndpoint) Read(ctx context.Context, p []byte) (int, error) {
	if a.ep.fd < 0 {
		return 0, ErrReleased
	}
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-a.reg.Readable():
		}

		n, err := unix.Read(a.ep.fd, p)
		if err == unix.EAGAIN {
			// Spurious wakeup; park until the next edge.
			continue
		}
		// Readiness persists until a would-block result proves otherwise.
		a.reg.MarkReadable()
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

// Close deregisters the descriptor from the poller and closes it.
func (a *AsyncReadEndpoint) Close() error {
	if a.ep.fd >= 0 {
		a.reg.Deregister()
	}
	return a.ep.Close()
}

// AsyncWriteEndpoint is the write-side counterpart of AsyncReadEndpoint.
//
// At most one write may be in flight at a time.
type AsyncWriteEndpoint struct {
	ep  *WriteEndpoint
	reg *poller.Registration
}

// NewAsyncWriteEndpoint consumes w: it switches the descriptor to nonblocking
// mode and registers it with p. The same registration-failure caveat as
// NewAsyncReadEndpoint applies.
func NewAsyncWriteEndpoint(p *poller.Poller, w *WriteEndpoint) (*AsyncWriteEndpoint, error) {
	if w.fd < 0 {
		return nil, ErrReleased
	}
	if err := unix.SetNonblock(w.fd, true); err != nil {
		return nil, os.NewSyscallError("fcntl", err)
	}
	reg, err := p.Register(w.fd, poller.Write)
	if err != nil {
		return nil, err
	}
	return &AsyncWriteEndpoint{ep: w, reg: reg}, nil
}

// Write suspends until the descriptor is write-ready, then attempts exactly
// one nonblocking write. It may write fewer than len(p) bytes without error.
// Writing after the read side closed everywhere fails with a broken-channel
// error.
func (a *AsyncWriteEndpoint) Write(ctx context.Context, p []byte) (int, error) {
	if a.ep.fd < 0 {
		return 0, ErrReleased
	}
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-a.reg.Writable():
		}

		n, err := unix.Write(a.ep.fd, p)
		if err == unix.EAGAIN {
			continue
		}
		a.reg.MarkWritable()
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, os.NewSyscallError("write", err)
		}
		return n, nil
	}
}

// Close deregisters the descriptor from the poller and closes it.
func (a *AsyncWriteEndpoint) Close() error {
	if a.ep.fd >= 0 {
		a.reg.Deregister()
	}
	return a.ep.Close()
}
