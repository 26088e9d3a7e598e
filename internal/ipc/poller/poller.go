package poller

import (
	"errors"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Interest selects which readiness direction a registration tracks.
type Interest uint8

const (
	// Read wakes the registration when the descriptor becomes readable.
	Read Interest = iota + 1
	// Write wakes the registration when the descriptor becomes writable.
	Write
)

var (
	// ErrClosed is returned when registering on a closed poller.
	ErrClosed = errors.New("poller: closed")
	// ErrRegistered is returned when a descriptor is registered twice.
	ErrRegistered = errors.New("poller: descriptor already registered")
)

// Poller multiplexes readiness notifications for registered descriptors.
type Poller struct {
	epfd   int
	wakeFd int

	mu     sync.Mutex
	regs   map[int]*Registration
	closed bool

	done chan struct{}
}

// New creates a poller and starts its dispatch goroutine.
func New() (*Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	wakeFd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		return nil, os.NewSyscallError("eventfd", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakeFd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFd, &ev); err != nil {
		unix.Close(epfd)
		unix.Close(wakeFd)
		return nil, os.NewSyscallError("epoll_ctl", err)
	}

	p := &Poller{
		epfd:   epfd,
		wakeFd: wakeFd,
		regs:   make(map[int]*Registration),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p, nil
}

var (
	defaultOnce   sync.Once
	defaultPoller *Poller
	defaultErr    error
)

// Default returns a process-wide shared poller, creating it on first use.
func Default() (*Poller, error) {
	defaultOnce.Do(func() {
		defaultPoller, defaultErr = New()
	})
	return defaultPoller, defaultErr
}

// Registration tracks readiness of one descriptor on one poller.
type Registration struct {
	p        *Poller
	fd       int
	readable chan struct{}
	writable chan struct{}
}

// Register adds fd to the poller with the given interest. The descriptor must
// already be in nonblocking mode and have exactly one registration at a time.
func (p *Poller) Register(fd int, interest Interest) (*Registration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if _, dup := p.regs[fd]; dup {
		return nil, ErrRegistered
	}

	events := uint32(unix.EPOLLET)
	switch interest {
	case Read:
		events |= unix.EPOLLIN | unix.EPOLLRDHUP
	case Write:
		events |= unix.EPOLLOUT
	}
	ev := unix.EpollEvent{Events: events, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return nil, os.NewSyscallError("epoll_ctl", err)
	}

	reg := &Registration{
		p:        p,
		fd:       fd,
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
	// Prime both signals: readiness is assumed until a syscall proves
	// otherwise with EAGAIN.
	reg.MarkReadable()
	reg.MarkWritable()
	p.regs[fd] = reg
	return reg, nil
}

// Readable signals when the descriptor may be readable.
func (r *Registration) Readable() <-chan struct{} { return r.readable }

// Writable signals when the descriptor may be writable.
func (r *Registration) Writable() <-chan struct{} { return r.writable }

// MarkReadable re-arms the readable signal. Consumers call it after any read
// syscall that did not return EAGAIN, since readiness may persist.
func (r *Registration) MarkReadable() {
	select {
	case r.readable <- struct{}{}:
	default:
	}
}

// MarkWritable re-arms the writable signal.
func (r *Registration) MarkWritable() {
	select {
	case r.writable <- struct{}{}:
	default:
	}
}

// Deregister removes the descriptor from the poller. Call before closing the
// descriptor.
func (r *Registration) Deregister() error {
	r.p.mu.Lock()
	delete(r.p.regs, r.fd)
	r.p.mu.Unlock()
	if err := unix.EpollCtl(r.p.epfd, unix.EPOLL_CTL_DEL, r.fd, nil); err != nil {
		return os.NewSyscallError("epoll_ctl", err)
	}
	return nil
}

// Close stops the dispatch goroutine and releases the epoll instance. Any
// still-registered descriptors stop receiving notifications.
func (p *Poller) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	var one = [8]byte{0: 1}
	unix.Write(p.wakeFd, one[:])
	<-p.done

	unix.Close(p.epfd)
	unix.Close(p.wakeFd)
	return nil
}

func (p *Poller) loop() {
	defer close(p.done)
	events := make([]unix.EpollEvent, 64)
	for {
		n, err := unix.EpollWait(p.epfd, events, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return
		}
		for i := 0; i < n; i++ {
			ev := events[i]
			fd := int(ev.Fd)
			if fd == p.wakeFd {
				return
			}
			p.mu.Lock()
			reg := p.regs[fd]
			p.mu.Unlock()
			if reg == nil {
				continue
			}
			if ev.Events&(unix.EPOLLIN|unix.EPOLLRDHUP|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
				reg.MarkReadable()
			}
			if ev.Events&(unix.EPOLLOUT|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
				reg.MarkWritable()
			}
		}
	}
}
