// Package pipe provides anonymous-pipe endpoints for supervisor/child
// communication.
//
// A pipe is a unidirectional, kernel-buffered byte channel between two
// descriptors. This package wraps the raw descriptors in owning endpoint
// types so that every descriptor is closed exactly once, on every exit path,
// unless ownership is explicitly released to an external process-creation
// call.
//
// Features:
//   - Blocking read/write endpoints over pipe2(2)
//   - Explicit descriptor ownership with release escape hatch
//   - Async endpoints driven by epoll readiness (no busy polling)
//   - Duplex channels built from two pipes for bidirectional exchange
//
// Flow control is whatever the kernel pipe buffer provides: reads block while
// the pipe is empty, writes block while it is full. Each direction assumes a
// single producer and a single consumer; endpoints carry no internal locking.
//
// Example Usage:
//
//	r, w, err := pipe.New()
//	if err != nil { ... }
//	defer r.Close()
//	defer w.Close()
//
//	go w.Write([]byte("hello"))
//	buf := make([]byte, 5)
//	n, err := r.Read(buf)
package pipe
