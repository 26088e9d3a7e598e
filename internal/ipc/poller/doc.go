// Package poller provides an epoll-backed readiness source for nonblocking
// descriptors.
//
// A Poller owns one epoll instance and a dispatch goroutine. Descriptors are
// registered edge-triggered with a read or write interest; each registration
// exposes one-slot signal channels that the dispatch goroutine fills when the
// kernel reports readiness. Waiters block on the channels, never on syscalls,
// so a suspended operation consumes no execution resource.
//
// Readiness is cached: a registration is primed on creation and re-armed by
// the consumer after any syscall that makes progress, so the only way to park
// is a syscall returning EAGAIN. This tolerates spurious wakeups and the
// initial-edge behavior of EPOLL_CTL_ADD without busy polling.
package poller
