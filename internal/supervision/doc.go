// Package supervision wires the pipe transport to child process management.
//
// A supervisor builds a duplex channel before spawning a child, hands the
// remote endpoints to the child as inherited descriptors, and closes its own
// copies of them immediately after the spawn. The child adopts the inherited
// descriptors on startup. Both sides then exchange typed control messages
// framed by the codec.
//
// The descriptor hygiene here is load-bearing: every process must close the
// endpoint copies it does not own, or the peer never observes end-of-stream
// when the other side goes away.
//
// Message flow:
//
//	child                 supervisor
//	Hello      ────────▶
//	           ◀────────  Ping
//	Pong       ────────▶
//	           ◀────────  Shutdown
//	Exit       ────────▶
package supervision
