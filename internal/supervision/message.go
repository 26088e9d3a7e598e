package supervision

// Kind discriminates control messages on a supervision channel.
type Kind uint8

const (
	// KindHello is sent by the child once its channel is up.
	KindHello Kind = iota + 1
	// KindPing requests a KindPong reply carrying the same payload.
	KindPing
	// KindPong answers a KindPing.
	KindPong
	// KindShutdown asks the child to exit cleanly.
	KindShutdown
	// KindExit reports the child's exit status before it terminates.
	KindExit
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindHello:
		return "hello"
	case KindPing:
		return "ping"
	case KindPong:
		return "pong"
	case KindShutdown:
		return "shutdown"
	case KindExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Message is one control message between supervisor and child. The transport
// below treats it as an opaque encodable value; only this layer assigns it
// meaning.
type Message struct {
	Kind    Kind
	Payload string // Ping/Pong payload
	Code    int    // Exit code
	Signal  int    // Exit signal, 0 when none
}
