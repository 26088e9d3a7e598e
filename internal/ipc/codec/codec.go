package codec

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
)

// ErrIncompleteMessage is returned by Recv when the stream ends before one
// complete message has arrived. Receiving nothing is not a success case; a
// clean end of stream between messages surfaces as this error too.
var ErrIncompleteMessage = errors.New("codec: stream ended before a complete message")

// Sender frames and writes messages to one byte endpoint.
type Sender struct {
	enc *gob.Encoder
}

// NewSender creates a sender over w. Partial writes by w are retried until
// every encoded byte is transmitted, so w may be a raw endpoint whose Write
// maps to a single syscall.
func NewSender(w io.Writer) *Sender {
	return &Sender{enc: gob.NewEncoder(fullWriter{w})}
}

// Send encodes msg and writes it in full. It fails if the value cannot be
// encoded or the underlying write fails.
func (s *Sender) Send(msg any) error {
	if err := s.enc.Encode(msg); err != nil {
		return fmt.Errorf("codec: send: %w", err)
	}
	return nil
}

// Receiver reads and decodes messages from one byte endpoint.
type Receiver struct {
	dec *gob.Decoder
}

// NewReceiver creates a receiver over r. The receiver owns its position in
// the stream; create exactly one per endpoint.
func NewReceiver(r io.Reader) *Receiver {
	return &Receiver{dec: gob.NewDecoder(r)}
}

// NewReceiverSize creates a receiver whose read buffer holds size bytes.
// Buffered read-ahead is safe because the receiver owns the stream position.
func NewReceiverSize(r io.Reader, size int) *Receiver {
	return &Receiver{dec: gob.NewDecoder(bufio.NewReaderSize(r, size))}
}

// Recv decodes exactly one message into out, which must be a pointer. It
// blocks until the encoding is structurally complete. End of stream before a
// complete message is an ErrIncompleteMessage failure; malformed data is
// surfaced on the same error channel as transport failures.
func (r *Receiver) Recv(out any) error {
	if err := r.dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w (%v)", ErrIncompleteMessage, err)
		}
		return fmt.Errorf("codec: recv: %w", err)
	}
	return nil
}

// fullWriter upgrades a short-write endpoint to the io.Writer contract the
// encoder relies on.
type fullWriter struct {
	w io.Writer
}

func (fw fullWriter) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := fw.w.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}
