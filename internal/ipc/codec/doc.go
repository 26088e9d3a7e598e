// Package codec frames typed messages over any byte endpoint.
//
// Values are encoded with encoding/gob, a self-describing binary format:
// type descriptors travel in the stream ahead of the values they describe,
// so no external schema is needed to re-segment or decode it. Message
// boundaries come entirely from the encoding's own structure.
//
// A Sender and a Receiver each own one direction of one stream. As long as
// every send is matched 1:1 by a receive in the same order, the stream is
// unambiguous. There is no multiplexing, reordering, or interleaving of
// distinct message streams on one endpoint.
//
// Example Usage:
//
//	s := codec.NewSender(w)
//	r := codec.NewReceiver(rd)
//
//	if err := s.Send(msg); err != nil { ... }
//
//	var got Message
//	if err := r.Recv(&got); err != nil { ... }
package codec
