package supervision

import (
	"go.uber.org/zap"

	"github.com/rvarago/northstar/internal/infrastructure/logging"
	"github.com/rvarago/northstar/internal/infrastructure/monitoring"
	"github.com/rvarago/northstar/internal/ipc/codec"
	"github.com/rvarago/northstar/internal/ipc/pipe"
	"github.com/rvarago/northstar/internal/shared/id"
)

// Channel is one side of a duplex control message connection. One goroutine
// may send and one may receive concurrently; neither operation is safe to
// overlap with itself.
type Channel struct {
	id      id.ChannelID
	duplex  *pipe.Duplex
	sender  *codec.Sender
	recver  *codec.Receiver
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// defaultReadBuffer matches config.ChannelConfig's default.
const defaultReadBuffer = 4096

// NewChannel wraps a duplex into a message channel. The channel takes
// ownership of the duplex and closes it on Close.
func NewChannel(d *pipe.Duplex, log *logging.Logger) *Channel {
	return newChannel(d, log, defaultReadBuffer)
}

func newChannel(d *pipe.Duplex, log *logging.Logger, readBuf int) *Channel {
	metrics := monitoring.Default()
	metrics.ChannelOpened()

	return &Channel{
		id:      id.NewChannelID(),
		duplex:  d,
		sender:  codec.NewSender(d),
		recver:  codec.NewReceiverSize(d, readBuf),
		log:     log.Named("channel"),
		metrics: metrics,
	}
}

// ID returns the channel identifier.
func (c *Channel) ID() id.ChannelID { return c.id }

// Send transmits one message to the peer.
func (c *Channel) Send(m Message) error {
	if err := c.sender.Send(m); err != nil {
		c.metrics.RecordMessageError("sent")
		return err
	}
	c.metrics.RecordMessage("sent")
	c.log.Debug("message sent",
		zap.String("channel", c.id.String()),
		zap.String("kind", m.Kind.String()),
	)
	return nil
}

// Recv blocks until one message arrives from the peer. A peer that closed
// its side surfaces as codec.ErrIncompleteMessage.
func (c *Channel) Recv() (Message, error) {
	var m Message
	if err := c.recver.Recv(&m); err != nil {
		c.metrics.RecordMessageError("received")
		return Message{}, err
	}
	c.metrics.RecordMessage("received")
	c.log.Debug("message received",
		zap.String("channel", c.id.String()),
		zap.String("kind", m.Kind.String()),
	)
	return m, nil
}

// Close closes both underlying endpoints. Idempotent via the endpoints.
func (c *Channel) Close() error {
	c.metrics.ChannelClosed()
	return c.duplex.Close()
}
