package codec

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvarago/northstar/internal/ipc/pipe"
)

type testMsg struct {
	Seq   int
	Label string
	When  time.Duration
}

func TestRoundTrip(t *testing.T) {
	r, w, err := pipe.New()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	s := NewSender(w)
	rc := NewReceiver(r)

	// Pipes buffer 64 KiB; a hundred small messages fit without a reader
	// draining concurrently.
	sent := make([]testMsg, 100)
	for i := range sent {
		sent[i] = testMsg{Seq: i, Label: "msg", When: time.Duration(i) * time.Second}
		require.NoError(t, s.Send(sent[i]))
	}

	for i := range sent {
		var got testMsg
		require.NoError(t, rc.Recv(&got))
		assert.Equal(t, sent[i], got)
	}
}

func TestRoundTripAcrossWriterClose(t *testing.T) {
	r, w, err := pipe.New()
	require.NoError(t, err)
	defer r.Close()

	s := NewSender(w)
	require.NoError(t, s.Send(testMsg{Seq: 42, Label: "last"}))
	require.NoError(t, w.Close())

	rc := NewReceiver(r)
	var got testMsg
	require.NoError(t, rc.Recv(&got))
	assert.Equal(t, 42, got.Seq)

	// The stream ended; there is no "received nothing" success case.
	err = rc.Recv(&got)
	assert.ErrorIs(t, err, ErrIncompleteMessage)
}

func TestIncompleteMessage(t *testing.T) {
	r, w, err := pipe.New()
	require.NoError(t, err)
	defer r.Close()

	// Send one message and chop the stream mid-frame.
	var frame bytes.Buffer
	require.NoError(t, NewSender(&frame).Send(testMsg{Seq: 7, Label: "truncated"}))
	_, err = w.Write(frame.Bytes()[:frame.Len()/2])
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var got testMsg
	err = NewReceiver(r).Recv(&got)
	assert.ErrorIs(t, err, ErrIncompleteMessage)
}

func TestDecodeErrorSurfacesAsFailure(t *testing.T) {
	// Garbage that is not a gob stream.
	r := bytes.NewReader([]byte{0x01, 0xff})

	var got testMsg
	err := NewReceiver(r).Recv(&got)
	require.Error(t, err)
}

// shortWriter writes at most a few bytes per call, exercising the partial
// write retry in the sender.
type shortWriter struct {
	buf bytes.Buffer
}

func (s *shortWriter) Write(p []byte) (int, error) {
	if len(p) > 3 {
		p = p[:3]
	}
	return s.buf.Write(p)
}

func TestSendRetriesPartialWrites(t *testing.T) {
	var sw shortWriter
	s := NewSender(&sw)
	require.NoError(t, s.Send(testMsg{Seq: 9, Label: "chunked"}))

	var got testMsg
	require.NoError(t, NewReceiver(&sw.buf).Recv(&got))
	assert.Equal(t, 9, got.Seq)
	assert.Equal(t, "chunked", got.Label)
}

func TestDuplexSendRecv(t *testing.T) {
	left, right, err := pipe.NewDuplexPair()
	require.NoError(t, err)
	defer left.Close()
	defer right.Close()

	ls, lr := NewSender(left), NewReceiver(left)
	rs, rr := NewSender(right), NewReceiver(right)

	for i := 0; i < 100; i++ {
		require.NoError(t, ls.Send(i))
		var fromLeft int
		require.NoError(t, rr.Recv(&fromLeft))
		assert.Equal(t, i, fromLeft)

		require.NoError(t, rs.Send(i*2))
		var fromRight int
		require.NoError(t, lr.Recv(&fromRight))
		assert.Equal(t, i*2, fromRight)
	}
}

func TestRecvFromEmptyClosedStream(t *testing.T) {
	r, w, err := pipe.New()
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, w.Close())

	var got testMsg
	err = NewReceiver(r).Recv(&got)
	assert.ErrorIs(t, err, ErrIncompleteMessage)
}
