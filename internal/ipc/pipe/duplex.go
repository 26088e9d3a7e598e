package pipe

import "os"

// Duplex bundles a read endpoint and a write endpoint from two independent
// pipes into one bidirectional channel. A Duplex owns exactly its own two
// descriptors; it knows nothing about the peer's copies.
type Duplex struct {
	r *ReadEndpoint
	w *WriteEndpoint
}

// NewDuplexPair creates two pipes and crosses them: what the left side
// writes, the right side reads, and vice versa.
//
// Intended usage is to build the pair before spawning a child process and
// hand the right side's descriptors into it. After the spawn, each process
// must close the copies of the descriptors it does not own, or end-of-stream
// and broken-channel signaling never fires. That hygiene is the caller's
// responsibility; supervision.Spawner shows the pattern.
func NewDuplexPair() (left, right *Duplex, err error) {
	ar, aw, err := New()
	if err != nil {
		return nil, nil, err
	}
	br, bw, err := New()
	if err != nil {
		ar.Close()
		aw.Close()
		return nil, nil, err
	}
	left = &Duplex{r: ar, w: bw}
	right = &Duplex{r: br, w: aw}
	return left, right, nil
}

// NewDuplexFromEndpoints bundles an already-open endpoint pair, typically
// descriptors inherited from a parent process.
func NewDuplexFromEndpoints(r *ReadEndpoint, w *WriteEndpoint) *Duplex {
	return &Duplex{r: r, w: w}
}

// Read reads from the inbound direction.
func (d *Duplex) Read(p []byte) (int, error) { return d.r.Read(p) }

// Write writes to the outbound direction.
func (d *Duplex) Write(p []byte) (int, error) { return d.w.Write(p) }

// Flush is advisory, like WriteEndpoint.Flush.
func (d *Duplex) Flush() error { return d.w.Flush() }

// ReadEnd returns the owned read endpoint.
func (d *Duplex) ReadEnd() *ReadEndpoint { return d.r }

// WriteEnd returns the owned write endpoint.
func (d *Duplex) WriteEnd() *WriteEndpoint { return d.w }

// Files releases both descriptors into *os.File handles, in (read, write)
// order, for exec.Cmd.ExtraFiles. The Duplex must not be used afterwards.
func (d *Duplex) Files() (r, w *os.File) {
	return d.r.File(), d.w.File()
}

// Close closes both endpoints, returning the first error. Idempotent.
func (d *Duplex) Close() error {
	rerr := d.r.Close()
	werr := d.w.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}
