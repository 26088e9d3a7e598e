// Package id provides centralized ID generation for the runtime.
//
// This package offers type-safe ULID generation with:
//   - Lexicographic sortability: IDs sort by creation time in logs
//   - Prefixed types: Type-specific prefixes for debugging (chan_*, child_*)
//   - Type safety: Separate types prevent ID misuse
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ChannelID identifies a message channel.
type ChannelID string

// ChildID identifies a supervised child process.
type ChildID string

const (
	ChannelPrefix = "chan"
	ChildPrefix   = "child"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator with secure entropy.
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewChannelID generates a new channel ID.
func NewChannelID() ChannelID {
	return ChannelID(Default().GenerateWithPrefix(ChannelPrefix))
}

// NewChildID generates a new child process ID.
func NewChildID() ChildID {
	return ChildID(Default().GenerateWithPrefix(ChildPrefix))
}

func (id ChannelID) String() string { return string(id) }
func (id ChildID) String() string   { return string(id) }
