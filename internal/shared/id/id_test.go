package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChannelID(t *testing.T) {
	a := NewChannelID()
	b := NewChannelID()

	assert.True(t, strings.HasPrefix(a.String(), "chan_"))
	assert.NotEqual(t, a, b)
}

func TestNewChildID(t *testing.T) {
	a := NewChildID()

	assert.True(t, strings.HasPrefix(a.String(), "child_"))
}

func TestDefaultSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestGeneratorUnique(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := g.Generate().String()
		assert.False(t, seen[s], "duplicate ULID %s", s)
		seen[s] = true
	}
}
