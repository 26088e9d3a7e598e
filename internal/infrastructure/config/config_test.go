package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Channel config
	assert.Equal(t, 4096, cfg.Channel.ReadBufferSize)

	// Spawn config
	assert.Equal(t, "NORTHSTAR_CHILD", cfg.Spawn.ChildEnv)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4096, cfg.Channel.ReadBufferSize)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"NORTHSTAR_LOG_LEVEL":        "debug",
		"NORTHSTAR_LOG_DEV":          "true",
		"NORTHSTAR_CHANNEL_READ_BUF": "16384",
		"NORTHSTAR_SPAWN_CHILD_ENV":  "OTHER_MARKER",
	}

	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 16384, cfg.Channel.ReadBufferSize)
	assert.Equal(t, "OTHER_MARKER", cfg.Spawn.ChildEnv)
}
