package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration.
type Config struct {
	Logging LogConfig
	Channel ChannelConfig
	Spawn   SpawnConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"NORTHSTAR_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"NORTHSTAR_LOG_DEV" default:"false"`
}

// ChannelConfig holds message channel configuration.
type ChannelConfig struct {
	// ReadBufferSize is the buffer handed to raw reads on the channel.
	ReadBufferSize int `envconfig:"NORTHSTAR_CHANNEL_READ_BUF" default:"4096"`
}

// SpawnConfig holds child process spawn configuration.
type SpawnConfig struct {
	// ChildEnv is the environment variable that marks a process as the child
	// side of a channel. The spawner sets it; Inherited checks it.
	ChildEnv string `envconfig:"NORTHSTAR_SPAWN_CHILD_ENV" default:"NORTHSTAR_CHILD"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Channel: ChannelConfig{
			ReadBufferSize: 4096,
		},
		Spawn: SpawnConfig{
			ChildEnv: "NORTHSTAR_CHILD",
		},
	}
}
