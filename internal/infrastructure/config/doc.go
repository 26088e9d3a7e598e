// Package config provides 12-factor configuration management for the
// runtime.
//
// Configuration is loaded from environment variables with sensible defaults,
// which matters doubly here: a spawned child process receives its
// configuration through the same environment the spawner passes along.
//
// Configuration Sections:
//   - Logging: Log level and output format
//   - Channel: Message channel buffer sizing
//   - Spawn: Child process marker variable
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level})
//
// Environment Variables:
//   - NORTHSTAR_LOG_LEVEL, NORTHSTAR_LOG_DEV
//   - NORTHSTAR_CHANNEL_READ_BUF
//   - NORTHSTAR_SPAWN_CHILD_ENV
package config
