// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Supervisor and child processes share one logger shape; a child process
// inherits its level through the environment so both sides of a channel log
// consistently.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("channel open", zap.String("channel", ch.String()))
//	logger.Error("spawn failed", zap.Error(err))
package logging
