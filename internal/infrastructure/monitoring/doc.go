// Package monitoring provides Prometheus metrics for the transport.
//
// Metrics cover channel lifecycle, message traffic by direction, and child
// process spawns. Collectors register with the global Prometheus registry,
// so the package exposes a single shared instance via Default.
package monitoring
