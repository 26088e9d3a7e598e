package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the transport.
type Metrics struct {
	// Channel metrics
	ChannelsActive prometheus.Gauge
	ChannelsTotal  prometheus.Counter

	// Message metrics, labeled by direction ("sent", "received")
	Messages      *prometheus.CounterVec
	MessageErrors *prometheus.CounterVec

	// Spawn metrics
	SpawnsTotal prometheus.Counter
	SpawnErrors prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metrics collector. Prometheus collectors
// register globally, so there is exactly one instance.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

// newMetrics creates and registers the metrics collector.
func newMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		ChannelsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "northstar_channels_active",
				Help: "Number of open message channels",
			},
		),
		ChannelsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "northstar_channels_total",
				Help: "Total number of message channels opened",
			},
		),

		Messages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "northstar_messages_total",
				Help: "Total number of messages exchanged",
			},
			[]string{"direction"},
		),
		MessageErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "northstar_message_errors_total",
				Help: "Total number of failed message operations",
			},
			[]string{"direction"},
		),

		SpawnsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "northstar_spawns_total",
				Help: "Total number of child processes spawned",
			},
		),
		SpawnErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "northstar_spawn_errors_total",
				Help: "Total number of failed spawns",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "northstar_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric.
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordMessage records one message in the given direction.
func (m *Metrics) RecordMessage(direction string) {
	m.Messages.WithLabelValues(direction).Inc()
}

// RecordMessageError records one failed message operation.
func (m *Metrics) RecordMessageError(direction string) {
	m.MessageErrors.WithLabelValues(direction).Inc()
}

// ChannelOpened records a newly opened channel.
func (m *Metrics) ChannelOpened() {
	m.ChannelsActive.Inc()
	m.ChannelsTotal.Inc()
}

// ChannelClosed records a closed channel.
func (m *Metrics) ChannelClosed() {
	m.ChannelsActive.Dec()
}

// RecordSpawn records a spawn attempt and whether it succeeded.
func (m *Metrics) RecordSpawn(err error) {
	m.SpawnsTotal.Inc()
	if err != nil {
		m.SpawnErrors.Inc()
	}
}
