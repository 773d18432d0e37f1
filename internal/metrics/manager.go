// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package metrics exposes the coordinator's internal state as prometheus
// metrics, grounded on the teacher's internal/metrics manager/collector
// split but adapted to push-style updates (the coordinator reports state
// transitions as they happen, rather than a collector pulling them from a
// poll loop, since the worker goroutine already knows every transition the
// instant it occurs).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

// Manager owns the registry and every metric the coordinator reports to
// it. One Manager is shared across all open files.
type Manager struct {
	registry *prometheus.Registry

	activeWriteTx   *prometheus.GaugeVec
	retriesTotal    *prometheus.CounterVec
	repliesTotal    *prometheus.CounterVec
	acquireDuration prometheus.Histogram
}

// NewManager builds a registry with the Go/process collectors plus the
// coordinator's own metrics, mirroring the teacher's NewManager wiring.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Manager{
		registry: registry,
		activeWriteTx: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sqlited_active_write_tx",
			Help: "1 if a file currently has an active write transaction, 0 otherwise.",
		}, []string{"file"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlited_write_retries_total",
			Help: "Total number of write-acquire retries scheduled due to SQLITE_BUSY.",
		}, []string{"file"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlited_replies_total",
			Help: "Total replies sent, partitioned by error_type (empty string for success).",
		}, []string{"error_type"}),
		acquireDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sqlited_write_acquire_seconds",
			Help:    "Time from a write-tx request being queued to it becoming active.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(m.activeWriteTx, m.retriesTotal, m.repliesTotal, m.acquireDuration)

	log.Info().Msg("metrics manager initialized")

	return m
}

// Registry returns the prometheus registry for the HTTP exporter to serve.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTxActive reports whether file currently holds the write slot.
func (m *Manager) WriteTxActive(file string, active bool) {
	v := 0.0
	if active {
		v = 1.0
	}
	m.activeWriteTx.WithLabelValues(file).Set(v)
}

// RetryScheduled increments the busy-retry counter for file.
func (m *Manager) RetryScheduled(file string) {
	m.retriesTotal.WithLabelValues(file).Inc()
}

// ReplySent records one reply, empty errType for a successful reply.
func (m *Manager) ReplySent(errType string) {
	m.repliesTotal.WithLabelValues(errType).Inc()
}

// ObserveAcquireSeconds records the queue-to-active latency of one write
// transaction acquisition.
func (m *Manager) ObserveAcquireSeconds(seconds float64) {
	m.acquireDuration.Observe(seconds)
}
