package server

import (
	"sync/atomic"
	"time"
)

// Metrics holds server runtime counters.
type Metrics struct {
	ConnectionsTotal  atomic.Int64
	ActiveConnections atomic.Int64
	RequestsTotal     atomic.Int64
	Status2xx         atomic.Int64
	Status4xx         atomic.Int64
	ErrorsTotal       atomic.Int64
	PanicsTotal       atomic.Int64
	BytesWritten      atomic.Int64

	TotalLatencyNs atomic.Int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) connOpened() {
	m.ConnectionsTotal.Add(1)
	m.ActiveConnections.Add(1)
}

func (m *Metrics) connClosed() {
	m.ActiveConnections.Add(-1)
}

// RecordRequest records a request that produced a response.
func (m *Metrics) RecordRequest(statusCode int, written int64, duration time.Duration) {
	m.RequestsTotal.Add(1)
	m.BytesWritten.Add(written)
	m.TotalLatencyNs.Add(duration.Nanoseconds())

	switch {
	case statusCode >= 200 && statusCode < 300:
		m.Status2xx.Add(1)
	case statusCode >= 400 && statusCode < 500:
		m.Status4xx.Add(1)
	}
}

// RecordError records a request aborted without a response.
func (m *Metrics) RecordError() {
	m.ErrorsTotal.Add(1)
}

// RecordPanic records a recovered connection handler panic.
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Add(1)
}

// AverageLatency returns average request latency
func (m *Metrics) AverageLatency() time.Duration {
	totalReqs := m.RequestsTotal.Load()
	if totalReqs == 0 {
		return 0
	}
	return time.Duration(m.TotalLatencyNs.Load() / totalReqs)
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	ConnectionsTotal  int64
	ActiveConnections int64
	RequestsTotal     int64
	Status2xx         int64
	Status4xx         int64
	ErrorsTotal       int64
	PanicsTotal       int64
	BytesWritten      int64
	AverageLatency    time.Duration
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ConnectionsTotal:  m.ConnectionsTotal.Load(),
		ActiveConnections: m.ActiveConnections.Load(),
		RequestsTotal:     m.RequestsTotal.Load(),
		Status2xx:         m.Status2xx.Load(),
		Status4xx:         m.Status4xx.Load(),
		ErrorsTotal:       m.ErrorsTotal.Load(),
		PanicsTotal:       m.PanicsTotal.Load(),
		BytesWritten:      m.BytesWritten.Load(),
		AverageLatency:    m.AverageLatency(),
	}
}
