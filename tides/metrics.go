package tides

import (
	"fmt"
	"sync"
)

// Metrics tracks in-memory counters for aggregator activity.
// All counters are concurrency-safe and can be incremented from multiple goroutines.
type Metrics struct {
	mu sync.Mutex

	// field evaluations
	NumPotential      uint64
	NumRadialGradient uint64
	NumAcceleration   uint64
	NumGradient       uint64

	// station displacement queries (single epoch and batched)
	NumDeformation uint64

	// harmonic expansion queries
	NumExpansions uint64

	// queries that returned an error
	NumErrors uint64
}

// NewMetrics creates a new Metrics instance with all counters initialized to zero.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncPotential increments the Potential counter.
func (m *Metrics) IncPotential() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumPotential++
}

// IncRadialGradient increments the RadialGradient counter.
func (m *Metrics) IncRadialGradient() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumRadialGradient++
}

// IncAcceleration increments the Acceleration counter.
func (m *Metrics) IncAcceleration() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumAcceleration++
}

// IncGradient increments the Gradient counter.
func (m *Metrics) IncGradient() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumGradient++
}

// IncDeformation increments the Deformation counter.
func (m *Metrics) IncDeformation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumDeformation++
}

// IncExpansions increments the Expansions counter.
func (m *Metrics) IncExpansions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumExpansions++
}

// IncErrors increments the Errors counter.
func (m *Metrics) IncErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumErrors++
}

// MetricsSnapshot is a snapshot of current metrics values.
// It's safe to read without holding the mutex.
type MetricsSnapshot struct {
	NumPotential      uint64
	NumRadialGradient uint64
	NumAcceleration   uint64
	NumGradient       uint64
	NumDeformation    uint64
	NumExpansions     uint64
	NumErrors         uint64
}

// Snapshot returns a snapshot of the current metrics values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		NumPotential:      m.NumPotential,
		NumRadialGradient: m.NumRadialGradient,
		NumAcceleration:   m.NumAcceleration,
		NumGradient:       m.NumGradient,
		NumDeformation:    m.NumDeformation,
		NumExpansions:     m.NumExpansions,
		NumErrors:         m.NumErrors,
	}
}

// String returns a human-readable string representation of the metrics.
func (m *Metrics) String() string {
	snap := m.Snapshot()
	return fmt.Sprintf("tide metrics: potential=%d radialGradient=%d acceleration=%d gradient=%d deformation=%d expansions=%d errors=%d",
		snap.NumPotential,
		snap.NumRadialGradient,
		snap.NumAcceleration,
		snap.NumGradient,
		snap.NumDeformation,
		snap.NumExpansions,
		snap.NumErrors,
	)
}
