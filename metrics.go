package nvmesim

import "sync/atomic"

// MatrixMetrics tracks aggregate counters across a run-matrix invocation,
// at the granularity the simulator actually produces: whole runs, not
// individual block operations.
type MatrixMetrics struct {
	RunsStarted   atomic.Uint64
	RunsCompleted atomic.Uint64
	RunsFailed    atomic.Uint64
	ResetsSeen    atomic.Uint64
	TimeoutsSeen  atomic.Uint64
	TotalSteps    atomic.Uint64
}

// NewMatrixMetrics returns a zeroed MatrixMetrics.
func NewMatrixMetrics() *MatrixMetrics {
	return &MatrixMetrics{}
}

// RecordRun folds one run's outcome into the aggregate counters.
func (m *MatrixMetrics) RecordRun(stats RunStats, err error) {
	m.RunsStarted.Add(1)
	if err != nil {
		m.RunsFailed.Add(1)
		return
	}
	m.RunsCompleted.Add(1)
	m.TotalSteps.Add(uint64(stats.StepCount))
	if stats.HadReset {
		m.ResetsSeen.Add(1)
	}
	if stats.FaultInjected && !stats.HadReset {
		m.TimeoutsSeen.Add(1)
	}
}

// MatrixSnapshot is a point-in-time copy of MatrixMetrics' counters.
type MatrixSnapshot struct {
	RunsStarted   uint64
	RunsCompleted uint64
	RunsFailed    uint64
	ResetsSeen    uint64
	TimeoutsSeen  uint64
	TotalSteps    uint64
}

// Snapshot returns the current counter values.
func (m *MatrixMetrics) Snapshot() MatrixSnapshot {
	return MatrixSnapshot{
		RunsStarted:   m.RunsStarted.Load(),
		RunsCompleted: m.RunsCompleted.Load(),
		RunsFailed:    m.RunsFailed.Load(),
		ResetsSeen:    m.ResetsSeen.Load(),
		TimeoutsSeen:  m.TimeoutsSeen.Load(),
		TotalSteps:    m.TotalSteps.Load(),
	}
}

// Observer allows pluggable collection of per-run outcomes as a run-matrix
// executes. The default run-matrix driver uses MetricsObserver;
// ObserverRecorder (see testing.go) is a recording test double.
type Observer interface {
	ObserveRun(runID string, stats RunStats, err error)
}

// NoOpObserver discards every observation.
type NoOpObserver struct{}

func (NoOpObserver) ObserveRun(string, RunStats, error) {}

// MetricsObserver feeds observations into a MatrixMetrics.
type MetricsObserver struct {
	metrics *MatrixMetrics
}

// NewMetricsObserver returns an Observer that records into m.
func NewMetricsObserver(m *MatrixMetrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveRun(_ string, stats RunStats, err error) {
	o.metrics.RecordRun(stats, err)
}

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
