// Package prom provides a Prometheus-backed metrics recorder for
// synchronization runs.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
)

// Ensure Recorder implements the driven port.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// Recorder counts synchronization outcomes on Prometheus counters.
// Counter increments are concurrency-safe, so one recorder can be
// shared across parallel runs.
type Recorder struct {
	runsStarted   prometheus.Counter
	runsSucceeded prometheus.Counter
	runsFailed    prometheus.Counter
	tasksPlanned  prometheus.Counter
	warnings      *prometheus.CounterVec
}

// NewRecorder creates a recorder and registers its collectors. Pass
// prometheus.DefaultRegisterer outside of tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	return &Recorder{
		runsStarted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "irrigo_runs_started_total",
			Help: "Synchronization runs started.",
		}),
		runsSucceeded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "irrigo_runs_succeeded_total",
			Help: "Synchronization runs that produced a plan.",
		}),
		runsFailed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "irrigo_runs_failed_total",
			Help: "Synchronization runs aborted by a validation failure.",
		}),
		tasksPlanned: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "irrigo_tasks_planned_total",
			Help: "Tasks across all successful plans.",
		}),
		warnings: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "irrigo_warnings_total",
			Help: "Non-fatal planner warnings by kind.",
		}, []string{"kind"}),
	}
}

// RunStarted counts the start of a synchronization run.
func (r *Recorder) RunStarted() {
	r.runsStarted.Inc()
}

// RunSucceeded counts a completed run and its task count.
func (r *Recorder) RunSucceeded(taskCount int) {
	r.runsSucceeded.Inc()
	r.tasksPlanned.Add(float64(taskCount))
}

// RunFailed counts an aborted run.
func (r *Recorder) RunFailed() {
	r.runsFailed.Inc()
}

// WarningEmitted counts a non-fatal outcome by kind.
func (r *Recorder) WarningEmitted(kind string) {
	r.warnings.WithLabelValues(kind).Inc()
}
