package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics aggregates counters for one batch run on a private registry.
// The process has no listener; Write dumps the registry to a Prometheus
// textfile at the end of the run.
type RunMetrics struct {
	registry *prometheus.Registry

	foldsBuilt      prometheus.Counter
	foldsDegenerate prometheus.Counter
	candidates      prometheus.Counter
	searchSeconds   prometheus.Gauge
}

// NewRunMetrics creates and registers the run counters.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		foldsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walkforward_folds_total",
			Help: "Folds emitted by the fold builder",
		}),
		foldsDegenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walkforward_folds_degenerate_total",
			Help: "Folds whose window was emptied by embargo trimming",
		}),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walkforward_candidates_evaluated_total",
			Help: "Parameter sets evaluated across all folds",
		}),
		searchSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walkforward_search_seconds",
			Help: "Wall time of the full search",
		}),
	}
	m.registry.MustRegister(m.foldsBuilt, m.foldsDegenerate, m.candidates, m.searchSeconds)
	return m
}

// FoldBuilt records one emitted fold.
func (m *RunMetrics) FoldBuilt() { m.foldsBuilt.Inc() }

// FoldDegenerate records one fold skipped as zero-observation.
func (m *RunMetrics) FoldDegenerate() { m.foldsDegenerate.Inc() }

// CandidatesEvaluated records a batch of evaluated parameter sets.
func (m *RunMetrics) CandidatesEvaluated(n int) { m.candidates.Add(float64(n)) }

// SearchSeconds records the total search wall time.
func (m *RunMetrics) SearchSeconds(s float64) { m.searchSeconds.Set(s) }

// Write dumps the registry to path in Prometheus textfile format.
func (m *RunMetrics) Write(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
