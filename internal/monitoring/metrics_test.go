package monitoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunMetrics_WriteTextfile tests the end-of-run dump
func TestRunMetrics_WriteTextfile(t *testing.T) {
	m := NewRunMetrics()
	m.FoldBuilt()
	m.FoldBuilt()
	m.FoldDegenerate()
	m.CandidatesEvaluated(128)
	m.SearchSeconds(3.5)

	path := filepath.Join(t.TempDir(), "run_metrics.prom")
	require.NoError(t, m.Write(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, "walkforward_folds_total 2")
	assert.Contains(t, text, "walkforward_folds_degenerate_total 1")
	assert.Contains(t, text, "walkforward_candidates_evaluated_total 128")
	assert.Contains(t, text, "walkforward_search_seconds 3.5")
}

// TestRunMetrics_IndependentRegistries tests that concurrent runs never collide
func TestRunMetrics_IndependentRegistries(t *testing.T) {
	a := NewRunMetrics()
	b := NewRunMetrics()
	a.FoldBuilt()

	path := filepath.Join(t.TempDir(), "b.prom")
	require.NoError(t, b.Write(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "walkforward_folds_total 0")
}
