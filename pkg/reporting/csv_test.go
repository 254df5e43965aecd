package reporting

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/walkforward/internal/engine"
	"github.com/quantfold/walkforward/internal/signal"
	"github.com/quantfold/walkforward/internal/walkforward"
	"github.com/quantfold/walkforward/pkg/series"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleResult(t *testing.T) *walkforward.RunResult {
	t.Helper()
	d := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	pnl, err := series.New([]series.Point{
		{Date: d, Value: 0.01},
		{Date: d.AddDate(0, 0, 1), Value: -0.005},
	})
	require.NoError(t, err)

	return &walkforward.RunResult{
		Folds: []walkforward.FoldResult{
			{
				Fold: walkforward.Fold{
					Index:      0,
					TrainStart: d.AddDate(-2, 0, 0),
					TrainEnd:   d.AddDate(0, 0, -30),
					TestStart:  d,
					TestEnd:    d.AddDate(1, 0, 0),
				},
				Params:     signal.Params{"fast": 10, "slow": 50},
				Train:      engine.Metrics{Observations: 500, AnnReturn: 0.08, AnnVol: 0.10, RiskAdjusted: 0.8, MaxDrawdown: -0.05, Turnover: 12},
				Test:       engine.Metrics{Observations: 240, AnnReturn: 0.05, AnnVol: 0.10, RiskAdjusted: 0.5, MaxDrawdown: -0.04, Turnover: 11, TailRatio: math.NaN()},
				TrainScore: 0.8,
				TestScore:  0.5,
				TestPnL:    pnl,
			},
			{
				Fold:       walkforward.Fold{Index: 1, Degenerate: true},
				Train:      engine.ZeroObservations(),
				Test:       engine.ZeroObservations(),
				TrainScore: math.NaN(),
				TestScore:  math.NaN(),
			},
		},
		Stitched: pnl,
	}
}

// TestWriteFolds tests the fold table layout and parameter columns
func TestWriteFolds(t *testing.T) {
	r := NewCSVReporter([]string{"fast", "slow"})
	path := filepath.Join(t.TempDir(), "folds.csv")

	used, err := r.WriteFolds(sampleResult(t), path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"fold", "train_start", "train_end", "test_start", "test_end", "degenerate", "fast", "slow"}, rows[0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "false", rows[1][5])
	assert.Equal(t, "10", rows[1][6])
	assert.Equal(t, "50", rows[1][7])

	// Degenerate fold has no chosen parameters.
	assert.Equal(t, "true", rows[2][5])
	assert.Equal(t, "", rows[2][6])
}

// TestWriteMetrics tests the fold-phase metric rows and NaN blanking
func TestWriteMetrics(t *testing.T) {
	r := NewCSVReporter(nil)
	path := filepath.Join(t.TempDir(), "metrics.csv")

	_, err := r.WriteMetrics(sampleResult(t), path)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 5) // header + 2 folds x 2 phases

	assert.Equal(t, []string{"0", "train"}, rows[1][:2])
	assert.Equal(t, []string{"0", "test"}, rows[2][:2])
	assert.Equal(t, "score", rows[0][9])
	assert.Equal(t, "0.8", rows[1][5])
	assert.Equal(t, "0.8", rows[1][9])
	assert.Equal(t, "", rows[2][8], "undefined tail ratio stays blank")
	assert.Equal(t, "", rows[3][5], "zero-observation fold has no defined ratio")
	assert.Equal(t, "", rows[3][9], "no candidates means no score")
}

// TestWriteSeries tests the date/value layout
func TestWriteSeries(t *testing.T) {
	r := NewCSVReporter(nil)
	path := filepath.Join(t.TempDir(), "stitched.csv")

	_, err := r.WriteSeries(sampleResult(t).Stitched, path)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "pnl_net"}, rows[0])
	assert.Equal(t, []string{"2023-01-02", "0.01"}, rows[1])
	assert.Equal(t, []string{"2023-01-03", "-0.005"}, rows[2])
}

// TestCreateWithFallback_NormalPath tests the direct write path
func TestCreateWithFallback_NormalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.csv")
	f, used, err := CreateWithFallback(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, path, used)
}

// TestCreateWithFallback_LockedTarget tests the timestamped sibling fallback
func TestCreateWithFallback_LockedTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	// A directory at the target path makes os.Create fail the way a locked
	// file does.
	require.NoError(t, os.Mkdir(path, 0o755))

	f, used, err := CreateWithFallback(path)
	require.NoError(t, err)
	defer f.Close()

	assert.NotEqual(t, path, used)
	assert.Contains(t, used, "out_")
	assert.Contains(t, used, ".csv")
}
