package walkforward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/walkforward/pkg/series"
)

func pnlSeries(t *testing.T, start time.Time, values ...float64) series.Series {
	t.Helper()
	points := make([]series.Point, len(values))
	for i, v := range values {
		points[i] = series.Point{Date: start.AddDate(0, 0, i), Value: v}
	}
	s, err := series.New(points)
	require.NoError(t, err)
	return s
}

// TestStitch_ConcatenatesInFoldOrder tests the happy path
func TestStitch_ConcatenatesInFoldOrder(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	folds := []FoldResult{
		{Fold: Fold{Index: 0}, TestPnL: pnlSeries(t, d, 0.01, 0.02)},
		{Fold: Fold{Index: 1}, TestPnL: pnlSeries(t, d.AddDate(0, 0, 2), 0.03)},
	}

	out, err := Stitch(folds)
	require.NoError(t, err)

	require.Equal(t, 3, out.Len())
	assert.Equal(t, 0.01, out.Value(0))
	assert.Equal(t, 0.03, out.Value(2))
}

// TestStitch_SkipsEmptyFolds tests that degenerate folds leave a gap, not an error
func TestStitch_SkipsEmptyFolds(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	folds := []FoldResult{
		{Fold: Fold{Index: 0}, TestPnL: pnlSeries(t, d, 0.01)},
		{Fold: Fold{Index: 1}},
		{Fold: Fold{Index: 2}, TestPnL: pnlSeries(t, d.AddDate(0, 1, 0), 0.02)},
	}

	out, err := Stitch(folds)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

// TestStitch_RejectsOverlappingFolds tests the duplicate-date guard
func TestStitch_RejectsOverlappingFolds(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	folds := []FoldResult{
		{Fold: Fold{Index: 0}, TestPnL: pnlSeries(t, d, 0.01, 0.02)},
		{Fold: Fold{Index: 1}, TestPnL: pnlSeries(t, d.AddDate(0, 0, 1), 0.03)},
	}

	_, err := Stitch(folds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fold 1")
}

// TestStitch_Empty tests stitching nothing
func TestStitch_Empty(t *testing.T) {
	out, err := Stitch(nil)
	require.NoError(t, err)
	assert.True(t, out.Empty())
}
