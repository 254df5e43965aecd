package reporting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormatRatio tests the n/a rendering for undefined ratios
func TestFormatRatio(t *testing.T) {
	assert.Equal(t, "n/a", formatRatio(math.NaN()))
	assert.Equal(t, "1.25", formatRatio(1.25))
	assert.Equal(t, "-0.50", formatRatio(-0.5))
}

// TestConsoleReporter_Smoke tests that rendering a full result does not panic
func TestConsoleReporter_Smoke(t *testing.T) {
	r := NewConsoleReporter([]string{"fast", "slow"})
	result := sampleResult(t)

	assert.NotPanics(t, func() {
		r.PrintFolds(result)
		r.PrintMetrics(result)
		r.PrintSummary(result)
	})
}
