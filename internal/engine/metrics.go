package engine

import (
	"math"
	"sort"
)

// Metrics summarizes one evaluated window. Ratio fields are NaN when their
// denominator is degenerate: an undefined ratio must stay distinguishable
// from a genuinely poor result, so it is never coerced to zero.
type Metrics struct {
	Observations int
	AnnReturn    float64
	AnnVol       float64
	RiskAdjusted float64
	MaxDrawdown  float64 // <= 0, peak-to-trough on the cumulative net curve
	Turnover     float64 // annualized sum of absolute position changes
	TailRatio    float64 // favorable vs unfavorable extreme returns
}

// ZeroObservations marks a window emptied by embargo trimming. It carries
// through aggregates as "no data", never as a zero return.
func ZeroObservations() Metrics {
	return Metrics{
		AnnReturn:    0,
		AnnVol:       0,
		RiskAdjusted: math.NaN(),
		MaxDrawdown:  0,
		Turnover:     0,
		TailRatio:    math.NaN(),
	}
}

// ComputeMetrics derives window metrics from an execution result, using
// only the dates where P&L is defined.
func ComputeMetrics(res *ExecutionResult) Metrics {
	if res == nil || res.Len() <= res.Warmup() {
		return ZeroObservations()
	}

	pnl := res.PnLNet[res.Warmup():]
	n := len(pnl)

	mean := 0.0
	for _, v := range pnl {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range pnl {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	std := math.Sqrt(variance)

	m := Metrics{
		Observations: n,
		AnnReturn:    mean * tradingDaysPerYear,
		AnnVol:       std * math.Sqrt(tradingDaysPerYear),
	}
	if std > 0 {
		m.RiskAdjusted = m.AnnReturn / m.AnnVol
	} else {
		m.RiskAdjusted = math.NaN()
	}

	m.MaxDrawdown = maxDrawdown(pnl)
	m.Turnover = turnover(res)
	m.TailRatio = tailRatio(pnl)
	return m
}

// maxDrawdown walks the cumulative net curve and returns the deepest
// peak-to-trough move as a non-positive number.
func maxDrawdown(pnl []float64) float64 {
	cum, peak, worst := 0.0, 0.0, 0.0
	for _, v := range pnl {
		cum += v
		if cum > peak {
			peak = cum
		}
		if dd := cum - peak; dd < worst {
			worst = dd
		}
	}
	return worst
}

// turnover annualizes the sum of absolute position changes over the window,
// including the day-0 entry from flat.
func turnover(res *ExecutionResult) float64 {
	total := 0.0
	for _, t := range res.Trade {
		total += math.Abs(t)
	}
	days := res.Len()
	if days == 0 {
		return 0
	}
	return total / float64(days) * tradingDaysPerYear
}

// tailRatio compares the magnitude of the top and bottom 5% of daily
// returns. NaN when either tail is empty or the losing tail is zero.
func tailRatio(pnl []float64) float64 {
	n := len(pnl)
	k := n / 20
	if k == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, pnl)
	sort.Float64s(sorted)

	bottom, top := 0.0, 0.0
	for i := 0; i < k; i++ {
		bottom += sorted[i]
		top += sorted[n-1-i]
	}
	bottom /= float64(k)
	top /= float64(k)
	if bottom >= 0 {
		return math.NaN()
	}
	return math.Abs(top) / math.Abs(bottom)
}
