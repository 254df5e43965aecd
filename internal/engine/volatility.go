package engine

import (
	"math"
	"sort"
)

const tradingDaysPerYear = 252

// VolConfig parameterizes volatility-targeted position sizing.
type VolConfig struct {
	TargetVol         float64 // annualized target, e.g. 0.10
	MaxLeverage       float64 // hard cap on the multiplier
	MinHistory        int     // observations required before sizing, e.g. 63
	HalfLifeDays      float64 // EWMA half-life in business days, e.g. 25
	VolFloor          float64 // realized vol clipped up to this before dividing
	VolCap            float64 // realized vol clipped down to this before dividing
	AlwaysOnThreshold float64 // active fraction above which a strategy is always-on
	GapsThreshold     float64 // active fraction for always-on-with-gaps
	MaxFlatRun        int     // longest flat run tolerated by the gaps class
	ActivityEps       float64 // |position| above this counts as active
}

// StrategyClass describes how often a strategy holds a position, which
// governs how its volatility is estimated.
type StrategyClass int

const (
	ClassSparse StrategyClass = iota
	ClassAlwaysOn
	ClassAlwaysOnGaps
)

func (c StrategyClass) String() string {
	switch c {
	case ClassAlwaysOn:
		return "always-on"
	case ClassAlwaysOnGaps:
		return "always-on-with-gaps"
	default:
		return "sparse"
	}
}

func (cfg VolConfig) activityEps() float64 {
	if cfg.ActivityEps > 0 {
		return cfg.ActivityEps
	}
	return 1e-6
}

// Classify buckets a raw position series by how continuously it is active.
func (cfg VolConfig) Classify(raw []float64) StrategyClass {
	if len(raw) == 0 {
		return ClassSparse
	}
	eps := cfg.activityEps()
	active := 0
	longestFlat, flatRun := 0, 0
	for _, p := range raw {
		if math.Abs(p) > eps {
			active++
			flatRun = 0
		} else {
			flatRun++
			if flatRun > longestFlat {
				longestFlat = flatRun
			}
		}
	}
	frac := float64(active) / float64(len(raw))
	if frac > cfg.AlwaysOnThreshold {
		return ClassAlwaysOn
	}
	if frac > cfg.GapsThreshold && longestFlat < cfg.MaxFlatRun {
		return ClassAlwaysOnGaps
	}
	return ClassSparse
}

// Leverage returns the per-date multiplier that scales the raw position so
// levered realized volatility tracks the target. Before MinHistory
// observations the multiplier is exactly zero: no position is taken during
// warm-up.
//
// Always-on strategies estimate variance from the strategy return
// (position x underlying return). Sparse strategies estimate it from the
// underlying return scaled by the median absolute position observed while
// active: a literal sparse-strategy return series understates the
// volatility of future active periods.
func (cfg VolConfig) Leverage(raw, returns []float64) []float64 {
	n := len(raw)
	lev := make([]float64, n)
	if n == 0 || len(returns) != n {
		return lev
	}

	class := cfg.Classify(raw)
	scale := 1.0
	if class == ClassSparse {
		scale = medianAbsActive(raw, cfg.activityEps())
	}

	// volInput[i] is the return whose square feeds the EWMA at i.
	volInput := make([]float64, n)
	for i := 0; i < n; i++ {
		r := returns[i]
		if math.IsNaN(r) {
			r = 0
		}
		switch class {
		case ClassAlwaysOn, ClassAlwaysOnGaps:
			volInput[i] = raw[i] * r
		default:
			volInput[i] = scale * r
		}
	}

	lambda := math.Pow(0.5, 1.0/cfg.HalfLifeDays)
	ewma := 0.0
	for i := 0; i < n; i++ {
		if i > 0 {
			// square of yesterday's return: sizing at i must not see r[i]
			ewma = lambda*ewma + (1-lambda)*volInput[i-1]*volInput[i-1]
		}
		if i < cfg.MinHistory {
			continue
		}
		annVol := math.Sqrt(ewma * tradingDaysPerYear)
		clipped := math.Min(math.Max(annVol, cfg.VolFloor), cfg.VolCap)
		l := cfg.TargetVol / clipped
		lev[i] = math.Min(math.Max(l, 0), cfg.MaxLeverage)
	}
	return lev
}

// medianAbsActive is the median absolute position over active days, 1 when
// no day is active.
func medianAbsActive(raw []float64, eps float64) float64 {
	var abs []float64
	for _, p := range raw {
		if math.Abs(p) > eps {
			abs = append(abs, math.Abs(p))
		}
	}
	if len(abs) == 0 {
		return 1
	}
	sort.Float64s(abs)
	mid := len(abs) / 2
	if len(abs)%2 == 1 {
		return abs[mid]
	}
	return (abs[mid-1] + abs[mid]) / 2
}
