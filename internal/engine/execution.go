package engine

import (
	"fmt"
	"math"
	"time"
)

// CostModel charges a fixed one-way cost in basis points on each change of
// position, proportional to the absolute change, not to the resulting level.
type CostModel struct {
	OneWayBps float64
}

// ExecutionResult holds the date-aligned trade/cost/P&L arrays for one
// evaluated candidate. PnLGross and PnLNet are NaN at index 0: the T+1
// accrual needs yesterday's position, so the first date carries no P&L and
// no synthetic warm-up value is invented for it.
type ExecutionResult struct {
	Dates    []time.Time
	Position []float64
	Trade    []float64
	Cost     []float64
	PnLGross []float64
	PnLNet   []float64
}

// Execute applies T+1 accrual and the cost schedule to a sized position
// series: pnl_gross[t] = position[t-1] * return[t], trade[t] is the first
// difference of position (the day-0 trade enters from flat), and cost is
// charged on the date the position changes.
func (c CostModel) Execute(dates []time.Time, position, returns []float64) (*ExecutionResult, error) {
	n := len(position)
	if len(dates) != n || len(returns) != n {
		return nil, fmt.Errorf("execution inputs misaligned: %d dates, %d positions, %d returns", len(dates), n, len(returns))
	}

	res := &ExecutionResult{
		Dates:    dates,
		Position: position,
		Trade:    make([]float64, n),
		Cost:     make([]float64, n),
		PnLGross: make([]float64, n),
		PnLNet:   make([]float64, n),
	}
	for t := 0; t < n; t++ {
		prev := 0.0
		if t > 0 {
			prev = position[t-1]
		}
		res.Trade[t] = position[t] - prev
		res.Cost[t] = -math.Abs(res.Trade[t]) * c.OneWayBps / 10000

		if t == 0 {
			res.PnLGross[t] = math.NaN()
			res.PnLNet[t] = math.NaN()
			continue
		}
		r := returns[t]
		if math.IsNaN(r) {
			r = 0
		}
		res.PnLGross[t] = prev * r
		res.PnLNet[t] = res.PnLGross[t] + res.Cost[t]
	}
	return res, nil
}

// Warmup is the index of the first date with defined P&L.
func (r *ExecutionResult) Warmup() int { return 1 }

// Len returns the number of dates covered.
func (r *ExecutionResult) Len() int { return len(r.Dates) }
