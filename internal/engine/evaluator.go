package engine

import (
	"fmt"
	"math"

	"github.com/quantfold/walkforward/internal/signal"
	"github.com/quantfold/walkforward/pkg/series"
)

// Evaluator runs one parameter set over one data slice: signal, then
// volatility-targeted sizing, then execution and costs. It is stateless and
// safe for concurrent use across candidates.
type Evaluator struct {
	Signal signal.Function
	Vol    VolConfig
	Cost   CostModel
}

// Result couples the execution arrays with the derived window metrics.
type Result struct {
	Exec    *ExecutionResult
	Metrics Metrics
	Class   StrategyClass
}

// Evaluate runs the full signal -> sizing -> execution pipeline on prices.
// An empty window yields a zero-observation result, not an error.
func (e *Evaluator) Evaluate(prices series.Series, p signal.Params) (*Result, error) {
	if prices.Empty() {
		return &Result{Metrics: ZeroObservations()}, nil
	}

	raw, err := e.Signal.Positions(prices, p)
	if err != nil {
		return nil, fmt.Errorf("signal %s: %w", e.Signal.Name(), err)
	}
	if len(raw) != prices.Len() {
		return nil, fmt.Errorf("signal %s returned %d positions for %d dates", e.Signal.Name(), len(raw), prices.Len())
	}

	returns := prices.Returns()
	lev := e.Vol.Leverage(raw, returns)

	position := make([]float64, len(raw))
	for i := range raw {
		v := raw[i] * lev[i]
		position[i] = math.Min(math.Max(v, -e.Vol.MaxLeverage), e.Vol.MaxLeverage)
	}

	exec, err := e.Cost.Execute(prices.Dates(), position, returns)
	if err != nil {
		return nil, err
	}

	return &Result{
		Exec:    exec,
		Metrics: ComputeMetrics(exec),
		Class:   e.Vol.Classify(raw),
	}, nil
}

// PnLSeries extracts the defined net P&L as a date series.
func (r *Result) PnLSeries() series.Series {
	if r.Exec == nil || r.Exec.Len() <= r.Exec.Warmup() {
		return series.Series{}
	}
	points := make([]series.Point, 0, r.Exec.Len()-r.Exec.Warmup())
	for t := r.Exec.Warmup(); t < r.Exec.Len(); t++ {
		points = append(points, series.Point{Date: r.Exec.Dates[t], Value: r.Exec.PnLNet[t]})
	}
	s, _ := series.New(points)
	return s
}
