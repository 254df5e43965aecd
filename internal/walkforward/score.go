package walkforward

import (
	"math"

	"github.com/quantfold/walkforward/internal/engine"
	"github.com/quantfold/walkforward/internal/signal"
)

// Scorer ranks candidates from train-window metrics. Primary mode scores
// risk-adjusted return alone; composite mode mixes in drawdown and turnover
// penalties and a tail-ratio bonus with configurable non-negative weights.
type Scorer struct {
	Mode           string // "primary" or "composite"
	ReturnWeight   float64
	DrawdownWeight float64
	TurnoverWeight float64
	TailWeight     float64
}

// Candidate pairs a parameter set with its train metrics and score. Index
// is the position in the expanded grid and fixes all ordering.
type Candidate struct {
	Index   int
	Params  signal.Params
	Metrics engine.Metrics
	Score   float64
}

// Score computes the scalar ranking value. Undefined inputs (NaN ratios)
// propagate: a candidate whose score cannot be defined ranks below every
// candidate with a defined score rather than masquerading as zero.
func (s Scorer) Score(m engine.Metrics) float64 {
	if s.Mode != "composite" {
		return m.RiskAdjusted
	}
	score := s.ReturnWeight*m.RiskAdjusted -
		s.DrawdownWeight*math.Abs(m.MaxDrawdown) -
		s.TurnoverWeight*m.Turnover
	if s.TailWeight != 0 {
		score += s.TailWeight * m.TailRatio
	}
	return score
}

const scoreTie = 1e-12

// SelectBest returns the index into candidates of the winner. Ties on score
// break first to the lower absolute drawdown, then to the lower turnover,
// then to the earlier grid position, so selection is deterministic no matter
// what order results were produced in. Returns false when candidates is
// empty; when every score is undefined the first candidate wins.
func (s Scorer) SelectBest(candidates []Candidate) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if better(candidates[i], candidates[best]) {
			best = i
		}
	}
	return best, true
}

func better(a, b Candidate) bool {
	aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
	switch {
	case aNaN && bNaN:
		return false // keep earlier index
	case aNaN:
		return false
	case bNaN:
		return true
	}
	if math.Abs(a.Score-b.Score) > scoreTie {
		return a.Score > b.Score
	}
	addd, bddd := math.Abs(a.Metrics.MaxDrawdown), math.Abs(b.Metrics.MaxDrawdown)
	if addd != bddd {
		return addd < bddd
	}
	if a.Metrics.Turnover != b.Metrics.Turnover {
		return a.Metrics.Turnover < b.Metrics.Turnover
	}
	return false
}
