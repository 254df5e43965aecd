package signal

import (
	"fmt"

	"github.com/quantfold/walkforward/pkg/series"
)

// Momentum holds the sign of the trailing return over "lookback" days.
type Momentum struct{}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Positions(prices series.Series, p Params) ([]float64, error) {
	lookback := p.Int("lookback", 0)
	if lookback <= 0 {
		return nil, fmt.Errorf("momentum needs a positive lookback, got %d", lookback)
	}

	positions := make([]float64, prices.Len())
	for i := lookback; i < prices.Len(); i++ {
		past := prices.Value(i - lookback)
		if past == 0 {
			continue
		}
		switch {
		case prices.Value(i) > past:
			positions[i] = 1
		case prices.Value(i) < past:
			positions[i] = -1
		}
	}
	return positions, nil
}
