package signal

import (
	"fmt"
	"math"

	"github.com/quantfold/walkforward/pkg/series"
)

// State of the day-by-day position machine.
type State int

const (
	StateFlat State = iota
	StateLong
	StateShort
)

func (s State) String() string {
	switch s {
	case StateLong:
		return "LONG"
	case StateShort:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// MACross holds long while the fast moving average sits above the slow one
// and short while below. Parameters: "fast", "slow" (lookbacks in days).
//
// Transitions run as an explicit state machine over the index so the rules
// stay visible: FLAT until both averages exist, then LONG/SHORT on the sign
// of the spread, carrying the prior state while the spread is exactly zero.
type MACross struct{}

func (m *MACross) Name() string { return "ma_cross" }

func (m *MACross) Positions(prices series.Series, p Params) ([]float64, error) {
	fast := p.Int("fast", 0)
	slow := p.Int("slow", 0)
	if fast <= 0 || slow <= 0 {
		return nil, fmt.Errorf("ma_cross needs positive fast and slow lookbacks, got fast=%d slow=%d", fast, slow)
	}
	if fast >= slow {
		return nil, fmt.Errorf("ma_cross needs fast < slow, got fast=%d slow=%d", fast, slow)
	}

	values := prices.Values()
	fastMA := rollingMean(values, fast)
	slowMA := rollingMean(values, slow)

	positions := make([]float64, len(values))
	state := StateFlat
	for i := range values {
		if math.IsNaN(fastMA[i]) || math.IsNaN(slowMA[i]) {
			state = StateFlat
		} else {
			spread := fastMA[i] - slowMA[i]
			switch {
			case spread > 0:
				state = StateLong
			case spread < 0:
				state = StateShort
				// spread == 0: hold the prior state
			}
		}
		switch state {
		case StateLong:
			positions[i] = 1
		case StateShort:
			positions[i] = -1
		}
	}
	return positions, nil
}
