package signal

import (
	"fmt"
	"math"

	"github.com/quantfold/walkforward/pkg/series"
)

// MeanReversion fades band breaks: short after the price closes above the
// upper band, long after it closes below the lower band, and flat again once
// it crosses back through the rolling mean. Parameters: "lookback" (days),
// "width" (band half-width in standard deviations).
type MeanReversion struct{}

func (m *MeanReversion) Name() string { return "mean_reversion" }

func (m *MeanReversion) Positions(prices series.Series, p Params) ([]float64, error) {
	lookback := p.Int("lookback", 0)
	width := p.Float("width", 0)
	if lookback < 2 {
		return nil, fmt.Errorf("mean_reversion needs lookback >= 2, got %d", lookback)
	}
	if width <= 0 {
		return nil, fmt.Errorf("mean_reversion needs positive width, got %g", width)
	}

	values := prices.Values()
	mean := rollingMean(values, lookback)
	std := rollingStd(values, lookback)

	positions := make([]float64, len(values))
	state := StateFlat
	for i, v := range values {
		if math.IsNaN(mean[i]) || math.IsNaN(std[i]) || std[i] == 0 {
			state = StateFlat
			continue
		}
		upper := mean[i] + width*std[i]
		lower := mean[i] - width*std[i]

		switch state {
		case StateFlat:
			if v > upper {
				state = StateShort
			} else if v < lower {
				state = StateLong
			}
		case StateShort:
			if v <= mean[i] {
				state = StateFlat
			}
		case StateLong:
			if v >= mean[i] {
				state = StateFlat
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
