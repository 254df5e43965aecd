package signal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quantfold/walkforward/pkg/series"
)

// Params maps parameter names to concrete values for one candidate.
type Params map[string]float64

// Get returns the named parameter.
func (p Params) Get(name string) (float64, bool) {
	v, ok := p[name]
	return v, ok
}

// Int returns the named parameter rounded to an int, or def when absent.
func (p Params) Int(name string, def int) int {
	v, ok := p[name]
	if !ok {
		return def
	}
	return int(v + 0.5)
}

// Float returns the named parameter, or def when absent.
func (p Params) Float(name string, def float64) float64 {
	v, ok := p[name]
	if !ok {
		return def
	}
	return v
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// String renders parameters in sorted key order, for logs and job IDs.
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, p[k])
	}
	return strings.Join(parts, " ")
}

// Function maps a price slice and a parameter set to a raw position series,
// one value per input date, in [-1, +1]. Implementations must not look past
// the index they are emitting a position for.
type Function interface {
	Name() string
	Positions(prices series.Series, p Params) ([]float64, error)
}

// New returns the named signal function. Unknown names are configuration
// errors.
func New(name string) (Function, error) {
	switch name {
	case "ma_cross":
		return &MACross{}, nil
	case "mean_reversion":
		return &MeanReversion{}, nil
	case "momentum":
		return &Momentum{}, nil
	default:
		return nil, fmt.Errorf("unknown signal %q (want ma_cross, mean_reversion or momentum)", name)
	}
}
