package walkforward

import (
	"fmt"
	"math"

	"github.com/quantfold/walkforward/internal/signal"
)

// RefineSpec bounds the local search band around a prior optimum.
type RefineSpec struct {
	Step    float64
	BandPct float64
	MinBand float64
	Min     *float64
	Max     *float64
}

// Domain declares one search dimension: an explicit candidate list for
// coarse expansion, optionally plus a refinement spec. A domain without a
// refine spec keeps its full list in refinement mode.
type Domain struct {
	Name   string
	Values []float64
	Refine *RefineSpec
}

// Grid expands parameter domains into a finite, duplicate-free, ordered
// candidate list. Declared parameter order fixes the product order, with the
// last parameter varying fastest. Expansion is pure: identical inputs always
// produce the identical ordered list.
type Grid struct {
	Domains  []Domain
	MaxTotal int
}

// Coarse returns the cartesian product of every domain's explicit candidate
// list.
func (g *Grid) Coarse() ([]signal.Params, error) {
	axes := make([][]float64, len(g.Domains))
	for i, d := range g.Domains {
		if len(d.Values) == 0 {
			return nil, fmt.Errorf("parameter %s has no coarse candidate list", d.Name)
		}
		axes[i] = dedupeValues(d.Values)
	}
	return g.downsample(g.product(axes)), nil
}

// RefineAround returns the local band around the previous fold's optimum.
// Domains carrying a refine spec step through [best-band, best+band] where
// band = max(MinBand, |best|*BandPct), clipped to declared bounds; domains
// without one keep their explicit coarse list unchanged.
func (g *Grid) RefineAround(best signal.Params) ([]signal.Params, error) {
	axes := make([][]float64, len(g.Domains))
	for i, d := range g.Domains {
		if d.Refine == nil {
			if len(d.Values) == 0 {
				return nil, fmt.Errorf("parameter %s has neither values nor a refine spec", d.Name)
			}
			axes[i] = dedupeValues(d.Values)
			continue
		}
		center, ok := best[d.Name]
		if !ok {
			return nil, fmt.Errorf("previous optimum is missing parameter %s", d.Name)
		}
		axes[i] = bandValues(center, *d.Refine)
		if len(axes[i]) == 0 {
			return nil, fmt.Errorf("parameter %s: refinement band around %g is empty after clipping", d.Name, center)
		}
	}
	return g.downsample(g.product(axes)), nil
}

// bandValues expands one refinement band, integer-rounding when the step is
// whole.
func bandValues(center float64, spec RefineSpec) []float64 {
	band := math.Max(spec.MinBand, math.Abs(center)*spec.BandPct)
	low, high := center-band, center+band
	if spec.Min != nil && low < *spec.Min {
		low = *spec.Min
	}
	if spec.Max != nil && high > *spec.Max {
		high = *spec.Max
	}

	wholeStep := spec.Step == math.Trunc(spec.Step)
	var out []float64
	for v := low; v <= high+1e-9; v += spec.Step {
		c := v
		if wholeStep {
			c = math.Round(c)
		}
		if spec.Min != nil && c < *spec.Min {
			continue
		}
		if spec.Max != nil && c > *spec.Max {
			continue
		}
		if len(out) > 0 && c == out[len(out)-1] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// product walks the axes with the last parameter varying fastest.
func (g *Grid) product(axes [][]float64) []signal.Params {
	total := 1
	for _, axis := range axes {
		total *= len(axis)
	}
	if total == 0 {
		return nil
	}

	out := make([]signal.Params, 0, total)
	idx := make([]int, len(axes))
	for {
		p := make(signal.Params, len(axes))
		for i, d := range g.Domains {
			p[d.Name] = axes[i][idx[i]]
		}
		out = append(out, p)

		k := len(axes) - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < len(axes[k]) {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return out
		}
	}
}

// downsample strides the candidate list down to MaxTotal, taking every Nth
// entry with N = ceil(count/MaxTotal).
func (g *Grid) downsample(candidates []signal.Params) []signal.Params {
	if g.MaxTotal <= 0 || len(candidates) <= g.MaxTotal {
		return candidates
	}
	stride := (len(candidates) + g.MaxTotal - 1) / g.MaxTotal
	out := make([]signal.Params, 0, g.MaxTotal)
	for i := 0; i < len(candidates); i += stride {
		out = append(out, candidates[i])
	}
	return out
}

func dedupeValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	seen := make(map[float64]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
