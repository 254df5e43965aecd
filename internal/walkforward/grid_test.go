package walkforward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/walkforward/internal/signal"
)

func fptr(v float64) *float64 { return &v }

// TestCoarse_CartesianOrder tests that the last parameter varies fastest
func TestCoarse_CartesianOrder(t *testing.T) {
	g := &Grid{Domains: []Domain{
		{Name: "fast", Values: []float64{5, 10}},
		{Name: "slow", Values: []float64{50, 100, 200}},
	}}

	out, err := g.Coarse()
	require.NoError(t, err)
	require.Len(t, out, 6)

	want := []signal.Params{
		{"fast": 5, "slow": 50},
		{"fast": 5, "slow": 100},
		{"fast": 5, "slow": 200},
		{"fast": 10, "slow": 50},
		{"fast": 10, "slow": 100},
		{"fast": 10, "slow": 200},
	}
	assert.Equal(t, want, out)
}

// TestCoarse_Deterministic tests that repeated expansion is identical
func TestCoarse_Deterministic(t *testing.T) {
	g := &Grid{Domains: []Domain{
		{Name: "a", Values: []float64{1, 2, 3}},
		{Name: "b", Values: []float64{4, 5}},
	}}

	first, err := g.Coarse()
	require.NoError(t, err)
	second, err := g.Coarse()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestCoarse_DedupesValues tests duplicate removal within one axis
func TestCoarse_DedupesValues(t *testing.T) {
	g := &Grid{Domains: []Domain{{Name: "a", Values: []float64{1, 2, 1, 2, 3}}}}
	out, err := g.Coarse()
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

// TestCoarse_MissingValuesList tests the error for an undeclared axis
func TestCoarse_MissingValuesList(t *testing.T) {
	g := &Grid{Domains: []Domain{{Name: "a", Refine: &RefineSpec{Step: 1}}}}
	_, err := g.Coarse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
}

// TestRefineAround_BandConstruction tests band width, stepping and bounds
func TestRefineAround_BandConstruction(t *testing.T) {
	g := &Grid{Domains: []Domain{{
		Name:   "lookback",
		Values: []float64{10, 20, 40},
		Refine: &RefineSpec{Step: 1, BandPct: 0.10, MinBand: 3, Min: fptr(18), Max: fptr(22)},
	}}}

	out, err := g.RefineAround(signal.Params{"lookback": 20})
	require.NoError(t, err)

	// band = max(3, 20*0.10) = 3, so 17..23 before the declared bounds clip
	// it to 18..22.
	want := []signal.Params{
		{"lookback": 18},
		{"lookback": 19},
		{"lookback": 20},
		{"lookback": 21},
		{"lookback": 22},
	}
	assert.Equal(t, want, out)
}

// TestRefineAround_MinBandFloorsNarrowBands tests the fractional-band floor
func TestRefineAround_MinBandFloorsNarrowBands(t *testing.T) {
	g := &Grid{Domains: []Domain{{
		Name:   "fast",
		Values: []float64{2, 5},
		Refine: &RefineSpec{Step: 1, BandPct: 0.10, MinBand: 2},
	}}}

	out, err := g.RefineAround(signal.Params{"fast": 5})
	require.NoError(t, err)

	// |5|*0.10 = 0.5 would collapse the band; the floor keeps 3..7.
	require.Len(t, out, 5)
	assert.Equal(t, 3.0, out[0]["fast"])
	assert.Equal(t, 7.0, out[4]["fast"])
}

// TestRefineAround_IntegerRounding tests whole-step rounding of candidates
func TestRefineAround_IntegerRounding(t *testing.T) {
	g := &Grid{Domains: []Domain{{
		Name:   "slow",
		Values: []float64{100},
		Refine: &RefineSpec{Step: 5, BandPct: 0.05, MinBand: 1},
	}}}

	out, err := g.RefineAround(signal.Params{"slow": 101.4})
	require.NoError(t, err)
	for _, p := range out {
		v := p["slow"]
		assert.Equal(t, float64(int(v)), v, "whole steps yield whole candidates")
	}
}

// TestRefineAround_FractionalStep tests that fractional steps stay fractional
func TestRefineAround_FractionalStep(t *testing.T) {
	g := &Grid{Domains: []Domain{{
		Name:   "width",
		Values: []float64{1.5},
		Refine: &RefineSpec{Step: 0.25, BandPct: 0, MinBand: 0.5},
	}}}

	out, err := g.RefineAround(signal.Params{"width": 1.5})
	require.NoError(t, err)

	require.Len(t, out, 5)
	assert.Equal(t, 1.0, out[0]["width"])
	assert.Equal(t, 1.25, out[1]["width"])
	assert.Equal(t, 2.0, out[4]["width"])
}

// TestRefineAround_KeepsPlainListsUnchanged tests axes without a refine spec
func TestRefineAround_KeepsPlainListsUnchanged(t *testing.T) {
	g := &Grid{Domains: []Domain{
		{Name: "mode", Values: []float64{0, 1}},
		{Name: "lookback", Values: []float64{10, 20}, Refine: &RefineSpec{Step: 1, BandPct: 0, MinBand: 1}},
	}}

	out, err := g.RefineAround(signal.Params{"mode": 1, "lookback": 20})
	require.NoError(t, err)

	// 2 modes x band {19, 20, 21}.
	require.Len(t, out, 6)
	assert.Equal(t, 0.0, out[0]["mode"])
	assert.Equal(t, 19.0, out[0]["lookback"])
}

// TestRefineAround_MissingCenter tests the error when the optimum lacks a param
func TestRefineAround_MissingCenter(t *testing.T) {
	g := &Grid{Domains: []Domain{{
		Name:   "lookback",
		Values: []float64{10},
		Refine: &RefineSpec{Step: 1, BandPct: 0.1, MinBand: 1},
	}}}

	_, err := g.RefineAround(signal.Params{"other": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookback")
}

// TestRefineAround_EmptyBandAfterClipping tests the empty-band error
func TestRefineAround_EmptyBandAfterClipping(t *testing.T) {
	g := &Grid{Domains: []Domain{{
		Name:   "lookback",
		Values: []float64{10},
		Refine: &RefineSpec{Step: 1, BandPct: 0, MinBand: 1, Min: fptr(100), Max: fptr(200)},
	}}}

	_, err := g.RefineAround(signal.Params{"lookback": 10})
	assert.Error(t, err)
}

// TestDownsample_StrideUnderCap tests the ceil stride rule
func TestDownsample_StrideUnderCap(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i)
	}
	g := &Grid{Domains: []Domain{{Name: "a", Values: values}}, MaxTotal: 4}

	out, err := g.Coarse()
	require.NoError(t, err)

	// stride = ceil(10/4) = 3: indexes 0, 3, 6, 9.
	require.Len(t, out, 4)
	assert.Equal(t, 0.0, out[0]["a"])
	assert.Equal(t, 3.0, out[1]["a"])
	assert.Equal(t, 9.0, out[3]["a"])
}

// TestDownsample_NoOpUnderLimit tests that small grids pass through untouched
func TestDownsample_NoOpUnderLimit(t *testing.T) {
	g := &Grid{Domains: []Domain{{Name: "a", Values: []float64{1, 2, 3}}}, MaxTotal: 10}
	out, err := g.Coarse()
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
