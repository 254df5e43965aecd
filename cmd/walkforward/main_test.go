package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/walkforward/pkg/config"
)

func fptr(v float64) *float64 { return &v }

// TestDomains_PreservesDeclaredOrder tests the config to grid conversion
func TestDomains_PreservesDeclaredOrder(t *testing.T) {
	params := []config.ParameterConfig{
		{Name: "fast", Values: []float64{5, 10}},
		{Name: "slow", Values: []float64{50}, Refine: &config.RefineConfig{
			Step: 5, BandPct: 0.2, MinBand: 10, Min: fptr(20), Max: fptr(200),
		}},
	}

	out := domains(params)
	require.Len(t, out, 2)

	assert.Equal(t, "fast", out[0].Name)
	assert.Equal(t, []float64{5, 10}, out[0].Values)
	assert.Nil(t, out[0].Refine)

	require.NotNil(t, out[1].Refine)
	assert.Equal(t, 5.0, out[1].Refine.Step)
	assert.Equal(t, 0.2, out[1].Refine.BandPct)
	require.NotNil(t, out[1].Refine.Min)
	assert.Equal(t, 20.0, *out[1].Refine.Min)
}

// TestParamNames tests the reporter column ordering helper
func TestParamNames(t *testing.T) {
	params := []config.ParameterConfig{{Name: "fast"}, {Name: "slow"}}
	assert.Equal(t, []string{"fast", "slow"}, paramNames(params))
	assert.Empty(t, paramNames(nil))
}

// TestVolConfig_Mapping tests the sizing config conversion field by field
func TestVolConfig_Mapping(t *testing.T) {
	in := config.VolatilityConfig{
		TargetVol:         0.12,
		MaxLeverage:       4,
		MinHistory:        63,
		HalfLifeDays:      25,
		VolFloor:          0.02,
		VolCap:            0.9,
		AlwaysOnThreshold: 0.95,
		GapsThreshold:     0.85,
		MaxFlatRun:        15,
	}

	out := volConfig(in)
	assert.Equal(t, 0.12, out.TargetVol)
	assert.Equal(t, 4.0, out.MaxLeverage)
	assert.Equal(t, 63, out.MinHistory)
	assert.Equal(t, 25.0, out.HalfLifeDays)
	assert.Equal(t, 0.02, out.VolFloor)
	assert.Equal(t, 0.9, out.VolCap)
	assert.Equal(t, 0.95, out.AlwaysOnThreshold)
	assert.Equal(t, 0.85, out.GapsThreshold)
	assert.Equal(t, 15, out.MaxFlatRun)
}
