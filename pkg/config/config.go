package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the fully merged run configuration.
type Config struct {
	Markets     map[string]MarketConfig `json:"markets"`
	Walkforward WalkforwardConfig       `json:"walkforward"`
	Volatility  VolatilityConfig        `json:"volatility"`
	Costs       CostConfig              `json:"costs"`
	Scoring     ScoringConfig           `json:"scoring"`
	Signal      string                  `json:"signal"`
	Parameters  []ParameterConfig       `json:"parameters"`
	Static      map[string]float64      `json:"static"`
}

// MarketConfig locates the input series for one instrument.
type MarketConfig struct {
	DataFile string `json:"data_file"`
	Column   string `json:"column"`
	Tier     string `json:"tier,omitempty"`
}

// WalkforwardConfig sets fold geometry and search limits.
type WalkforwardConfig struct {
	TrainYears    int `json:"train_years"`
	TestYears     int `json:"test_years"`
	EmbargoDays   int `json:"embargo_days"`
	MaxCandidates int `json:"max_candidates"`
	Workers       int `json:"workers"`
}

// VolatilityConfig parameterizes the vol-targeting sizing layer.
type VolatilityConfig struct {
	TargetVol         float64 `json:"target_vol"`
	MaxLeverage       float64 `json:"max_leverage"`
	MinHistory        int     `json:"min_history"`
	HalfLifeDays      float64 `json:"half_life_days"`
	VolFloor          float64 `json:"vol_floor"`
	VolCap            float64 `json:"vol_cap"`
	AlwaysOnThreshold float64 `json:"always_on_threshold"`
	GapsThreshold     float64 `json:"gaps_threshold"`
	MaxFlatRun        int     `json:"max_flat_run"`
}

// CostConfig is the fixed basis-point transaction cost schedule.
type CostConfig struct {
	OneWayBps float64 `json:"one_way_bps"`
}

// ScoringConfig selects the candidate ranking mode and composite weights.
type ScoringConfig struct {
	Mode           string  `json:"mode"` // "primary" or "composite"
	ReturnWeight   float64 `json:"return_weight"`
	DrawdownWeight float64 `json:"drawdown_weight"`
	TurnoverWeight float64 `json:"turnover_weight"`
	TailWeight     float64 `json:"tail_weight"`
}

// ParameterConfig declares one search dimension: an explicit candidate list
// for the coarse pass, optionally plus a refinement spec used from the
// second fold on. Without a refine spec the full list is searched each fold.
type ParameterConfig struct {
	Name   string        `json:"name"`
	Values []float64     `json:"values,omitempty"`
	Refine *RefineConfig `json:"refine,omitempty"`
}

// RefineConfig bounds the local search band around the prior optimum.
type RefineConfig struct {
	Step    float64  `json:"step"`
	BandPct float64  `json:"band_pct"`
	MinBand float64  `json:"min_band"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// Defaults mirror the values the search was tuned with; layers override.
func defaultConfig() Config {
	return Config{
		Walkforward: WalkforwardConfig{
			TrainYears:    7,
			TestYears:     1,
			EmbargoDays:   21,
			MaxCandidates: 256,
		},
		Volatility: VolatilityConfig{
			TargetVol:         0.10,
			MaxLeverage:       5.0,
			MinHistory:        63,
			HalfLifeDays:      25,
			VolFloor:          0.01,
			VolCap:            1.0,
			AlwaysOnThreshold: 0.95,
			GapsThreshold:     0.85,
			MaxFlatRun:        15,
		},
		Costs:   CostConfig{OneWayBps: 2.0},
		Scoring: ScoringConfig{Mode: "primary", ReturnWeight: 1.0},
		Signal:  "ma_cross",
	}
}

// Load reads up to three JSON layers (base, global, run override; empty
// paths are skipped), merges them recursively and decodes the result.
// Missing base/run files are configuration errors; defaults only cover keys
// no layer sets.
func Load(paths ...string) (*Config, error) {
	layers := []map[string]interface{}{}
	for _, path := range paths {
		if path == "" {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config layer %s: %w", path, err)
		}
		var layer map[string]interface{}
		if err := json.Unmarshal(raw, &layer); err != nil {
			return nil, fmt.Errorf("config layer %s: %w", path, err)
		}
		layers = append(layers, layer)
	}

	merged := MergeLayers(layers...)
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("re-encoding merged config: %w", err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding merged config: %w", err)
	}
	return &cfg, nil
}

// Market resolves the configuration for a named market. A missing market or
// missing data path is fatal at startup, per the error-handling contract.
func (c *Config) Market(name string) (MarketConfig, error) {
	m, ok := c.Markets[name]
	if !ok {
		return MarketConfig{}, fmt.Errorf("missing configuration key markets.%s", name)
	}
	if m.DataFile == "" {
		return MarketConfig{}, fmt.Errorf("missing configuration key markets.%s.data_file", name)
	}
	return m, nil
}
