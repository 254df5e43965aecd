package config

import "fmt"

// Validate checks the merged configuration before any data is touched.
// Violations are fatal at startup and name the offending key.
func (c *Config) Validate() error {
	wf := c.Walkforward
	if wf.TrainYears <= 0 {
		return fmt.Errorf("walkforward.train_years must be positive, got %d", wf.TrainYears)
	}
	if wf.TestYears <= 0 {
		return fmt.Errorf("walkforward.test_years must be positive, got %d", wf.TestYears)
	}
	if wf.EmbargoDays < 0 {
		return fmt.Errorf("walkforward.embargo_days must not be negative, got %d", wf.EmbargoDays)
	}
	if wf.MaxCandidates <= 0 {
		return fmt.Errorf("walkforward.max_candidates must be positive, got %d", wf.MaxCandidates)
	}

	v := c.Volatility
	if v.TargetVol <= 0 {
		return fmt.Errorf("volatility.target_vol must be positive, got %g", v.TargetVol)
	}
	if v.MaxLeverage <= 0 {
		return fmt.Errorf("volatility.max_leverage must be positive, got %g", v.MaxLeverage)
	}
	if v.MinHistory <= 0 {
		return fmt.Errorf("volatility.min_history must be positive, got %d", v.MinHistory)
	}
	if v.HalfLifeDays <= 0 {
		return fmt.Errorf("volatility.half_life_days must be positive, got %g", v.HalfLifeDays)
	}
	if v.VolFloor <= 0 || v.VolCap < v.VolFloor {
		return fmt.Errorf("volatility.vol_floor/vol_cap must satisfy 0 < floor <= cap, got %g/%g", v.VolFloor, v.VolCap)
	}

	if c.Costs.OneWayBps < 0 {
		return fmt.Errorf("costs.one_way_bps must not be negative, got %g", c.Costs.OneWayBps)
	}

	switch c.Scoring.Mode {
	case "primary", "composite":
	default:
		return fmt.Errorf("scoring.mode must be primary or composite, got %q", c.Scoring.Mode)
	}
	if c.Scoring.Mode == "composite" {
		s := c.Scoring
		if s.ReturnWeight < 0 || s.DrawdownWeight < 0 || s.TurnoverWeight < 0 || s.TailWeight < 0 {
			return fmt.Errorf("scoring weights must not be negative")
		}
	}

	if len(c.Parameters) == 0 {
		return fmt.Errorf("parameters must declare at least one search dimension")
	}
	seen := map[string]bool{}
	for i, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameters[%d].name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("parameters[%d].name %q declared twice", i, p.Name)
		}
		seen[p.Name] = true
		if len(p.Values) == 0 {
			return fmt.Errorf("parameters[%d] (%s) needs a coarse candidate list", i, p.Name)
		}
		if p.Refine != nil {
			if p.Refine.Step <= 0 {
				return fmt.Errorf("parameters[%d].refine.step must be positive, got %g", i, p.Refine.Step)
			}
			if p.Refine.BandPct < 0 || p.Refine.MinBand < 0 {
				return fmt.Errorf("parameters[%d].refine band settings must not be negative", i)
			}
			if p.Refine.Min != nil && p.Refine.Max != nil && *p.Refine.Min > *p.Refine.Max {
				return fmt.Errorf("parameters[%d].refine.min exceeds max", i)
			}
		}
	}

	for name := range c.Static {
		if !seen[name] {
			return fmt.Errorf("static.%s does not match any declared parameter", name)
		}
	}

	return nil
}
