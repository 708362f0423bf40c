// File: internal/config/humanoid_config.go
// This file defines the engine tuning and the mode (timing policy) sections.
// Together they control the hold timing model: per-phase hold distributions,
// travel jitter, contact bounce and glitch splitting. They load from YAML
// through viper so a keymap can be retuned without touching code.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// EngineConfig tunes the timing model shared by every mode.
type EngineConfig struct {
	// Seed, when non-zero, replaces the per-session entropy so runs repeat.
	Seed uint32 `mapstructure:"seed" yaml:"seed"`

	BounceOneIn uint32 `mapstructure:"bounce_one_in" yaml:"bounce_one_in"`
	GlitchOneIn uint32 `mapstructure:"glitch_one_in" yaml:"glitch_one_in"`

	TravelMeanUs   float64 `mapstructure:"travel_mean_us" yaml:"travel_mean_us"`
	TravelStdDevUs float64 `mapstructure:"travel_stddev_us" yaml:"travel_stddev_us"`

	BounceOffMeanUs   float64 `mapstructure:"bounce_off_mean_us" yaml:"bounce_off_mean_us"`
	BounceOffStdDevUs float64 `mapstructure:"bounce_off_stddev_us" yaml:"bounce_off_stddev_us"`
	BounceOnMeanUs    float64 `mapstructure:"bounce_on_mean_us" yaml:"bounce_on_mean_us"`
	BounceOnStdDevUs  float64 `mapstructure:"bounce_on_stddev_us" yaml:"bounce_on_stddev_us"`

	GlitchGapMeanMs   float64 `mapstructure:"glitch_gap_mean_ms" yaml:"glitch_gap_mean_ms"`
	GlitchGapStdDevMs float64 `mapstructure:"glitch_gap_stddev_ms" yaml:"glitch_gap_stddev_ms"`
	GlitchSplitMinPct uint32  `mapstructure:"glitch_split_min_pct" yaml:"glitch_split_min_pct"`
	GlitchSplitMaxPct uint32  `mapstructure:"glitch_split_max_pct" yaml:"glitch_split_max_pct"`
}

// ModeConfig is one toggleable macro: a named cycle of hold phases.
type ModeConfig struct {
	Name   string        `mapstructure:"name" yaml:"name"`
	Phases []PhaseConfig `mapstructure:"phases" yaml:"phases"`
}

// PhaseConfig is a key and the normal distribution of its hold time.
type PhaseConfig struct {
	Key      string  `mapstructure:"key" yaml:"key"`
	MeanMs   float64 `mapstructure:"mean_ms" yaml:"mean_ms"`
	StdDevMs float64 `mapstructure:"stddev_ms" yaml:"stddev_ms"`
}

func setHumanoidDefaults(v *viper.Viper) {
	d := humanoid.DefaultConfig()

	v.SetDefault("engine.seed", 0)
	v.SetDefault("engine.bounce_one_in", d.BounceOneIn)
	v.SetDefault("engine.glitch_one_in", d.GlitchOneIn)
	v.SetDefault("engine.travel_mean_us", d.TravelMeanUs)
	v.SetDefault("engine.travel_stddev_us", d.TravelStdDevUs)
	v.SetDefault("engine.bounce_off_mean_us", d.BounceOffMeanUs)
	v.SetDefault("engine.bounce_off_stddev_us", d.BounceOffStdDevUs)
	v.SetDefault("engine.bounce_on_mean_us", d.BounceOnMeanUs)
	v.SetDefault("engine.bounce_on_stddev_us", d.BounceOnStdDevUs)
	v.SetDefault("engine.glitch_gap_mean_ms", d.GlitchGapMeanMs)
	v.SetDefault("engine.glitch_gap_stddev_ms", d.GlitchGapStdDevMs)
	v.SetDefault("engine.glitch_split_min_pct", d.GlitchSplitMinPct)
	v.SetDefault("engine.glitch_split_max_pct", d.GlitchSplitMaxPct)

	// Modes are a list, so the default is the whole list. A config file that
	// sets "modes" replaces it rather than merging.
	var modes []map[string]interface{}
	for _, p := range humanoid.DefaultPolicies() {
		phases := make([]map[string]interface{}, 0, len(p.Phases))
		for _, ph := range p.Phases {
			phases = append(phases, map[string]interface{}{
				"key":       ph.Key.String(),
				"mean_ms":   ph.MeanMs,
				"stddev_ms": ph.StdDevMs,
			})
		}
		modes = append(modes, map[string]interface{}{"name": p.Name, "phases": phases})
	}
	v.SetDefault("modes", modes)
}

// Validate checks the EngineConfig settings.
func (e *EngineConfig) Validate() error {
	if e.BounceOneIn == 0 || e.GlitchOneIn == 0 {
		return fmt.Errorf("bounce_one_in and glitch_one_in must be at least 1")
	}
	if e.TravelMeanUs < 0 || e.BounceOffMeanUs < 0 || e.BounceOnMeanUs < 0 || e.GlitchGapMeanMs < 0 {
		return fmt.Errorf("mean delays must not be negative")
	}
	if e.TravelStdDevUs < 0 || e.BounceOffStdDevUs < 0 || e.BounceOnStdDevUs < 0 || e.GlitchGapStdDevMs < 0 {
		return fmt.Errorf("standard deviations must not be negative")
	}
	if e.GlitchSplitMinPct > e.GlitchSplitMaxPct || e.GlitchSplitMaxPct > 100 {
		return fmt.Errorf("glitch split must satisfy 0 <= min_pct <= max_pct <= 100")
	}
	return nil
}

// HumanoidConfig converts the engine section to the engine's own config.
// Generator and entropy are left for the caller to inject.
func (c *Config) HumanoidConfig() humanoid.Config {
	e := c.EngineCfg
	hc := humanoid.Config{
		BounceOneIn:       e.BounceOneIn,
		GlitchOneIn:       e.GlitchOneIn,
		TravelMeanUs:      e.TravelMeanUs,
		TravelStdDevUs:    e.TravelStdDevUs,
		BounceOffMeanUs:   e.BounceOffMeanUs,
		BounceOffStdDevUs: e.BounceOffStdDevUs,
		BounceOnMeanUs:    e.BounceOnMeanUs,
		BounceOnStdDevUs:  e.BounceOnStdDevUs,
		GlitchGapMeanMs:   e.GlitchGapMeanMs,
		GlitchGapStdDevMs: e.GlitchGapStdDevMs,
		GlitchSplitMinPct: e.GlitchSplitMinPct,
		GlitchSplitMaxPct: e.GlitchSplitMaxPct,
	}
	if e.Seed != 0 {
		seed := e.Seed
		hc.Entropy = func() uint32 { return seed }
	}
	return hc
}

// Policies resolves key names and returns the configured modes.
func (c *Config) Policies() ([]humanoid.Policy, error) {
	policies := make([]humanoid.Policy, 0, len(c.ModesCfg))
	for i, m := range c.ModesCfg {
		p := humanoid.Policy{Name: m.Name, Phases: make([]humanoid.Phase, 0, len(m.Phases))}
		for j, ph := range m.Phases {
			k, err := humanoid.ParseKey(ph.Key)
			if err != nil {
				return nil, fmt.Errorf("modes[%d].phases[%d]: %w", i, j, err)
			}
			p.Phases = append(p.Phases, humanoid.Phase{Key: k, MeanMs: ph.MeanMs, StdDevMs: ph.StdDevMs})
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// PolicyTable builds the validated policy table for the engine.
func (c *Config) PolicyTable() (*humanoid.PolicyTable, error) {
	policies, err := c.Policies()
	if err != nil {
		return nil, err
	}
	return humanoid.NewPolicyTable(policies)
}
