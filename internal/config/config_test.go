// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "macrokey", cfg.Logger().ServiceName)
	assert.Equal(t, time.Millisecond, cfg.Host().TickInterval)
	assert.Equal(t, EffectorLog, cfg.Host().Effector)
	assert.Equal(t, WaitSpin, cfg.Host().Wait)
	assert.Equal(t, "/dev/uinput", cfg.Host().Uinput.Device)
	assert.Equal(t, uint32(10), cfg.Engine().BounceOneIn)
	assert.Equal(t, uint32(20), cfg.Engine().GlitchOneIn)
	assert.Equal(t, 1500.0, cfg.Engine().TravelMeanUs)

	require.Len(t, cfg.Modes(), 2)
	assert.Equal(t, "og", cfg.Modes()[0].Name)
	assert.Equal(t, PhaseConfig{Key: "rctrl", MeanMs: 4500, StdDevMs: 700}, cfg.Modes()[0].Phases[1])

	assert.NoError(t, cfg.Validate(), "defaults must always validate")
}

func TestDefaultsMatchEngine(t *testing.T) {
	cfg := NewDefaultConfig()

	hc := cfg.HumanoidConfig()
	assert.Nil(t, hc.Entropy, "seed 0 leaves entropy to the host")
	hc.Entropy = nil
	assert.Equal(t, humanoid.DefaultConfig(), hc)

	policies, err := cfg.Policies()
	require.NoError(t, err)
	assert.Equal(t, humanoid.DefaultPolicies(), policies)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.LoggerCfg.Level = "loud" },
			errMsg: "level 'loud' is not a valid log level",
		},
		{
			name:   "bad log format",
			mutate: func(c *Config) { c.LoggerCfg.Format = "xml" },
			errMsg: "format must be 'console' or 'json'",
		},
		{
			name:   "zero tick interval",
			mutate: func(c *Config) { c.HostCfg.TickInterval = 0 },
			errMsg: "tick_interval must be a positive duration",
		},
		{
			name:   "unknown effector",
			mutate: func(c *Config) { c.HostCfg.Effector = "hid" },
			errMsg: "effector must be 'log' or 'uinput'",
		},
		{
			name:   "unknown wait",
			mutate: func(c *Config) { c.HostCfg.Wait = "yield" },
			errMsg: "wait must be 'spin' or 'sleep'",
		},
		{
			name: "uinput without device",
			mutate: func(c *Config) {
				c.HostCfg.Effector = EffectorUinput
				c.HostCfg.Uinput.Device = ""
			},
			errMsg: "uinput.device is required",
		},
		{
			name:   "zero odds",
			mutate: func(c *Config) { c.EngineCfg.GlitchOneIn = 0 },
			errMsg: "must be at least 1",
		},
		{
			name:   "negative stddev",
			mutate: func(c *Config) { c.EngineCfg.TravelStdDevUs = -1 },
			errMsg: "standard deviations must not be negative",
		},
		{
			name: "inverted split",
			mutate: func(c *Config) {
				c.EngineCfg.GlitchSplitMinPct = 80
				c.EngineCfg.GlitchSplitMaxPct = 20
			},
			errMsg: "glitch split must satisfy",
		},
		{
			name: "unknown key name",
			mutate: func(c *Config) {
				c.ModesCfg[0].Phases[0].Key = "hyper"
			},
			errMsg: "modes[0].phases[0]: humanoid: unknown key name 'hyper'",
		},
		{
			name:   "no modes",
			mutate: func(c *Config) { c.ModesCfg = nil },
			errMsg: "at least one mode policy is required",
		},
		{
			name:   "unknown start mode",
			mutate: func(c *Config) { c.HostCfg.StartMode = "turbo" },
			errMsg: "host.start_mode",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
engine:
  seed: 1234
  glitch_one_in: 50
host:
  tick_interval: 2ms
  wait: sleep
  start_mode: fast
modes:
  - name: fast
    phases:
      - { key: w, mean_ms: 300, stddev_ms: 40 }
      - { key: space, mean_ms: 120, stddev_ms: 20 }
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, 2*time.Millisecond, cfg.Host().TickInterval)
		assert.Equal(t, WaitSleep, cfg.Host().Wait)
		assert.Equal(t, uint32(50), cfg.Engine().GlitchOneIn)
		// Untouched keys keep their defaults.
		assert.Equal(t, uint32(10), cfg.Engine().BounceOneIn)
		assert.Equal(t, "info", cfg.Logger().Level)

		require.Len(t, cfg.Modes(), 1, "a modes list replaces the default list")
		policies, err := cfg.Policies()
		require.NoError(t, err)
		assert.Equal(t, []humanoid.Phase{
			{Key: humanoid.KeyW, MeanMs: 300, StdDevMs: 40},
			{Key: humanoid.KeySpace, MeanMs: 120, StdDevMs: 20},
		}, policies[0].Phases)

		hc := cfg.HumanoidConfig()
		require.NotNil(t, hc.Entropy)
		assert.Equal(t, uint32(1234), hc.Entropy())
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("host.tick_interval", "0s")

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "tick_interval must be a positive duration")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)

		yamlConfig := []byte(`
host:
  uinput:
    device: /dev/input/uinput
`)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		t.Setenv("MACROKEY_UINPUT_DEVICE", "/run/uinput")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "/run/uinput", cfg.Host().Uinput.Device, "env overrides the config file")
	})
}

func TestSetters(t *testing.T) {
	var cfg Interface = NewDefaultConfig()

	cfg.SetHostEffector(EffectorUinput)
	cfg.SetHostWait(WaitSleep)
	cfg.SetHostTickInterval(5 * time.Millisecond)
	cfg.SetHostStartMode("extra")
	cfg.SetEngineSeed(7)

	assert.Equal(t, EffectorUinput, cfg.Host().Effector)
	assert.Equal(t, WaitSleep, cfg.Host().Wait)
	assert.Equal(t, 5*time.Millisecond, cfg.Host().TickInterval)
	assert.Equal(t, "extra", cfg.Host().StartMode)
	assert.Equal(t, uint32(7), cfg.Engine().Seed)
}
