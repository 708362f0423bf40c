// internal/humanoid/config.go
package humanoid

// Hard limits. These are not part of Config on purpose: the timeout and the
// floors must hold for every configuration.
const (
	// MinHoldMs is the floor for every sampled phase hold.
	MinHoldMs = 50.0
	// MinGlitchGapMs is the floor for the release gap of a glitch split.
	MinGlitchGapMs = 20.0
	// SessionTimeoutMs stops any session after 150 seconds.
	SessionTimeoutMs uint32 = 150_000
	// MaxWaitUs clamps a single jitter wait.
	MaxWaitUs = 60_000.0
)

// Config holds the tunable parameters of the timing model.
type Config struct {
	// Rng, when set, is used instead of a fresh generator.
	Rng *RNG
	// Entropy supplies the 32 bits mixed into the generator on every start.
	// When nil the executor clock is used.
	Entropy func() uint32

	// Odds, expressed as "1 in N".
	BounceOneIn uint32
	GlitchOneIn uint32

	// Travel delay before each assert, microseconds.
	TravelMeanUs, TravelStdDevUs float64

	// Bounce pulse: released gap then re-pressed width, microseconds.
	BounceOffMeanUs, BounceOffStdDevUs float64
	BounceOnMeanUs, BounceOnStdDevUs   float64

	// Glitch split parameters.
	GlitchGapMeanMs, GlitchGapStdDevMs   float64
	GlitchSplitMinPct, GlitchSplitMaxPct uint32
}

// DefaultConfig returns the stock timing model.
func DefaultConfig() Config {
	return Config{
		BounceOneIn:       10,
		GlitchOneIn:       20,
		TravelMeanUs:      1500,
		TravelStdDevUs:    400,
		BounceOffMeanUs:   500,
		BounceOffStdDevUs: 200,
		BounceOnMeanUs:    300,
		BounceOnStdDevUs:  100,
		GlitchGapMeanMs:   80,
		GlitchGapStdDevMs: 30,
		GlitchSplitMinPct: 30,
		GlitchSplitMaxPct: 70,
	}
}

// normalize fills zero values from the defaults and repairs inverted ranges.
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.BounceOneIn == 0 {
		c.BounceOneIn = d.BounceOneIn
	}
	if c.GlitchOneIn == 0 {
		c.GlitchOneIn = d.GlitchOneIn
	}
	if c.TravelMeanUs == 0 && c.TravelStdDevUs == 0 {
		c.TravelMeanUs, c.TravelStdDevUs = d.TravelMeanUs, d.TravelStdDevUs
	}
	if c.BounceOffMeanUs == 0 && c.BounceOffStdDevUs == 0 {
		c.BounceOffMeanUs, c.BounceOffStdDevUs = d.BounceOffMeanUs, d.BounceOffStdDevUs
	}
	if c.BounceOnMeanUs == 0 && c.BounceOnStdDevUs == 0 {
		c.BounceOnMeanUs, c.BounceOnStdDevUs = d.BounceOnMeanUs, d.BounceOnStdDevUs
	}
	if c.GlitchGapMeanMs == 0 && c.GlitchGapStdDevMs == 0 {
		c.GlitchGapMeanMs, c.GlitchGapStdDevMs = d.GlitchGapMeanMs, d.GlitchGapStdDevMs
	}
	if c.GlitchSplitMinPct == 0 && c.GlitchSplitMaxPct == 0 {
		c.GlitchSplitMinPct, c.GlitchSplitMaxPct = d.GlitchSplitMinPct, d.GlitchSplitMaxPct
	}
	if c.GlitchSplitMaxPct > 100 {
		c.GlitchSplitMaxPct = 100
	}
	if c.GlitchSplitMaxPct < c.GlitchSplitMinPct {
		c.GlitchSplitMaxPct = c.GlitchSplitMinPct
	}
}
