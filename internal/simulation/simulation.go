// File: internal/simulation/simulation.go
package simulation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/macrokey/internal/host"
	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// Options describe one offline run.
type Options struct {
	Mode string
	// Duration is the virtual time to simulate. Sessions end earlier on
	// their own safety timeout.
	Duration time.Duration
	// Tick is the scan interval.
	Tick time.Duration
	// Seed is mixed into the generator at session start.
	Seed uint32
	// KeepEvents includes the full edge trace in the report.
	KeepEvents bool
}

// KeyStats summarises the realized holds of one key.
type KeyStats struct {
	Key      string  `json:"key" yaml:"key"`
	Count    int     `json:"count" yaml:"count"`
	MeanMs   float64 `json:"mean_ms" yaml:"mean_ms"`
	StdDevMs float64 `json:"stddev_ms" yaml:"stddev_ms"`
	MinMs    float64 `json:"min_ms" yaml:"min_ms"`
	MaxMs    float64 `json:"max_ms" yaml:"max_ms"`
}

// Report is the outcome of a run.
type Report struct {
	Mode         string         `json:"mode" yaml:"mode"`
	Seed         uint32         `json:"seed" yaml:"seed"`
	SimulatedMs  uint64         `json:"simulated_ms" yaml:"simulated_ms"`
	TimedOut     bool           `json:"timed_out" yaml:"timed_out"`
	MaxKeysDown  int            `json:"max_keys_down" yaml:"max_keys_down"`
	BouncePulses int            `json:"bounce_pulses" yaml:"bounce_pulses"`
	Stats        humanoid.Stats `json:"stats" yaml:"stats"`
	Keys         []KeyStats     `json:"keys" yaml:"keys"`
	Events       []Event        `json:"events,omitempty" yaml:"events,omitempty"`
}

// Run simulates one session of opts.Mode in virtual time. The engine runs
// exactly as it would on a host; only the clock, waits and effector are
// virtual, so the same seed always yields the same report.
func Run(cfg humanoid.Config, policies *humanoid.PolicyTable, opts Options, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policies == nil {
		return nil, errors.New("simulation: no policy table")
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("simulation: duration must be positive, got %s", opts.Duration)
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Millisecond
	}

	clock := &virtualTime{}
	rec := newRecorder(clock, opts.KeepEvents)

	seed := opts.Seed
	cfg.Rng = humanoid.NewRNG()
	cfg.Entropy = func() uint32 { return seed }
	engine := humanoid.New(cfg, policies, logger, host.NewExecutor(rec, clock, clock))

	if err := engine.ToggleByName(opts.Mode); err != nil {
		return nil, err
	}

	endUs := uint64(opts.Duration / time.Microsecond)
	tickUs := uint64(opts.Tick / time.Microsecond)
	if tickUs == 0 {
		tickUs = 1
	}

	// Ticks land on the scan grid. Waits inside a tick can push the clock
	// past the next grid point, in which case that tick is simply late.
	next := tickUs
	for engine.Active() && next <= endUs {
		clock.advanceTo(next)
		engine.Tick(clock.NowMs())
		next += tickUs
	}

	stats := engine.Stats()
	timedOut := stats.Timeouts > 0
	engine.ForceStop()

	report := &Report{
		Mode:         opts.Mode,
		Seed:         seed,
		SimulatedMs:  clock.us / 1000,
		TimedOut:     timedOut,
		MaxKeysDown:  rec.maxDown,
		BouncePulses: rec.pulses,
		Stats:        engine.Stats(),
		Keys:         summarize(rec.holds),
		Events:       rec.events,
	}
	logger.Info("Simulation finished.",
		zap.String("mode", report.Mode),
		zap.Uint64("simulated_ms", report.SimulatedMs),
		zap.Bool("timed_out", report.TimedOut),
		zap.Uint64("transitions", report.Stats.Transitions),
	)
	return report, nil
}

func summarize(holds map[humanoid.Key][]float64) []KeyStats {
	out := make([]KeyStats, 0, len(holds))
	for k, hs := range holds {
		if len(hs) == 0 {
			continue
		}
		s := KeyStats{Key: k.String(), Count: len(hs), MinMs: math.Inf(1), MaxMs: math.Inf(-1)}
		var sum float64
		for _, h := range hs {
			sum += h
			s.MinMs = math.Min(s.MinMs, h)
			s.MaxMs = math.Max(s.MaxMs, h)
		}
		s.MeanMs = sum / float64(len(hs))
		var sq float64
		for _, h := range hs {
			sq += (h - s.MeanMs) * (h - s.MeanMs)
		}
		s.StdDevMs = math.Sqrt(sq / float64(len(hs)))
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
