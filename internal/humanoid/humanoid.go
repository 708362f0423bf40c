// -- internal/humanoid/humanoid.go --
package humanoid

import (
	"go.uber.org/zap"
)

// maxHeld bounds the held-key set. The engine holds one key at a time; the
// extra slots absorb a bounce re-press without growing anything.
const maxHeld = 4

// Humanoid runs the human-like hold macro. It owns its generator and session
// state exclusively and is not safe for concurrent use: the host must make
// every call from a single goroutine.
type Humanoid struct {
	config   Config
	policies *PolicyTable
	logger   *zap.Logger
	executor Executor
	rng      *RNG

	// Session state.
	mode         Mode
	phase        int
	held         heldSet
	sessionStart uint32
	phaseStart   uint32
	targetHoldMs float64
	glitchArmed  bool
	gap          glitchGap
	sessionID    string

	stats Stats
}

// glitchGap is the pending half of a split hold.
type glitchGap struct {
	pending     bool
	gapMs       float64
	remainingMs float64
}

// Stats counts engine events since construction.
type Stats struct {
	Sessions    uint64 `json:"sessions" yaml:"sessions"`
	Transitions uint64 `json:"transitions" yaml:"transitions"`
	Bounces     uint64 `json:"bounces" yaml:"bounces"`
	Glitches    uint64 `json:"glitches" yaml:"glitches"`
	Timeouts    uint64 `json:"timeouts" yaml:"timeouts"`
}

// New creates an idle engine.
func New(config Config, policies *PolicyTable, logger *zap.Logger, executor Executor) *Humanoid {
	config.normalize()
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := config.Rng
	if rng == nil {
		rng = NewRNG()
	}
	return &Humanoid{
		config:   config,
		policies: policies,
		logger:   logger,
		executor: executor,
		rng:      rng,
		mode:     ModeIdle,
	}
}

// Policies returns the engine's policy table.
func (h *Humanoid) Policies() *PolicyTable { return h.policies }

// entropy returns the seed-mix input for a new session.
func (h *Humanoid) entropy() uint32 {
	if h.config.Entropy != nil {
		return h.config.Entropy()
	}
	return h.executor.NowMs()
}

// heldSet is a fixed-capacity set of asserted keys.
type heldSet struct {
	keys [maxHeld]Key
	n    int
}

func (s *heldSet) add(k Key) {
	if s.contains(k) || s.n == maxHeld {
		return
	}
	s.keys[s.n] = k
	s.n++
}

func (s *heldSet) remove(k Key) {
	for i := 0; i < s.n; i++ {
		if s.keys[i] == k {
			s.n--
			s.keys[i] = s.keys[s.n]
			s.keys[s.n] = KeyNone
			return
		}
	}
}

func (s *heldSet) contains(k Key) bool {
	for i := 0; i < s.n; i++ {
		if s.keys[i] == k {
			return true
		}
	}
	return false
}

func (s *heldSet) len() int { return s.n }

// first returns any held key.
func (s *heldSet) first() (Key, bool) {
	if s.n == 0 {
		return KeyNone, false
	}
	return s.keys[0], true
}
