// -- internal/humanoid/driver.go --
package humanoid

import (
	"fmt"
)

// Toggle handles the key-down edge of mode m's trigger key. It starts m when
// the engine is idle or running another mode (releasing that mode first), and
// stops the session when m is already running. Key-up edges must not be
// forwarded.
func (h *Humanoid) Toggle(m Mode) error {
	if _, ok := h.policies.Policy(m); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	if h.mode == m {
		h.stop("toggle")
		return nil
	}
	h.start(m)
	return nil
}

// ToggleByName resolves a mode name and toggles it.
func (h *Humanoid) ToggleByName(name string) error {
	m, err := h.policies.Mode(name)
	if err != nil {
		return err
	}
	return h.Toggle(m)
}

// Tick is the per-scan step. It is a no-op while idle.
func (h *Humanoid) Tick(nowMs uint32) {
	h.tick(nowMs)
}

// ForceStop guarantees nothing stays asserted, e.g. on host shutdown or
// suspend. It is a no-op while idle.
func (h *Humanoid) ForceStop() {
	h.stop("force_stop")
}

// Active reports whether a session is running.
func (h *Humanoid) Active() bool { return h.mode != ModeIdle }

// Mode returns the running mode, or ModeIdle.
func (h *Humanoid) Mode() Mode { return h.mode }

// Held returns the keys currently asserted by the engine.
func (h *Humanoid) Held() []Key {
	out := make([]Key, h.held.len())
	copy(out, h.held.keys[:h.held.n])
	return out
}

// Stats returns a copy of the event counters.
func (h *Humanoid) Stats() Stats { return h.stats }

var _ Controller = (*Humanoid)(nil)
