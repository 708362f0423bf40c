// Filename: internal/humanoid/interface.go
package humanoid

import "time"

// Controller is the surface the host drives. It is implemented by *Humanoid.
type Controller interface {
	// Toggle handles the key-down edge of a mode's trigger key.
	Toggle(mode Mode) error
	// Tick advances the session; call it once per scan iteration.
	Tick(nowMs uint32)
	// ForceStop releases everything the engine holds and returns to idle.
	ForceStop()
}

// Executor is the low-level interface the engine needs from its host.
// Keeping the effectors, the clock and the wait primitive behind one
// interface is what makes the engine testable without hardware.
type Executor interface {
	// Assert presses key and keeps it down.
	Assert(key Key) error
	// Deassert releases key.
	Deassert(key Key) error
	// Wait blocks for a short, bounded duration (travel and bounce jitter).
	Wait(d time.Duration)
	// NowMs returns a monotonic millisecond counter. It may wrap.
	NowMs() uint32
}
