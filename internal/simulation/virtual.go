// File: internal/simulation/virtual.go
package simulation

import (
	"time"

	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// virtualTime is a clock that only moves when waited on or stepped.
// It keeps microseconds so short jitter waits are not lost.
type virtualTime struct {
	us uint64
}

func (v *virtualTime) NowMs() uint32 { return uint32(v.us / 1000) }

func (v *virtualTime) Wait(d time.Duration) {
	if d > 0 {
		v.us += uint64(d / time.Microsecond)
	}
}

// advanceTo moves the clock forward to us; it never moves backwards.
func (v *virtualTime) advanceTo(us uint64) {
	if us > v.us {
		v.us = us
	}
}

// Event is one key edge seen by the recording effector.
type Event struct {
	AtUs   uint64 `json:"at_us" yaml:"at_us"`
	Key    string `json:"key" yaml:"key"`
	Action string `json:"action" yaml:"action"`
}

const (
	actionDown = "down"
	actionUp   = "up"
)

// recorder is an effector that records every edge against virtual time.
type recorder struct {
	clock   *virtualTime
	keep    bool
	events  []Event
	down    map[humanoid.Key]uint64
	maxDown int
	holds   map[humanoid.Key][]float64
	pulses  int
}

func newRecorder(clock *virtualTime, keep bool) *recorder {
	return &recorder{
		clock: clock,
		keep:  keep,
		down:  make(map[humanoid.Key]uint64),
		holds: make(map[humanoid.Key][]float64),
	}
}

func (r *recorder) Assert(k humanoid.Key) error {
	r.record(k, actionDown)
	if _, ok := r.down[k]; !ok {
		r.down[k] = r.clock.us
	}
	if len(r.down) > r.maxDown {
		r.maxDown = len(r.down)
	}
	return nil
}

func (r *recorder) Deassert(k humanoid.Key) error {
	r.record(k, actionUp)
	start, ok := r.down[k]
	if !ok {
		return nil
	}
	delete(r.down, k)
	holdMs := float64(r.clock.us-start) / 1000.0
	if holdMs < pulseThresholdMs {
		r.pulses++
		return nil
	}
	r.holds[k] = append(r.holds[k], holdMs)
	return nil
}

func (r *recorder) record(k humanoid.Key, action string) {
	if r.keep {
		r.events = append(r.events, Event{AtUs: r.clock.us, Key: k.String(), Action: action})
	}
}

// pulseThresholdMs separates bounce chatter from real holds. Real holds are
// floored at 50 ms less one travel delay; bounce pulses last microseconds.
const pulseThresholdMs = humanoid.MinHoldMs / 2
