// Filename: internal/host/clock.go
package host

import (
	"crypto/rand"
	"encoding/binary"
	"runtime"
	"time"
)

// MonotonicClock counts milliseconds since it was created.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock starts a clock at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// NowMs returns elapsed milliseconds truncated to 32 bits, so it wraps
// after about 49.7 days the same way a firmware timer does.
func (c *MonotonicClock) NowMs() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// SpinWaiter busy-waits. Waits are bounded to tens of milliseconds, and
// sleeping that briefly overshoots badly on most schedulers.
type SpinWaiter struct{}

func (SpinWaiter) Wait(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		runtime.Gosched()
	}
}

// SleepWaiter yields the CPU for the wait and accepts scheduler overshoot.
type SleepWaiter struct{}

func (SleepWaiter) Wait(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// SystemEntropy returns 32 bits from the OS random source, falling back to
// the wall clock if that source fails.
func SystemEntropy() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint32(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint32(b[:])
}
