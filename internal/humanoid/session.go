// -- internal/humanoid/session.go --
package humanoid

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// start begins a session in mode m. Any session already running is released
// in full before the first key of the new one goes down.
func (h *Humanoid) start(m Mode) {
	if h.mode != ModeIdle {
		h.stop("switch")
	}

	h.rng.SeedMix(h.entropy())

	h.mode = m
	h.phase = 0
	h.gap = glitchGap{}
	h.sessionID = uuid.NewString()
	h.stats.Sessions++

	first := h.policies.Phase(m, 0)
	h.press(first.Key)
	now := h.executor.NowMs()
	h.sessionStart = now
	h.phaseStart = now
	h.sampleHold(first)

	h.logger.Info("Macro session started.",
		zap.String("session_id", h.sessionID),
		zap.String("mode", h.policies.Name(m)),
		zap.Stringer("key", first.Key),
		zap.Float64("hold_ms", h.targetHoldMs),
	)
}

// stop runs the release path and returns to idle. Every exit from an active
// session goes through here.
func (h *Humanoid) stop(reason string) {
	if h.mode == ModeIdle {
		return
	}
	h.releaseAll()
	h.logger.Info("Macro session stopped.",
		zap.String("session_id", h.sessionID),
		zap.String("mode", h.policies.Name(h.mode)),
		zap.String("reason", reason),
	)
	h.mode = ModeIdle
	h.phase = 0
	h.gap = glitchGap{}
	h.glitchArmed = false
	h.targetHoldMs = 0
	h.sessionID = ""
}

// tick performs at most one transition.
func (h *Humanoid) tick(now uint32) {
	if h.mode == ModeIdle {
		return
	}

	// Unsigned subtraction keeps elapsed correct across counter wrap.
	if now-h.sessionStart >= SessionTimeoutMs {
		h.stats.Timeouts++
		h.stop("timeout")
		return
	}

	elapsed := now - h.phaseStart

	if h.gap.pending {
		if float64(elapsed) >= h.gap.gapMs {
			h.endGlitchGap(now)
		}
		return
	}

	if h.held.len() == 0 || float64(elapsed) < h.targetHoldMs {
		return
	}

	current := h.policies.Phase(h.mode, h.phase)
	h.release(current.Key)

	if h.glitchArmed {
		h.beginGlitchGap(now)
		return
	}

	h.phase = h.policies.PhaseAfter(h.mode, h.phase)
	next := h.policies.Phase(h.mode, h.phase)
	h.press(next.Key)
	h.phaseStart = now
	h.sampleHold(next)
	h.stats.Transitions++

	h.logger.Debug("Phase advanced.",
		zap.String("session_id", h.sessionID),
		zap.Int("phase", h.phase),
		zap.Stringer("key", next.Key),
		zap.Float64("hold_ms", h.targetHoldMs),
	)
}

// beginGlitchGap splits the hold that just ended: only the after-gap part is
// kept, so the visible total differs from the sampled target.
func (h *Humanoid) beginGlitchGap(now uint32) {
	pct := h.rng.RangeUint32(h.config.GlitchSplitMinPct, h.config.GlitchSplitMaxPct)
	ratio := float64(pct) / 100.0
	remaining := h.targetHoldMs * (1.0 - ratio)

	gapMs := h.rng.Normal(h.config.GlitchGapMeanMs, h.config.GlitchGapStdDevMs)
	if gapMs < MinGlitchGapMs {
		gapMs = MinGlitchGapMs
	}

	h.gap = glitchGap{pending: true, gapMs: gapMs, remainingMs: remaining}
	h.glitchArmed = false
	h.phaseStart = now
	h.stats.Glitches++

	h.logger.Debug("Glitch gap started.",
		zap.String("session_id", h.sessionID),
		zap.Float64("gap_ms", gapMs),
		zap.Float64("remaining_ms", remaining),
	)
}

// endGlitchGap re-presses one of the mode's keys, not necessarily the one
// that was released, for the remaining part of the split hold.
func (h *Humanoid) endGlitchGap(now uint32) {
	keys := h.policies.Keys(h.mode)
	k := keys[h.rng.RangeUint32(0, uint32(len(keys)-1))]

	h.press(k)
	h.phase = h.policies.PhaseOf(h.mode, k)
	h.targetHoldMs = math.Max(MinHoldMs, h.gap.remainingMs)
	h.gap = glitchGap{}
	h.phaseStart = now

	h.logger.Debug("Glitch re-press.",
		zap.String("session_id", h.sessionID),
		zap.Stringer("key", k),
		zap.Float64("hold_ms", h.targetHoldMs),
	)
}

// sampleHold draws the hold for a phase and decides, once, whether the end
// of this hold will be split by a glitch.
func (h *Humanoid) sampleHold(p Phase) {
	t := h.rng.Normal(p.MeanMs, p.StdDevMs)
	if t < MinHoldMs {
		t = MinHoldMs
	}
	h.targetHoldMs = t
	h.glitchArmed = h.rng.OneIn(h.config.GlitchOneIn)
	h.gap = glitchGap{}
}

// press asserts key after a jittered travel delay.
func (h *Humanoid) press(k Key) {
	h.humanDelay(h.config.TravelMeanUs, h.config.TravelStdDevUs)
	if err := h.executor.Assert(k); err != nil {
		h.logger.Warn("Key assert failed.", zap.Stringer("key", k), zap.Error(err))
	}
	h.held.add(k)
}

// release deasserts key and occasionally simulates contact bounce. The key
// counts as released after the deassert call whatever the effector reports.
func (h *Humanoid) release(k Key) {
	if err := h.executor.Deassert(k); err != nil {
		h.logger.Warn("Key deassert failed.", zap.Stringer("key", k), zap.Error(err))
	}
	h.held.remove(k)

	if !h.rng.OneIn(h.config.BounceOneIn) {
		return
	}
	h.stats.Bounces++
	h.humanDelay(h.config.BounceOffMeanUs, h.config.BounceOffStdDevUs)
	if err := h.executor.Assert(k); err != nil {
		h.logger.Warn("Bounce assert failed.", zap.Stringer("key", k), zap.Error(err))
	}
	h.humanDelay(h.config.BounceOnMeanUs, h.config.BounceOnStdDevUs)
	if err := h.executor.Deassert(k); err != nil {
		h.logger.Warn("Bounce deassert failed.", zap.Stringer("key", k), zap.Error(err))
	}
}

// releaseAll releases every key the engine believes is down.
func (h *Humanoid) releaseAll() {
	for {
		k, ok := h.held.first()
		if !ok {
			return
		}
		h.release(k)
	}
}

// humanDelay waits N(meanUs, stddevUs) microseconds, floored at zero and
// clamped to MaxWaitUs.
func (h *Humanoid) humanDelay(meanUs, stddevUs float64) {
	d := math.Round(h.rng.Normal(meanUs, stddevUs))
	if d < 0 {
		d = 0
	}
	if d > MaxWaitUs {
		d = MaxWaitUs
	}
	if d == 0 {
		return
	}
	h.executor.Wait(time.Duration(d) * time.Microsecond)
}
