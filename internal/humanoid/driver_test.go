package humanoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_SameModeStops(t *testing.T) {
	mock := newMockExecutor(t)
	h := newTestHumanoid(t, mock)
	og := mustMode(t, h, "og")

	require.NoError(t, h.Toggle(og))
	runUntil(h, mock, 0, 3_000)
	require.NoError(t, h.Toggle(og))

	assert.False(t, h.Active())
	assert.Equal(t, ModeIdle, h.Mode())
	assert.Empty(t, h.Held())
	assert.Empty(t, mock.downKeys())
	assert.Empty(t, h.sessionID)
	assert.False(t, h.gap.pending)
}

func TestToggle_StopDuringGlitchGap(t *testing.T) {
	mock := newMockExecutor(t)
	h := newTestHumanoid(t, mock)
	og := mustMode(t, h, "og")
	require.NoError(t, h.Toggle(og))

	h.targetHoldMs = 100
	h.glitchArmed = true
	runUntil(h, mock, 0, 100)
	require.True(t, h.gap.pending)

	n := len(mock.getEvents())
	require.NoError(t, h.Toggle(og))

	assert.False(t, h.Active())
	assert.Len(t, mock.getEvents(), n, "nothing is held, so stopping emits no events")
	assert.Empty(t, mock.downKeys())

	// A fresh start after the gap state was discarded behaves normally.
	require.NoError(t, h.Toggle(og))
	assert.Equal(t, []Key{KeyUp}, h.Held())
	assert.False(t, h.gap.pending)
}

func TestToggle_SwitchMode(t *testing.T) {
	mock := newMockExecutor(t)
	h := newTestHumanoid(t, mock)
	og := mustMode(t, h, "og")
	extra := mustMode(t, h, "extra")

	require.NoError(t, h.Toggle(og))
	// Run into the second phase so the switch has to release RCTRL.
	now := uint32(0)
	for h.phase == 0 || h.gap.pending || len(h.Held()) == 0 {
		now++
		require.Less(t, now, uint32(10_000))
		mock.setNow(now)
		h.Tick(now)
	}
	held := h.Held()
	require.Len(t, held, 1)
	mark := len(mock.getEvents())

	require.NoError(t, h.Toggle(extra))

	assert.Equal(t, extra, h.Mode())
	assert.Equal(t, []Key{KeyUp}, h.Held())
	assert.Equal(t, uint64(2), h.Stats().Sessions)
	assert.LessOrEqual(t, mock.maxDown, 1, "old keys are released before the new first press")

	after := mock.getEvents()[mark:]
	require.GreaterOrEqual(t, len(after), 2)
	assert.Equal(t, evDeassert, after[0].Kind)
	assert.Equal(t, held[0], after[0].Key)
	last := after[len(after)-1]
	assert.Equal(t, keyEvent{Kind: evAssert, Key: KeyUp, AtMs: now}, last)
	assert.Equal(t, now, h.sessionStart, "switching restarts the session timer")
}

func TestToggle_UnknownMode(t *testing.T) {
	mock := newMockExecutor(t)
	h := newTestHumanoid(t, mock)

	assert.ErrorIs(t, h.Toggle(Mode(99)), ErrUnknownMode)
	assert.ErrorIs(t, h.Toggle(ModeIdle), ErrUnknownMode)
	assert.ErrorIs(t, h.ToggleByName("turbo"), ErrUnknownMode)
	assert.False(t, h.Active())
	assert.Empty(t, mock.getEvents())
}

func TestForceStop(t *testing.T) {
	t.Run("idle is a no-op", func(t *testing.T) {
		mock := newMockExecutor(t)
		h := newTestHumanoid(t, mock)
		h.ForceStop()
		h.ForceStop()
		assert.Empty(t, mock.getEvents())
	})

	t.Run("active releases everything", func(t *testing.T) {
		mock := newMockExecutor(t)
		h := newTestHumanoid(t, mock)
		require.NoError(t, h.ToggleByName("extra"))
		runUntil(h, mock, 0, 5_000)

		h.ForceStop()
		assert.False(t, h.Active())
		assert.Empty(t, h.Held())
		assert.Empty(t, mock.downKeys())
	})
}
