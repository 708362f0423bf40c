// FILE: ./internal/humanoid/mocks_test.go
package humanoid

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	evAssert   = "assert"
	evDeassert = "deassert"
)

// keyEvent is one effector call observed by the mock.
type keyEvent struct {
	Kind string
	Key  Key
	AtMs uint32
}

// mockExecutor implements Executor for testing. The clock only moves when the
// test sets it, so every wait is recorded but takes no virtual time.
type mockExecutor struct {
	t  *testing.T
	mu sync.Mutex

	now     uint32
	events  []keyEvent
	waits   []time.Duration
	down    map[Key]bool
	maxDown int

	assertErr   error
	deassertErr error
}

func newMockExecutor(t *testing.T) *mockExecutor {
	return &mockExecutor{
		t:    t,
		down: make(map[Key]bool),
	}
}

func (m *mockExecutor) Assert(k Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, keyEvent{Kind: evAssert, Key: k, AtMs: m.now})
	m.down[k] = true
	if len(m.down) > m.maxDown {
		m.maxDown = len(m.down)
	}
	return m.assertErr
}

func (m *mockExecutor) Deassert(k Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, keyEvent{Kind: evDeassert, Key: k, AtMs: m.now})
	delete(m.down, k)
	return m.deassertErr
}

func (m *mockExecutor) Wait(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waits = append(m.waits, d)
}

func (m *mockExecutor) NowMs() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *mockExecutor) setNow(ms uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = ms
}

// downKeys returns the physically asserted keys.
func (m *mockExecutor) downKeys() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]Key, 0, len(m.down))
	for k := range m.down {
		keys = append(keys, k)
	}
	return keys
}

func (m *mockExecutor) getEvents() []keyEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]keyEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *mockExecutor) getWaits() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.waits))
	copy(out, m.waits)
	return out
}

// realizedHolds pairs assert/deassert events per key and returns the hold
// durations. Zero-length pairs are bounce pulses and are skipped.
func realizedHolds(events []keyEvent) []uint32 {
	pressedAt := make(map[Key]uint32)
	var holds []uint32
	for _, ev := range events {
		switch ev.Kind {
		case evAssert:
			pressedAt[ev.Key] = ev.AtMs
		case evDeassert:
			start, ok := pressedAt[ev.Key]
			if !ok {
				continue
			}
			delete(pressedAt, ev.Key)
			if d := ev.AtMs - start; d > 0 {
				holds = append(holds, d)
			}
		}
	}
	return holds
}

// newTestHumanoid builds an engine with the stock policies, a fixed generator
// state and constant entropy so every run is reproducible.
func newTestHumanoid(t *testing.T, mock *mockExecutor, mutate ...func(*Config)) *Humanoid {
	t.Helper()
	table, err := NewPolicyTable(DefaultPolicies())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Rng = NewRNGFromState(0x9E3779B97F4A7C15, 0xBF58476D1CE4E5B9)
	cfg.Entropy = func() uint32 { return 0xC0FFEE }
	for _, fn := range mutate {
		fn(&cfg)
	}
	return New(cfg, table, zap.NewNop(), mock)
}

func mustMode(t *testing.T, h *Humanoid, name string) Mode {
	t.Helper()
	m, err := h.Policies().Mode(name)
	require.NoError(t, err)
	return m
}
