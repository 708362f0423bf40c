// Filename: internal/host/mocks_test.go
package host

import (
	"sync"

	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// mockEngine records the calls the loop makes.
type mockEngine struct {
	mu         sync.Mutex
	ticks      []uint32
	toggles    []string
	forceStops int
	toggleErr  error
}

func (m *mockEngine) ToggleByName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggles = append(m.toggles, name)
	return m.toggleErr
}

func (m *mockEngine) Tick(nowMs uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks = append(m.ticks, nowMs)
}

func (m *mockEngine) ForceStop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forceStops++
}

func (m *mockEngine) snapshot() (ticks int, toggles []string, forceStops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ticks), append([]string(nil), m.toggles...), m.forceStops
}

// fakeClock returns a fixed time.
type fakeClock struct{ now uint32 }

func (c *fakeClock) NowMs() uint32 { return c.now }

// failingEffector fails every call with err.
type failingEffector struct {
	mu    sync.Mutex
	err   error
	calls []humanoid.Key
}

func (f *failingEffector) Assert(k humanoid.Key) error   { return f.record(k) }
func (f *failingEffector) Deassert(k humanoid.Key) error { return f.record(k) }

func (f *failingEffector) record(k humanoid.Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, k)
	return f.err
}

// recordingEffector tracks which keys are currently down.
type recordingEffector struct {
	mu      sync.Mutex
	down    map[humanoid.Key]bool
	asserts int
}

func (r *recordingEffector) Assert(k humanoid.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asserts++
	r.down[k] = true
	return nil
}

func (r *recordingEffector) Deassert(k humanoid.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.down, k)
	return nil
}
