// File: internal/humanoid/policy.go
package humanoid

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects a timing policy. ModeIdle means no session is running;
// configured modes are numbered from 1 in table order.
type Mode int

const ModeIdle Mode = 0

// ErrUnknownMode is returned when a mode name or number is not in the table.
var ErrUnknownMode = errors.New("humanoid: unknown mode")

// Phase is one step of a mode's cycle: hold Key for N(MeanMs, StdDevMs).
type Phase struct {
	Key      Key
	MeanMs   float64
	StdDevMs float64
}

// Policy is the ordered, cyclic list of phases for one mode.
type Policy struct {
	Name   string
	Phases []Phase
}

// PolicyTable is the read-only mode -> policy mapping consulted by the engine.
type PolicyTable struct {
	policies []Policy
	keys     [][]Key
}

// DefaultPolicies returns the two stock modes.
//
//	og:    UP (900 ± 250 ms)  <-> RIGHTCTRL (4500 ± 700 ms)
//	extra: UP (700 ± 200 ms)  <-> A (2150 ± 100 ms)
func DefaultPolicies() []Policy {
	return []Policy{
		{
			Name: "og",
			Phases: []Phase{
				{Key: KeyUp, MeanMs: 900, StdDevMs: 250},
				{Key: KeyRightCtrl, MeanMs: 4500, StdDevMs: 700},
			},
		},
		{
			Name: "extra",
			Phases: []Phase{
				{Key: KeyUp, MeanMs: 700, StdDevMs: 200},
				{Key: KeyA, MeanMs: 2150, StdDevMs: 100},
			},
		},
	}
}

// NewPolicyTable validates the policies and builds a table.
func NewPolicyTable(policies []Policy) (*PolicyTable, error) {
	if err := ValidatePolicies(policies); err != nil {
		return nil, err
	}
	t := &PolicyTable{
		policies: make([]Policy, len(policies)),
		keys:     make([][]Key, len(policies)),
	}
	for i, p := range policies {
		phases := make([]Phase, len(p.Phases))
		copy(phases, p.Phases)
		t.policies[i] = Policy{Name: strings.ToLower(p.Name), Phases: phases}
		t.keys[i] = distinctKeys(phases)
	}
	return t, nil
}

// ValidatePolicies checks names, phase counts and timing parameters.
func ValidatePolicies(policies []Policy) error {
	if len(policies) == 0 {
		return errors.New("humanoid: at least one mode policy is required")
	}
	seen := make(map[string]bool, len(policies))
	for i, p := range policies {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			return fmt.Errorf("humanoid: mode #%d has no name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("humanoid: duplicate mode name '%s'", name)
		}
		seen[name] = true
		if len(p.Phases) == 0 {
			return fmt.Errorf("humanoid: mode '%s' has no phases", name)
		}
		for j, ph := range p.Phases {
			if ph.Key == KeyNone {
				return fmt.Errorf("humanoid: mode '%s' phase %d has no key", name, j+1)
			}
			if ph.MeanMs <= 0 || ph.StdDevMs < 0 {
				return fmt.Errorf("humanoid: mode '%s' phase %d needs mean_ms > 0 and stddev_ms >= 0", name, j+1)
			}
		}
	}
	return nil
}

// Len returns the number of configured modes.
func (t *PolicyTable) Len() int { return len(t.policies) }

// Mode resolves a mode name.
func (t *PolicyTable) Mode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, p := range t.policies {
		if p.Name == name {
			return Mode(i + 1), nil
		}
	}
	return ModeIdle, fmt.Errorf("%w: '%s'", ErrUnknownMode, name)
}

// Policy returns the policy for a mode.
func (t *PolicyTable) Policy(m Mode) (Policy, bool) {
	if m <= ModeIdle || int(m) > len(t.policies) {
		return Policy{}, false
	}
	return t.policies[m-1], true
}

// Name returns the mode's name, or "idle".
func (t *PolicyTable) Name(m Mode) string {
	if p, ok := t.Policy(m); ok {
		return p.Name
	}
	return "idle"
}

// Phase returns phase i of mode m. Callers pass indices produced by the table.
func (t *PolicyTable) Phase(m Mode, i int) Phase {
	return t.policies[m-1].Phases[i]
}

// PhaseAfter returns the index following i, wrapping to the first phase.
func (t *PolicyTable) PhaseAfter(m Mode, i int) int {
	n := len(t.policies[m-1].Phases)
	return (i + 1) % n
}

// Keys returns the distinct keys of a mode in phase order.
func (t *PolicyTable) Keys(m Mode) []Key {
	return t.keys[m-1]
}

// PhaseOf returns the first phase of mode m that holds key k.
func (t *PolicyTable) PhaseOf(m Mode, k Key) int {
	for i, ph := range t.policies[m-1].Phases {
		if ph.Key == k {
			return i
		}
	}
	return 0
}

func distinctKeys(phases []Phase) []Key {
	keys := make([]Key, 0, len(phases))
	for _, ph := range phases {
		dup := false
		for _, k := range keys {
			if k == ph.Key {
				dup = true
				break
			}
		}
		if !dup {
			keys = append(keys, ph.Key)
		}
	}
	return keys
}
