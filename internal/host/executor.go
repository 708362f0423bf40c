// Filename: internal/host/executor.go
package host

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/macrokey/internal/config"
	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// Effector is the assert/deassert primitive pair that makes a key
// logically down or up for the OS.
type Effector interface {
	Assert(k humanoid.Key) error
	Deassert(k humanoid.Key) error
}

// Clock is a monotonic millisecond counter. It wraps at 2^32.
type Clock interface {
	NowMs() uint32
}

// Waiter performs a bounded synchronous wait.
type Waiter interface {
	Wait(d time.Duration)
}

// Executor assembles the three host primitives into the engine's Executor.
type Executor struct {
	Effector
	Clock
	Waiter
}

// NewExecutor creates an executor from its parts.
func NewExecutor(e Effector, c Clock, w Waiter) *Executor {
	return &Executor{Effector: e, Clock: c, Waiter: w}
}

var _ humanoid.Executor = (*Executor)(nil)

// Build creates the executor described by cfg. The returned closer releases
// the output device and must be called after the engine's final ForceStop.
func Build(cfg config.HostConfig, logger *zap.Logger) (*Executor, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		effector Effector
		closer   io.Closer = nopCloser{}
	)
	switch cfg.Effector {
	case config.EffectorLog:
		effector = NewLogEffector(logger)
	case config.EffectorUinput:
		u, err := NewUinputEffector(cfg.Uinput, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create uinput effector: %w", err)
		}
		effector, closer = u, u
	default:
		return nil, nil, fmt.Errorf("unknown effector '%s'", cfg.Effector)
	}
	effector = NewGuardedEffector(effector, cfg.ErrorLogRate, cfg.ErrorLogBurst, logger)

	clock := NewMonotonicClock()
	var waiter Waiter
	switch cfg.Wait {
	case config.WaitSleep:
		waiter = SleepWaiter{}
	default:
		waiter = SpinWaiter{}
	}

	logger.Info("Host executor ready.",
		zap.String("effector", cfg.Effector),
		zap.String("wait", cfg.Wait),
	)
	return NewExecutor(effector, clock, waiter), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
