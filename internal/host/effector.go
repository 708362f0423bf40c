// Filename: internal/host/effector.go
package host

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// LogEffector is a dry-run effector: it only logs.
type LogEffector struct {
	logger *zap.Logger
}

// NewLogEffector creates a dry-run effector.
func NewLogEffector(logger *zap.Logger) *LogEffector {
	return &LogEffector{logger: logger.Named("effector")}
}

func (e *LogEffector) Assert(k humanoid.Key) error {
	e.logger.Debug("Key down.", zap.Stringer("key", k))
	return nil
}

func (e *LogEffector) Deassert(k humanoid.Key) error {
	e.logger.Debug("Key up.", zap.Stringer("key", k))
	return nil
}

// GuardedEffector absorbs errors from the effector it wraps. A failing
// device produces one failure per key edge, every few milliseconds, so
// failures are counted and only reported at a limited rate. The engine
// always sees success.
type GuardedEffector struct {
	inner   Effector
	logger  *zap.Logger
	limiter *rate.Limiter

	mu         sync.Mutex
	failures   uint64
	suppressed uint64
}

// NewGuardedEffector wraps inner. perSecond and burst configure the report
// limiter.
func NewGuardedEffector(inner Effector, perSecond float64, burst int, logger *zap.Logger) *GuardedEffector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if burst < 1 {
		burst = 1
	}
	return &GuardedEffector{
		inner:   inner,
		logger:  logger.Named("effector"),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (g *GuardedEffector) Assert(k humanoid.Key) error {
	g.report("assert", k, g.inner.Assert(k))
	return nil
}

func (g *GuardedEffector) Deassert(k humanoid.Key) error {
	g.report("deassert", k, g.inner.Deassert(k))
	return nil
}

// Failures returns the number of failed calls so far.
func (g *GuardedEffector) Failures() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failures
}

func (g *GuardedEffector) report(op string, k humanoid.Key, err error) {
	if err == nil {
		return
	}
	g.mu.Lock()
	g.failures++
	if !g.limiter.Allow() {
		g.suppressed++
		g.mu.Unlock()
		return
	}
	suppressed := g.suppressed
	g.suppressed = 0
	g.mu.Unlock()

	g.logger.Warn("Effector call failed.",
		zap.String("op", op),
		zap.Stringer("key", k),
		zap.Uint64("suppressed", suppressed),
		zap.Error(err),
	)
}
