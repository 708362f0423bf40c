// Filename: internal/host/loop.go
package host

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrLoopStopped is returned by requests made after Run has returned.
var ErrLoopStopped = errors.New("host: loop is not running")

// Engine is the part of the macro engine the loop drives.
type Engine interface {
	ToggleByName(name string) error
	Tick(nowMs uint32)
	ForceStop()
}

// request is a call into the engine made from another goroutine.
type request struct {
	mode   string // empty means force stop
	result chan error
}

// Loop owns the engine. Every engine call happens on the goroutine running
// Run; other goroutines submit requests through Toggle and ForceStop.
type Loop struct {
	engine   Engine
	clock    Clock
	interval time.Duration
	logger   *zap.Logger

	requests chan request
	done     chan struct{}
}

// NewLoop creates a loop that ticks engine every interval.
func NewLoop(engine Engine, clock Clock, interval time.Duration, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Loop{
		engine:   engine,
		clock:    clock,
		interval: interval,
		logger:   logger.Named("loop"),
		requests: make(chan request),
		done:     make(chan struct{}),
	}
}

// Run drives the engine until ctx is cancelled. The engine is force-stopped
// before Run returns, so no key stays down after shutdown.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("Scan loop started.", zap.Duration("interval", l.interval))
	for {
		select {
		case <-ctx.Done():
			l.engine.ForceStop()
			l.logger.Info("Scan loop stopped.")
			return nil
		case <-ticker.C:
			l.engine.Tick(l.clock.NowMs())
		case req := <-l.requests:
			var err error
			if req.mode == "" {
				l.engine.ForceStop()
			} else {
				err = l.engine.ToggleByName(req.mode)
			}
			req.result <- err
		}
	}
}

// Toggle forwards a trigger-key press for the named mode.
func (l *Loop) Toggle(ctx context.Context, mode string) error {
	if mode == "" {
		return errors.New("host: empty mode name")
	}
	return l.submit(ctx, mode)
}

// ForceStop releases everything and returns the engine to idle.
func (l *Loop) ForceStop(ctx context.Context) error {
	return l.submit(ctx, "")
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) submit(ctx context.Context, mode string) error {
	req := request{mode: mode, result: make(chan error, 1)}
	select {
	case l.requests <- req:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-req.result
}
