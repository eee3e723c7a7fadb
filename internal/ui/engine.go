// Package ui synchronises with an asynchronously rendered page: bounded
// readiness waits, idempotent toggle normalisation, slider drags computed from
// semantic values, and paginated month navigation.
//
// Every call re-reads state from the live page and returns only after its
// side effects are expected to have landed. Nothing is cached between calls.
package ui

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Timing holds the bounds and settle delays used by the engine
type Timing struct {
	Bound      time.Duration // readiness wait bound
	Poll       time.Duration // interval between settle re-reads
	Settle     time.Duration // upper bound after a toggle click
	DragHold   time.Duration // pause between pointer steps of a drag
	DragSettle time.Duration // upper bound for the slider value to stop changing
	PageTurn   time.Duration // upper bound for a calendar page to change
}

// DefaultTiming mirrors the delays the target site needs in practice
func DefaultTiming() Timing {
	return Timing{
		Bound:      15 * time.Second,
		Poll:       100 * time.Millisecond,
		Settle:     1000 * time.Millisecond,
		DragHold:   100 * time.Millisecond,
		DragSettle: 500 * time.Millisecond,
		PageTurn:   800 * time.Millisecond,
	}
}

const (
	defaultMaxAttempts = 24
	unknownRechecks    = 3
)

// Engine runs the synchronisation components against one page
type Engine struct {
	page   Page
	timing Timing
	log    *zap.Logger
}

// New creates an engine bound to page
func New(page Page, timing Timing, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{page: page, timing: timing, log: log}
}

// Page returns the underlying page capability
func (e *Engine) Page() Page {
	return e.page
}

// Timing returns the bounds the engine was built with
func (e *Engine) Timing() Timing {
	return e.timing
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) pollInterval() time.Duration {
	if e.timing.Poll <= 0 {
		return 50 * time.Millisecond
	}
	return e.timing.Poll
}

// pollUntil re-evaluates done every Poll interval until it reports true or
// window elapses. It returns whether done was satisfied.
func (e *Engine) pollUntil(ctx context.Context, window time.Duration, done func() (bool, error)) (bool, error) {
	ok, err := done()
	if err != nil || ok {
		return ok, err
	}
	deadline := time.Now().Add(window)
	interval := e.pollInterval()
	for time.Now().Before(deadline) {
		if err := sleep(ctx, interval); err != nil {
			return false, err
		}
		ok, err := done()
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
