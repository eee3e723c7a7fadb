package ui

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Await waits for loc to satisfy cond within the configured bound
func (e *Engine) Await(ctx context.Context, loc Locator, cond Condition) (Element, error) {
	return e.AwaitWithin(ctx, loc, cond, e.timing.Bound)
}

// AwaitWithin waits for loc to satisfy cond within bound. Waiting is delegated
// to the driver; a missed deadline becomes a *TimeoutError.
func (e *Engine) AwaitWithin(ctx context.Context, loc Locator, cond Condition, bound time.Duration) (Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	el, err := e.page.Wait(waitCtx, loc, cond)
	if err != nil {
		// Only our own deadline is a timeout; a cancelled parent propagates as is.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			e.log.Debug("wait timed out",
				zap.Stringer("locator", loc),
				zap.Stringer("condition", cond),
				zap.Duration("bound", bound))
			return nil, &TimeoutError{Locator: loc, Condition: cond, Bound: bound, Err: err}
		}
		return nil, err
	}
	return el, nil
}

// Optional waits like AwaitWithin but reports a timeout as absence
func (e *Engine) Optional(ctx context.Context, loc Locator, cond Condition, bound time.Duration) (Element, bool, error) {
	el, err := e.AwaitWithin(ctx, loc, cond, bound)
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return el, true, nil
}

// AwaitDocument waits for the document to finish loading
func (e *Engine) AwaitDocument(ctx context.Context) error {
	_, err := e.Await(ctx, Locator{}, DocumentReady)
	return err
}
