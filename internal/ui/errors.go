package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrOutOfRange is returned when a slider target lies outside [0, Max)
var ErrOutOfRange = errors.New("ui: value out of range")

// TimeoutError reports that an element never reached the awaited condition
type TimeoutError struct {
	Locator   Locator
	Condition Condition
	Bound     time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ui: %s not %s within %s", e.Locator, e.Condition, e.Bound)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ElementStateError reports an element whose state could not be interpreted
type ElementStateError struct {
	Locator Locator
	Detail  string
	Err     error
}

func (e *ElementStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ui: %s: %s: %v", e.Locator, e.Detail, e.Err)
	}
	return fmt.Sprintf("ui: %s: %s", e.Locator, e.Detail)
}

func (e *ElementStateError) Unwrap() error { return e.Err }

// NavigationExhaustedError reports a paginated search that ran out of attempts
// or stopped advancing.
type NavigationExhaustedError struct {
	Target   string
	Attempts int
	Stalled  bool
	LastSeen []string
}

func (e *NavigationExhaustedError) Error() string {
	reason := "attempts exhausted"
	if e.Stalled {
		reason = "calendar stopped advancing"
	}
	return fmt.Sprintf("ui: month %q not found after %d clicks (%s), last seen [%s]",
		e.Target, e.Attempts, reason, strings.Join(e.LastSeen, " | "))
}

func stateError(loc Locator, detail string, err error) error {
	return &ElementStateError{Locator: loc, Detail: detail, Err: err}
}
