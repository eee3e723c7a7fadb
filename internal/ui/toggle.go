package ui

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ToggleState is a tri-state read of a control
type ToggleState int

const (
	Unknown ToggleState = iota
	Selected
	Unselected
)

func (s ToggleState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Unselected:
		return "unselected"
	default:
		return "unknown"
	}
}

// StateOf maps a boolean to a known state
func StateOf(on bool) ToggleState {
	if on {
		return Selected
	}
	return Unselected
}

// Probe reads a control's current state from the live page
type Probe func(p Page) (ToggleState, error)

// CheckedProbe reads the checked property of a checkbox or radio
func CheckedProbe(loc Locator) Probe {
	return func(p Page) (ToggleState, error) {
		el, found, err := p.Lookup(loc)
		if err != nil {
			return Unknown, err
		}
		if !found {
			return Unknown, nil
		}
		on, err := el.Checked()
		if err != nil {
			return Unknown, stateError(loc, "read checked", err)
		}
		return StateOf(on), nil
	}
}

// ClassProbe reports Selected when the class attribute of loc carries token
func ClassProbe(loc Locator, token string) Probe {
	return func(p Page) (ToggleState, error) {
		el, found, err := p.Lookup(loc)
		if err != nil {
			return Unknown, err
		}
		if !found {
			return Unknown, nil
		}
		class, ok, err := el.Attribute("class")
		if err != nil {
			return Unknown, stateError(loc, "read class", err)
		}
		if !ok {
			return Unknown, nil
		}
		return StateOf(hasClass(class, token)), nil
	}
}

// PresenceProbe treats a match as Selected and its absence as Unselected.
// Used for controls whose rendered markup only exists in one state.
func PresenceProbe(loc Locator) Probe {
	return func(p Page) (ToggleState, error) {
		_, found, err := p.Lookup(loc)
		if err != nil {
			return Unknown, err
		}
		return StateOf(found), nil
	}
}

func hasClass(class, token string) bool {
	for _, c := range strings.Fields(class) {
		if c == token {
			return true
		}
	}
	return false
}

// Toggle describes a control to normalise: what to click and how to read it
type Toggle struct {
	Name    string
	Control Locator
	Probe   Probe
	Script  bool // click through page script instead of a native click
}

// Normalize brings t to desired, acting only when the live state differs.
// It reports whether a click was issued.
func (e *Engine) Normalize(ctx context.Context, t Toggle, desired ToggleState) (bool, error) {
	if desired == Unknown {
		return false, fmt.Errorf("ui: normalize %s: desired state must be known", t.Name)
	}
	log := e.log.With(zap.String("toggle", t.Name), zap.Stringer("desired", desired))

	current, err := e.readState(ctx, t)
	if err != nil {
		return false, err
	}
	if current == desired {
		log.Debug("toggle already in desired state")
		return false, nil
	}

	el, err := e.Await(ctx, t.Control, Visible)
	if err != nil {
		return false, err
	}
	if err := el.ScrollIntoView(); err != nil {
		return false, stateError(t.Control, "scroll into view", err)
	}
	if t.Script {
		err = el.ScriptClick()
	} else {
		err = el.Click()
	}
	if err != nil {
		return false, stateError(t.Control, "click", err)
	}
	log.Info("toggle clicked", zap.Stringer("from", current))

	reached, err := e.pollUntil(ctx, e.timing.Settle, func() (bool, error) {
		s, err := t.Probe(e.page)
		return s == desired, err
	})
	if err != nil {
		return true, err
	}
	if !reached {
		log.Warn("toggle did not report desired state within settle delay", zap.Duration("settle", e.timing.Settle))
	}
	return true, nil
}

// readState re-reads an Unknown state a few times before giving up
func (e *Engine) readState(ctx context.Context, t Toggle) (ToggleState, error) {
	for i := 0; i < unknownRechecks; i++ {
		s, err := t.Probe(e.page)
		if err != nil {
			return Unknown, err
		}
		if s != Unknown {
			return s, nil
		}
		if err := sleep(ctx, e.timing.Poll); err != nil {
			return Unknown, err
		}
	}
	return Unknown, stateError(t.Control, fmt.Sprintf("state of %s unreadable", t.Name), nil)
}
