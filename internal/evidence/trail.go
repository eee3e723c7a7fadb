package evidence

import (
	"math"
	"sync"

	"github.com/v0xg/flightcheck/internal/ui"
)

// Trail forwards to the current ui.Pointer and remembers each completed
// gesture so it can be drawn on the next filmstrip frame.
type Trail struct {
	inner func() ui.Pointer

	mu      sync.Mutex
	pending *Marker
	done    []Marker
}

// NewTrail records gestures sent through the pointer inner returns. inner is
// resolved on every call, so a pointer replaced after a tab switch is followed.
func NewTrail(inner func() ui.Pointer) *Trail {
	return &Trail{inner: inner}
}

func (t *Trail) Press(x, y float64) error {
	if err := t.inner().Press(x, y); err != nil {
		return err
	}
	t.mu.Lock()
	t.pending = &Marker{X: round(x), Y: round(y)}
	t.mu.Unlock()
	return nil
}

func (t *Trail) MoveBy(dx, dy float64) error {
	if err := t.inner().MoveBy(dx, dy); err != nil {
		return err
	}
	t.mu.Lock()
	if t.pending != nil {
		t.pending.DX += round(dx)
		t.pending.DY += round(dy)
	}
	t.mu.Unlock()
	return nil
}

func (t *Trail) Release() error {
	err := t.inner().Release()
	t.mu.Lock()
	if t.pending != nil {
		t.done = append(t.done, *t.pending)
		t.pending = nil
	}
	t.mu.Unlock()
	return err
}

// Take returns the gestures completed since the last call
func (t *Trail) Take() []Marker {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.done
	t.done = nil
	return out
}

func round(v float64) int {
	return int(math.Round(v))
}
