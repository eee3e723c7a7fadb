package ui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultRangeMax is the size of a minutes-of-day domain
const DefaultRangeMax = 1440

const valueAttr = "aria-valuenow"

// Slider addresses one handle of a range control and the track it runs on
type Slider struct {
	Name   string
	Handle Locator
	Track  Locator
	Max    int // exclusive upper bound of the value domain, DefaultRangeMax if zero
}

func (s Slider) max() int {
	if s.Max <= 0 {
		return DefaultRangeMax
	}
	return s.Max
}

// Gesture is a press-move-release drag computed for one convergence attempt
type Gesture struct {
	StartX float64
	StartY float64
	Offset int
}

// Move describes what SetRange did
type Move struct {
	From     int
	Target   int
	Offset   int
	Reported int // value read back after the drag
	Moved    bool
}

// Offset returns the signed pixel delta that moves a handle from current to
// target on a track widthPx wide. Positions are normalised over [0, max-1].
func Offset(current, target, max int, widthPx float64) int {
	span := float64(max - 1)
	targetPx := math.Round(float64(target) / span * widthPx)
	currentPx := math.Round(float64(current) / span * widthPx)
	return int(targetPx - currentPx)
}

// SetRange drags the handle of s so its reflected value approaches target.
// A single gesture is issued; the control's own snapping decides the final value.
func (e *Engine) SetRange(ctx context.Context, s Slider, target int) (Move, error) {
	max := s.max()
	if target < 0 || target >= max {
		return Move{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, target, max)
	}
	log := e.log.With(zap.String("slider", s.Name))

	handle, err := e.Await(ctx, s.Handle, Visible)
	if err != nil {
		return Move{}, err
	}
	current, err := readValue(handle, s.Handle)
	if err != nil {
		return Move{}, err
	}
	move := Move{From: current, Target: target, Reported: current}
	if current == target {
		log.Debug("slider already at target", zap.Int("value", current))
		return move, nil
	}

	track, found, err := e.page.Lookup(s.Track)
	if err != nil {
		return move, err
	}
	if !found {
		return move, stateError(s.Track, "track not found", nil)
	}
	trackBox, err := track.Box()
	if err != nil {
		return move, stateError(s.Track, "read track size", err)
	}
	if trackBox.Width <= 0 {
		return move, stateError(s.Track, fmt.Sprintf("track width %.1f", trackBox.Width), nil)
	}
	handleBox, err := handle.Box()
	if err != nil {
		return move, stateError(s.Handle, "read handle position", err)
	}

	x, y := handleBox.Center()
	g := Gesture{StartX: x, StartY: y, Offset: Offset(current, target, max, trackBox.Width)}
	move.Offset = g.Offset
	log.Info("dragging slider",
		zap.Int("from", current),
		zap.Int("target", target),
		zap.Float64("track_px", trackBox.Width),
		zap.Int("offset", g.Offset))

	if err := e.drag(ctx, g); err != nil {
		return move, fmt.Errorf("ui: drag %s: %w", s.Name, err)
	}
	move.Moved = true

	reported, err := e.settledValue(ctx, handle, s.Handle)
	if err != nil {
		return move, err
	}
	move.Reported = reported
	log.Info("slider released", zap.Int("value", reported), zap.Int("residual", reported-target))
	return move, nil
}

// SetRangePair moves the start and end handles of a dual range independently.
// Each call reads its own handle, so the second never assumes the first left
// the track untouched.
func (e *Engine) SetRangePair(ctx context.Context, start, end Slider, from, to int) ([2]Move, error) {
	var moves [2]Move
	var err error
	if moves[0], err = e.SetRange(ctx, start, from); err != nil {
		return moves, err
	}
	if moves[1], err = e.SetRange(ctx, end, to); err != nil {
		return moves, err
	}
	return moves, nil
}

func (e *Engine) drag(ctx context.Context, g Gesture) error {
	p := e.page.Pointer()
	if err := p.Press(g.StartX, g.StartY); err != nil {
		return err
	}
	if err := sleep(ctx, e.timing.DragHold); err != nil {
		_ = p.Release()
		return err
	}
	if err := p.MoveBy(float64(g.Offset), 0); err != nil {
		_ = p.Release()
		return err
	}
	if err := sleep(ctx, e.timing.DragHold); err != nil {
		_ = p.Release()
		return err
	}
	return p.Release()
}

// settledValue reads the handle value until two consecutive reads agree or the
// drag settle window closes.
func (e *Engine) settledValue(ctx context.Context, handle Element, loc Locator) (int, error) {
	last, err := readValue(handle, loc)
	if err != nil {
		return 0, err
	}
	deadline := time.Now().Add(e.timing.DragSettle)
	for time.Now().Before(deadline) {
		if err := sleep(ctx, e.pollInterval()); err != nil {
			return last, err
		}
		v, err := readValue(handle, loc)
		if err != nil {
			return last, err
		}
		if v == last {
			break
		}
		last = v
	}
	return last, nil
}

func readValue(el Element, loc Locator) (int, error) {
	raw, ok, err := el.Attribute(valueAttr)
	if err != nil {
		return 0, stateError(loc, "read "+valueAttr, err)
	}
	if !ok {
		return 0, stateError(loc, valueAttr+" missing", nil)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, stateError(loc, fmt.Sprintf("%s %q not numeric", valueAttr, raw), err)
	}
	return v, nil
}
