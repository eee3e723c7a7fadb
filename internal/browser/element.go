package browser

import (
	"fmt"
	"math"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/flightcheck/internal/ui"
)

// Element adapts a Rod element to ui.Element
type Element struct {
	el  *rod.Element
	loc ui.Locator
}

func (e *Element) Attribute(name string) (string, bool, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) Checked() (bool, error) {
	v, err := e.el.Property("checked")
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

func (e *Element) Text() (string, error) {
	return e.el.Text()
}

// Box returns the bounding box of the element's first content quad
func (e *Element) Box() (ui.Box, error) {
	shape, err := e.el.Shape()
	if err != nil {
		return ui.Box{}, err
	}
	if len(shape.Quads) == 0 {
		return ui.Box{}, fmt.Errorf("element has no shape: %s", e.loc)
	}
	q := shape.Quads[0]
	minX, maxX := math.Min(math.Min(q[0], q[2]), math.Min(q[4], q[6])), math.Max(math.Max(q[0], q[2]), math.Max(q[4], q[6]))
	minY, maxY := math.Min(math.Min(q[1], q[3]), math.Min(q[5], q[7])), math.Max(math.Max(q[1], q[3]), math.Max(q[5], q[7]))
	return ui.Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, nil
}

func (e *Element) ScrollIntoView() error {
	_, err := e.el.Eval(`() => this.scrollIntoView({block: 'center'})`)
	return err
}

func (e *Element) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *Element) ScriptClick() error {
	_, err := e.el.Eval(`() => this.click()`)
	return err
}

// Fill replaces the element's value by typing text
func (e *Element) Fill(text string) error {
	if err := e.el.SelectAllText(); err != nil {
		return err
	}
	return e.el.Input(text)
}

// Pointer moves the page mouse in viewport coordinates
type Pointer struct {
	mouse *rod.Mouse
}

// Press moves to (x, y) and holds the left button down
func (p *Pointer) Press(x, y float64) error {
	if err := p.mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return err
	}
	return p.mouse.Down(proto.InputMouseButtonLeft, 1)
}

// MoveBy moves the mouse relative to its current position in small steps so
// drag listeners see intermediate positions.
func (p *Pointer) MoveBy(dx, dy float64) error {
	from := p.mouse.Position()
	steps := int(math.Max(1, math.Abs(dx)/10))
	return p.mouse.MoveLinear(proto.Point{X: from.X + dx, Y: from.Y + dy}, steps)
}

func (p *Pointer) Release() error {
	return p.mouse.Up(proto.InputMouseButtonLeft, 1)
}
