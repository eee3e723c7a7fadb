package ui

import (
	"context"
	"errors"
	"time"
)

type fakeElement struct {
	attrs    map[string]string
	checked  bool
	text     string
	box      Box
	clicks   int
	scripted int
	scrolls  int
	onClick  func()
	readErr  error
	disabled bool // never satisfies Clickable
}

func (f *fakeElement) Attribute(name string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	v, ok := f.attrs[name]
	return v, ok, nil
}

func (f *fakeElement) Checked() (bool, error) { return f.checked, f.readErr }
func (f *fakeElement) Text() (string, error)   { return f.text, f.readErr }
func (f *fakeElement) Box() (Box, error)       { return f.box, nil }
func (f *fakeElement) Fill(string) error       { return nil }

func (f *fakeElement) ScrollIntoView() error {
	f.scrolls++
	return nil
}

func (f *fakeElement) Click() error {
	f.clicks++
	if f.onClick != nil {
		f.onClick()
	}
	return nil
}

func (f *fakeElement) ScriptClick() error {
	f.scripted++
	if f.onClick != nil {
		f.onClick()
	}
	return nil
}

type pointerEvent struct {
	kind string
	x, y float64
}

type fakePointer struct {
	events    []pointerEvent
	onRelease func(dx float64)
	moved     float64
}

func (p *fakePointer) Press(x, y float64) error {
	p.events = append(p.events, pointerEvent{"press", x, y})
	p.moved = 0
	return nil
}

func (p *fakePointer) MoveBy(dx, dy float64) error {
	p.events = append(p.events, pointerEvent{"move", dx, dy})
	p.moved += dx
	return nil
}

func (p *fakePointer) Release() error {
	p.events = append(p.events, pointerEvent{kind: "release"})
	if p.onRelease != nil {
		p.onRelease(p.moved)
	}
	return nil
}

type fakePage struct {
	elements map[Locator]*fakeElement
	lists    map[Locator]func() []string
	pointer  *fakePointer
	waits    int
}

func newFakePage() *fakePage {
	return &fakePage{
		elements: map[Locator]*fakeElement{},
		lists:    map[Locator]func() []string{},
		pointer:  &fakePointer{},
	}
}

func (p *fakePage) add(loc Locator, el *fakeElement) *fakeElement {
	p.elements[loc] = el
	return el
}

func (p *fakePage) Wait(ctx context.Context, loc Locator, cond Condition) (Element, error) {
	p.waits++
	if cond == DocumentReady {
		return nil, nil
	}
	el, ok := p.elements[loc]
	if cond == Invisible {
		if !ok {
			return nil, nil
		}
	} else if ok && !(cond == Clickable && el.disabled) {
		return el, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (p *fakePage) Lookup(loc Locator) (Element, bool, error) {
	el, ok := p.elements[loc]
	if !ok {
		return nil, false, nil
	}
	return el, true, nil
}

func (p *fakePage) FindAll(loc Locator) ([]Element, error) {
	read, ok := p.lists[loc]
	if !ok {
		return nil, errors.New("no such list")
	}
	var out []Element
	for _, text := range read() {
		out = append(out, &fakeElement{text: text})
	}
	return out, nil
}

func (p *fakePage) Pointer() Pointer { return p.pointer }

func testTiming() Timing {
	return Timing{Bound: 50 * time.Millisecond}
}
