package site

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/v0xg/flightcheck/internal/ui"
)

type fakeElement struct {
	attrs   map[string]string
	checked bool
	text    string
	box     ui.Box
	filled  string
	clicks  int
	onClick func()
}

func (f *fakeElement) Attribute(name string) (string, bool, error) {
	v, ok := f.attrs[name]
	return v, ok, nil
}

func (f *fakeElement) Checked() (bool, error) { return f.checked, nil }
func (f *fakeElement) Text() (string, error)   { return f.text, nil }
func (f *fakeElement) Box() (ui.Box, error)    { return f.box, nil }
func (f *fakeElement) ScrollIntoView() error   { return nil }

func (f *fakeElement) Fill(text string) error {
	f.filled = text
	return nil
}

func (f *fakeElement) Click() error {
	f.clicks++
	if f.onClick != nil {
		f.onClick()
	}
	return nil
}

func (f *fakeElement) ScriptClick() error { return f.Click() }

// fakePointer moves whichever slider handle was pressed by the dragged pixels,
// one minute per pixel.
type fakePointer struct {
	handles []*fakeElement
	pressed *fakeElement
	dx      float64
}

func (p *fakePointer) Press(x, y float64) error {
	p.pressed, p.dx = nil, 0
	for _, h := range p.handles {
		cx, cy := h.box.Center()
		if cx == x && cy == y {
			p.pressed = h
		}
	}
	return nil
}

func (p *fakePointer) MoveBy(dx, _ float64) error {
	p.dx += dx
	return nil
}

func (p *fakePointer) Release() error {
	if p.pressed == nil {
		return errors.New("release without press")
	}
	v, _ := strconv.Atoi(p.pressed.attrs["aria-valuenow"])
	p.pressed.attrs["aria-valuenow"] = strconv.Itoa(v + int(p.dx))
	return nil
}

type fakeBrowser struct {
	elements map[ui.Locator]*fakeElement
	lists    map[ui.Locator]func() []*fakeElement
	pointer  *fakePointer
	url      string
	newTab   bool
	switched int
	scrolled int
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		elements: map[ui.Locator]*fakeElement{},
		lists:    map[ui.Locator]func() []*fakeElement{},
		pointer:  &fakePointer{},
	}
}

func (b *fakeBrowser) add(loc ui.Locator, el *fakeElement) *fakeElement {
	if el.attrs == nil {
		el.attrs = map[string]string{}
	}
	b.elements[loc] = el
	return el
}

func (b *fakeBrowser) Wait(ctx context.Context, loc ui.Locator, cond ui.Condition) (ui.Element, error) {
	if cond == ui.DocumentReady {
		return nil, nil
	}
	el, ok := b.elements[loc]
	if !ok {
		if list, has := b.lists[loc]; has {
			if rows := list(); len(rows) > 0 {
				el, ok = rows[0], true
			}
		}
	}
	if cond == ui.Invisible {
		if !ok {
			return nil, nil
		}
	} else if ok {
		return el, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (b *fakeBrowser) Lookup(loc ui.Locator) (ui.Element, bool, error) {
	el, ok := b.elements[loc]
	if !ok {
		return nil, false, nil
	}
	return el, true, nil
}

func (b *fakeBrowser) FindAll(loc ui.Locator) ([]ui.Element, error) {
	list, ok := b.lists[loc]
	if !ok {
		return nil, nil
	}
	var out []ui.Element
	for _, el := range list() {
		out = append(out, el)
	}
	return out, nil
}

func (b *fakeBrowser) Pointer() ui.Pointer { return b.pointer }

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.url = url
	return nil
}

func (b *fakeBrowser) SwitchToNewTab(context.Context, time.Duration) (bool, error) {
	b.switched++
	return b.newTab, nil
}

func (b *fakeBrowser) CurrentURL() (string, error) { return b.url, nil }

func (b *fakeBrowser) ScrollToTop() error {
	b.scrolled++
	return nil
}

func testEngine(b *fakeBrowser) *ui.Engine {
	return ui.New(b, ui.Timing{Bound: 50 * time.Millisecond}, nil)
}

func texts(values ...string) func() []*fakeElement {
	return func() []*fakeElement {
		out := make([]*fakeElement, len(values))
		for i, v := range values {
			out[i] = &fakeElement{text: v}
		}
		return out
	}
}
