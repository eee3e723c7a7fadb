package ui

import (
	"context"
	"fmt"
)

// LocatorKind selects how a locator value is interpreted by the driver
type LocatorKind int

const (
	KindCSS LocatorKind = iota
	KindXPath
)

// Locator identifies an element on the page. The engine never inspects the value.
type Locator struct {
	Kind  LocatorKind
	Value string
}

// CSS returns a CSS selector locator
func CSS(selector string) Locator {
	return Locator{Kind: KindCSS, Value: selector}
}

// XPath returns an XPath locator
func XPath(expr string) Locator {
	return Locator{Kind: KindXPath, Value: expr}
}

func (l Locator) String() string {
	if l.Kind == KindXPath {
		return "xpath=" + l.Value
	}
	return "css=" + l.Value
}

// Condition is an observable readiness predicate
type Condition int

const (
	Visible Condition = iota
	Clickable
	Invisible
	DocumentReady
)

func (c Condition) String() string {
	switch c {
	case Visible:
		return "visible"
	case Clickable:
		return "clickable"
	case Invisible:
		return "invisible"
	case DocumentReady:
		return "document-ready"
	default:
		return fmt.Sprintf("condition(%d)", int(c))
	}
}

// Box is an element's layout rectangle in viewport pixels
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the middle of the box
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Element is a handle to one interactive element on the live page
type Element interface {
	// Attribute returns the attribute value and whether it is present.
	Attribute(name string) (string, bool, error)
	// Checked reads the element's boolean checked/selected property.
	Checked() (bool, error)
	Text() (string, error)
	Box() (Box, error)
	ScrollIntoView() error
	Click() error
	// ScriptClick dispatches a click from page script, bypassing overlays.
	ScriptClick() error
	Fill(text string) error
}

// Pointer drives the physical mouse
type Pointer interface {
	Press(x, y float64) error
	MoveBy(dx, dy float64) error
	Release() error
}

// Page is the browser capability consumed by the engine
type Page interface {
	// Wait blocks using the driver's own waiting until loc satisfies cond or
	// ctx is done. For Invisible and DocumentReady the returned element may be nil.
	Wait(ctx context.Context, loc Locator, cond Condition) (Element, error)
	// Lookup reports whether loc currently matches, without waiting.
	Lookup(loc Locator) (Element, bool, error)
	FindAll(loc Locator) ([]Element, error)
	Pointer() Pointer
}
