// Package site scripts the flight search site: the search form on the home
// page and the filters and result rows on the flight list page. Every wait,
// toggle, slider and calendar interaction goes through ui.Engine.
package site

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/flightcheck/internal/config"
	"github.com/v0xg/flightcheck/internal/ui"
)

// Browser is the driver capability plus the tab and window operations the
// page scripts need
type Browser interface {
	ui.Page
	Navigate(ctx context.Context, url string) error
	SwitchToNewTab(ctx context.Context, bound time.Duration) (bool, error)
	CurrentURL() (string, error)
	ScrollToTop() error
}

// Home drives the search form
type Home struct {
	b         Browser
	eng       *ui.Engine
	log       *zap.Logger
	maxMonths int
}

// NewHome binds the search form to a browser. maxMonths bounds calendar paging.
func NewHome(b Browser, eng *ui.Engine, maxMonths int, log *zap.Logger) *Home {
	if log == nil {
		log = zap.NewNop()
	}
	return &Home{b: b, eng: eng, log: log.Named("home"), maxMonths: maxMonths}
}

// Open loads the home page and waits for the document to settle
func (h *Home) Open(ctx context.Context, url string) error {
	if err := h.b.Navigate(ctx, url); err != nil {
		return err
	}
	if err := h.eng.AwaitDocument(ctx); err != nil {
		return err
	}
	h.log.Info("home page loaded", zap.String("url", url))
	return nil
}

// DisableCheapFlight unchecks the "Ucuz bilet bul" option. The checked label is
// only rendered while the option is on, so presence is the state.
func (h *Home) DisableCheapFlight(ctx context.Context) error {
	_, err := h.eng.Normalize(ctx, ui.Toggle{
		Name:    "cheap flight",
		Control: cheapFlightChecked,
		Probe:   ui.PresenceProbe(cheapFlightChecked),
	}, ui.Unselected)
	return err
}

// SelectOneWay switches the form to a one-way trip
func (h *Home) SelectOneWay(ctx context.Context) error {
	_, err := h.eng.Normalize(ctx, ui.Toggle{
		Name:    "one way trip",
		Control: oneWayTripLabel,
		Probe:   ui.CheckedProbe(oneWayTripInput),
	}, ui.Selected)
	return err
}

// EnterOrigin types city into the origin box and picks the first suggestion
func (h *Home) EnterOrigin(ctx context.Context, city string) error {
	return h.suggest(ctx, origin, city)
}

// EnterDestination types city into the destination box and picks the first suggestion
func (h *Home) EnterDestination(ctx context.Context, city string) error {
	return h.suggest(ctx, destination, city)
}

func (h *Home) suggest(ctx context.Context, a autosuggest, city string) error {
	if err := h.click(ctx, a.button, ui.Clickable); err != nil {
		return fmt.Errorf("open %s box: %w", a.name, err)
	}
	input, err := h.eng.Await(ctx, a.input, ui.Visible)
	if err != nil {
		return fmt.Errorf("%s input: %w", a.name, err)
	}
	if err := input.Fill(city); err != nil {
		return fmt.Errorf("type %s: %w", a.name, err)
	}
	if err := h.click(ctx, a.option, ui.Visible); err != nil {
		return fmt.Errorf("pick %s suggestion: %w", a.name, err)
	}
	h.log.Info("city selected", zap.String("field", a.name), zap.String("city", city))
	return nil
}

// SelectDepartureDate opens the departure calendar, pages to the month of d
// and clicks its day
func (h *Home) SelectDepartureDate(ctx context.Context, d config.Date) error {
	return h.pickDate(ctx, departurePicker, d)
}

// SelectReturnDate does the same on the return calendar
func (h *Home) SelectReturnDate(ctx context.Context, d config.Date) error {
	return h.pickDate(ctx, returnPicker, d)
}

func (h *Home) pickDate(ctx context.Context, p datePicker, d config.Date) error {
	if d.IsZero() {
		return fmt.Errorf("%s date: not configured", p.name)
	}
	if err := h.click(ctx, p.opener, ui.Visible); err != nil {
		return fmt.Errorf("open %s calendar: %w", p.name, err)
	}
	if _, err := h.eng.Await(ctx, p.labels, ui.Visible); err != nil {
		return fmt.Errorf("%s calendar: %w", p.name, err)
	}
	_, err := h.eng.NavigateToMonth(ctx, ui.Calendar{
		Name:        p.name,
		Labels:      p.labels,
		Next:        p.next,
		MaxAttempts: h.maxMonths,
	}, d.MonthLabel())
	if err != nil {
		return err
	}
	if err := h.click(ctx, dayButton(d.ISO()), ui.Visible); err != nil {
		return fmt.Errorf("pick %s day %s: %w", p.name, d.ISO(), err)
	}
	h.log.Info("date selected", zap.String("field", p.name), zap.String("date", d.ISO()))
	return nil
}

// Search submits the form. The results open in a new tab.
func (h *Home) Search(ctx context.Context) error {
	if err := h.click(ctx, searchButton, ui.Clickable); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	h.log.Info("search submitted")
	return nil
}

func (h *Home) click(ctx context.Context, loc ui.Locator, cond ui.Condition) error {
	el, err := h.eng.Await(ctx, loc, cond)
	if err != nil {
		return err
	}
	return el.Click()
}
