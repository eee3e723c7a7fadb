package site

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/flightcheck/internal/ui"
	"github.com/v0xg/flightcheck/internal/verify"
)

const (
	newTabBound   = 10 * time.Second
	cookieBound   = 2 * time.Second
	minutesPerDay = 24 * 60
)

// FlightList drives the results page
type FlightList struct {
	b   Browser
	eng *ui.Engine
	log *zap.Logger
}

// OpenFlightList moves onto the results tab and waits for the filters to
// render. A missing new tab or cookie banner is not an error.
func OpenFlightList(ctx context.Context, b Browser, eng *ui.Engine, log *zap.Logger) (*FlightList, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f := &FlightList{b: b, eng: eng, log: log.Named("flightlist")}

	switched, err := b.SwitchToNewTab(ctx, newTabBound)
	if err != nil {
		return nil, err
	}
	if !switched {
		f.log.Info("no new tab opened, staying on current page")
	}
	if url, err := b.CurrentURL(); err == nil {
		f.log.Info("flight list page", zap.String("url", url))
	}

	if _, err := eng.Await(ctx, filterAccordion, ui.Visible); err != nil {
		return nil, fmt.Errorf("flight list filters: %w", err)
	}
	if err := f.dismissCookies(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FlightList) dismissCookies(ctx context.Context) error {
	bound := cookieBound
	if b := f.eng.Timing().Bound; b < bound {
		bound = b
	}
	btn, ok, err := f.eng.Optional(ctx, cookieAccept, ui.Clickable, bound)
	if err != nil {
		return err
	}
	if !ok {
		f.log.Debug("no cookie banner")
		return nil
	}
	if err := btn.Click(); err != nil {
		return fmt.Errorf("accept cookies: %w", err)
	}
	if _, err := f.eng.Await(ctx, cookieAccept, ui.Invisible); err != nil {
		f.log.Warn("cookie banner still visible", zap.Error(err))
	}
	f.log.Info("cookie banner dismissed")
	return nil
}

// openSection expands a filter card. The header does not respond to native
// clicks reliably, so it is clicked through page script.
func (f *FlightList) openSection(ctx context.Context, s filterSection) error {
	if _, err := f.eng.Await(ctx, s.header, ui.Visible); err != nil {
		return fmt.Errorf("%s filter: %w", s.name, err)
	}
	_, err := f.eng.Normalize(ctx, ui.Toggle{
		Name:    s.name + " filter",
		Control: s.header,
		Probe:   ui.ClassProbe(s.collapse, "show"),
		Script:  true,
	}, ui.Selected)
	return err
}

// SetDepartureWindow limits departures to [startHour, endHour] on the outbound slider
func (f *FlightList) SetDepartureWindow(ctx context.Context, startHour, endHour int) ([2]ui.Move, error) {
	if err := f.openSection(ctx, timeSection); err != nil {
		return [2]ui.Move{}, err
	}
	if _, err := f.eng.Await(ctx, departureSlider, ui.Visible); err != nil {
		return [2]ui.Move{}, fmt.Errorf("departure slider: %w", err)
	}
	start := ui.Slider{Name: "departure start", Handle: departureStart, Track: departureSlider, Max: minutesPerDay}
	end := ui.Slider{Name: "departure end", Handle: departureEnd, Track: departureSlider, Max: minutesPerDay}

	moves, err := f.eng.SetRangePair(ctx, start, end, startHour*60, endHour*60)
	if err != nil {
		return moves, err
	}
	f.log.Info("departure window applied",
		zap.Int("from", moves[0].Reported), zap.Int("to", moves[1].Reported))
	return moves, nil
}

// SelectDirectFlights opens the transit filter and keeps direct flights only
func (f *FlightList) SelectDirectFlights(ctx context.Context) error {
	if err := f.openSection(ctx, transitSection); err != nil {
		return err
	}
	return f.check(ctx, "direct flights", directFlightsLabel, directFlightsInput)
}

// SelectAirline opens the airline filter and ticks the airline shown as name
func (f *FlightList) SelectAirline(ctx context.Context, name string) error {
	if err := f.openSection(ctx, airlineSection); err != nil {
		return err
	}
	label, input := airlineOption(name)
	return f.check(ctx, name, label, input)
}

// SelectAllAirlines opens the airline filter and ticks "Tümünü seç"
func (f *FlightList) SelectAllAirlines(ctx context.Context) error {
	if err := f.openSection(ctx, airlineSection); err != nil {
		return err
	}
	return f.check(ctx, "all airlines", allAirlinesLabel, allAirlinesInput)
}

// SelectAirports opens the airport filter and ticks each IATA code
func (f *FlightList) SelectAirports(ctx context.Context, codes ...string) error {
	if err := f.openSection(ctx, airportSection); err != nil {
		return err
	}
	for _, code := range codes {
		label, input := airportOption(code)
		if err := f.check(ctx, code+" airport", label, input); err != nil {
			return err
		}
	}
	return nil
}

func (f *FlightList) check(ctx context.Context, name string, label, input ui.Locator) error {
	_, err := f.eng.Normalize(ctx, ui.Toggle{
		Name:    name,
		Control: label,
		Probe:   ui.CheckedProbe(input),
	}, ui.Selected)
	return err
}

// SortByPrice activates the cheapest-first ordering
func (f *FlightList) SortByPrice(ctx context.Context) error {
	_, err := f.eng.Normalize(ctx, ui.Toggle{
		Name:    "sort by price",
		Control: sortByPrice,
		Probe:   ui.ClassProbe(sortByPrice, "active"),
	}, ui.Selected)
	return err
}

// PriceSamples reads every rendered price row in document order
func (f *FlightList) PriceSamples(ctx context.Context) ([]verify.Sample, error) {
	if _, err := f.eng.Await(ctx, priceRows, ui.Visible); err != nil {
		return nil, fmt.Errorf("price rows: %w", err)
	}
	rows, err := f.b.FindAll(priceRows)
	if err != nil {
		return nil, err
	}
	samples := make([]verify.Sample, 0, len(rows))
	for i, row := range rows {
		text, err := row.Text()
		if err != nil {
			f.log.Warn("price row text unreadable", zap.Int("row", i), zap.Error(err))
		}
		value, _, err := row.Attribute(priceAttr)
		if err != nil {
			f.log.Warn("price row value unreadable", zap.Int("row", i), zap.Error(err))
		}
		samples = append(samples, verify.Sample{Text: text, Value: value})
	}
	f.log.Info("price rows read", zap.Int("rows", len(samples)))
	return samples, nil
}

// VerifyPriceOrder reads the price rows and checks they ascend
func (f *FlightList) VerifyPriceOrder(ctx context.Context) (verify.Report, error) {
	samples, err := f.PriceSamples(ctx)
	if err != nil {
		return verify.Report{}, err
	}
	r := verify.Verify(samples)
	f.log.Info("price order verified",
		zap.Bool("success", r.Success),
		zap.Int("points", len(r.Points)),
		zap.Int("skipped", r.Skipped))
	return r, nil
}

// ScrollToTop returns the results to the first row
func (f *FlightList) ScrollToTop() error {
	return f.b.ScrollToTop()
}
