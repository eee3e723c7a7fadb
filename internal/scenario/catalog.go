package scenario

import (
	"errors"
	"fmt"

	"github.com/v0xg/flightcheck/internal/verify"
)

// ErrPriceOrder is returned when the result rows are not cheapest first
var ErrPriceOrder = errors.New("prices are not in ascending order")

// All lists the built-in scenarios in run order
func All() []Scenario {
	return []Scenario{
		{
			Name:        "round-trip-time-filter",
			Title:       "Basic Flight Search with Time Filter",
			Description: "Round trip search, then limit outbound departures to the configured window.",
			Run:         roundTripTimeFilter,
		},
		{
			Name:        "airline-price-sort",
			Title:       "Advanced Flight Filtering and Price Verification",
			Description: "Round trip search with the time window and one airline, sorted by price and verified ascending.",
			Run:         airlinePriceSort,
		},
		{
			Name:        "one-way-filtered",
			Title:       "One-Way Flight Search with Advanced Filtering",
			Description: "One way search, direct flights, time window, all airlines, SAW and IST, sorted by price and verified ascending.",
			Run:         oneWayFiltered,
		},
	}
}

// Lookup finds a scenario by name
func Lookup(name string) (Scenario, bool) {
	for _, s := range All() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

func roundTripTimeFilter(r *Run) error {
	if err := searchRoundTrip(r); err != nil {
		return err
	}
	if err := applyTimeWindow(r); err != nil {
		return err
	}
	c := r.Config()
	return r.Step("Verify filtered results", func() error {
		return r.Attach("Filter Status", fmt.Sprintf(
			"Time filter applied: %02d:00 - %02d:00\nFlights filtered successfully",
			c.DepartureStartHour, c.DepartureEndHour))
	})
}

func airlinePriceSort(r *Run) error {
	if err := searchRoundTrip(r); err != nil {
		return err
	}
	if err := applyTimeWindow(r); err != nil {
		return err
	}
	airline := r.Config().Airline
	if err := r.Step("Select airline: "+airline, func() error {
		list, err := r.FlightList()
		if err != nil {
			return err
		}
		return list.SelectAirline(r.Context(), airline)
	}); err != nil {
		return err
	}
	if err := sortByPrice(r); err != nil {
		return err
	}
	return verifyPrices(r, "")
}

func oneWayFiltered(r *Run) error {
	c := r.Config()
	ctx := r.Context()
	home := r.Home()

	steps := []struct {
		title string
		fn    func() error
	}{
		{"Select one-way trip option", func() error { return home.SelectOneWay(ctx) }},
		{"Enter origin city: " + c.OriginCity, func() error { return home.EnterOrigin(ctx, c.OriginCity) }},
		{"Enter destination city: " + c.DestinationCity, func() error { return home.EnterDestination(ctx, c.DestinationCity) }},
		{"Select departure date: " + c.OneWayDate.String(), func() error { return home.SelectDepartureDate(ctx, c.OneWayDate) }},
		{"Disable 'Ucuz bilet bul' checkbox if checked", func() error { return home.DisableCheapFlight(ctx) }},
		{"Click search button", func() error { return home.Search(ctx) }},
		{"Select direct flights only", func() error {
			list, err := r.FlightList()
			if err != nil {
				return err
			}
			return list.SelectDirectFlights(ctx)
		}},
	}
	for _, s := range steps {
		if err := r.Step(s.title, s.fn); err != nil {
			return err
		}
	}
	if err := applyTimeWindow(r); err != nil {
		return err
	}

	list, err := r.FlightList()
	if err != nil {
		return err
	}
	filters := []struct {
		title string
		fn    func() error
	}{
		{"Select all airlines", func() error { return list.SelectAllAirlines(ctx) }},
		{"Select SAW and IST airports", func() error { return list.SelectAirports(ctx, "SAW", "IST") }},
	}
	for _, s := range filters {
		if err := r.Step(s.title, s.fn); err != nil {
			return err
		}
	}
	if err := sortByPrice(r); err != nil {
		return err
	}
	if err := verifyPrices(r, "One-Way"); err != nil {
		return err
	}
	return r.Step("Scroll to top of the page", list.ScrollToTop)
}

func searchRoundTrip(r *Run) error {
	c := r.Config()
	ctx := r.Context()
	home := r.Home()

	steps := []struct {
		title string
		fn    func() error
	}{
		{"Enter origin city: " + c.OriginCity, func() error { return home.EnterOrigin(ctx, c.OriginCity) }},
		{"Enter destination city: " + c.DestinationCity, func() error { return home.EnterDestination(ctx, c.DestinationCity) }},
		{"Select departure date: " + c.DepartureDate.String(), func() error { return home.SelectDepartureDate(ctx, c.DepartureDate) }},
		{"Select return date: " + c.ReturnDate.String(), func() error { return home.SelectReturnDate(ctx, c.ReturnDate) }},
		{"Disable 'Ucuz bilet bul' checkbox if checked", func() error { return home.DisableCheapFlight(ctx) }},
		{"Click search button", func() error { return home.Search(ctx) }},
	}
	for _, s := range steps {
		if err := r.Step(s.title, s.fn); err != nil {
			return err
		}
	}
	return nil
}

func applyTimeWindow(r *Run) error {
	c := r.Config()
	title := fmt.Sprintf("Apply time filter (%02d:00 - %02d:00)", c.DepartureStartHour, c.DepartureEndHour)
	return r.Step(title, func() error {
		list, err := r.FlightList()
		if err != nil {
			return err
		}
		_, err = list.SetDepartureWindow(r.Context(), c.DepartureStartHour, c.DepartureEndHour)
		return err
	})
}

func sortByPrice(r *Run) error {
	return r.Step("Sort flights by price (low to high)", func() error {
		list, err := r.FlightList()
		if err != nil {
			return err
		}
		return list.SortByPrice(r.Context())
	})
}

// verifyPrices reads the rows, attaches the report and fails on the first
// out-of-order pair. label tags the attachment names.
func verifyPrices(r *Run, label string) error {
	return r.Step("Verify price sorting accuracy", func() error {
		list, err := r.FlightList()
		if err != nil {
			return err
		}
		report, err := list.VerifyPriceOrder(r.Context())
		if err != nil {
			return err
		}
		return attachReport(r, report, label)
	})
}

func attachReport(r *Run, report verify.Report, label string) error {
	suffix := ""
	if label != "" {
		suffix = " (" + label + ")"
	}
	if err := r.Attach("Flight Price Verification Details"+suffix, report.Text); err != nil {
		return err
	}
	if !report.Success {
		v := report.Violation
		return fmt.Errorf("%w: %s then %s at position %d",
			ErrPriceOrder, verify.Money(v.Left.Value), verify.Money(v.Right.Value), v.Index+1)
	}
	return r.Attach("Verification Summary"+suffix, report.Summary(label))
}
