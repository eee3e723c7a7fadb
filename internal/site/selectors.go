package site

import (
	"fmt"
	"strings"

	"github.com/v0xg/flightcheck/internal/ui"
)

// Home page
var (
	cheapFlightChecked = ui.CSS("[data-testid='flight-oneWayCheckbox-checked-label']")

	oneWayTripLabel = ui.CSS("[data-testid='search-one-way-label']")
	oneWayTripInput = ui.CSS("[data-testid='search-one-way-input']")

	origin = autosuggest{
		name:   "origin",
		button: ui.CSS("[data-testid='flight-origin-input-comp']"),
		input:  ui.CSS("[data-testid='endesign-flight-origin-autosuggestion-input']"),
		option: ui.CSS("[data-testid='endesign-flight-origin-autosuggestion-option-item-0']"),
	}
	destination = autosuggest{
		name:   "destination",
		button: ui.CSS("[data-testid='flight-destination-input-comp']"),
		input:  ui.CSS("[data-testid='endesign-flight-destination-autosuggestion-input']"),
		option: ui.CSS("[data-testid='endesign-flight-destination-autosuggestion-option-item-0']"),
	}

	departurePicker = datePicker{
		name:   "departure",
		opener: ui.CSS("[data-testid='enuygun-homepage-flight-departureDate-datepicker-input']"),
		labels: ui.CSS("[data-testid='enuygun-homepage-flight-departureDate-month-name-and-year']"),
		next:   ui.XPath("(//div[contains(@class, 'jHaclP')])[last()]"),
	}
	returnPicker = datePicker{
		name:   "return",
		opener: ui.CSS("[data-testid='enuygun-homepage-flight-returnDate-label']"),
		labels: ui.CSS("[data-testid='enuygun-homepage-flight-returnDate-month-name-and-year']"),
		next:   ui.CSS("[data-testid='enuygun-homepage-flight-returnDate-month-forward-button']"),
	}

	searchButton = ui.CSS("[data-testid='enuygun-homepage-flight-submitButton']")
)

// Flight list page
var (
	filterAccordion = ui.CSS(".filter-accordion")
	cookieAccept    = ui.CSS("#onetrust-accept-btn-handler")

	timeSection    = section("departure-return-time")
	transitSection = section("transfer")
	airlineSection = section("airlines")
	airportSection = section("airports")

	departureSlider = ui.CSS("[data-testid='departureDepartureTimeSlider']")
	departureStart  = ui.CSS("[data-testid='departureDepartureTimeSlider'] .rc-slider-handle-1")
	departureEnd    = ui.CSS("[data-testid='departureDepartureTimeSlider'] .rc-slider-handle-2")

	directFlightsLabel = ui.CSS("[data-testid='transferFilter-direct-label']")
	directFlightsInput = ui.CSS("[data-testid='transferFilter-direct-input']")

	allAirlinesLabel = ui.CSS("[data-testid='airlinesFilter-selectAll-label']")
	allAirlinesInput = ui.CSS("[data-testid='airlinesFilter-selectAll-input']")

	sortByPrice = ui.CSS("[data-testid='sort-by-price-asc']")

	priceRows = ui.CSS(".flight-list-body .flight-item [data-testid='flightInfoPrice']")
)

// priceAttr carries the unformatted amount on each price row
const priceAttr = "data-price"

// filterSection is a collapsible filter card: the header toggles the collapse body
type filterSection struct {
	name     string
	header   ui.Locator
	collapse ui.Locator
}

func section(name string) filterSection {
	header := fmt.Sprintf(".ctx-filter-%s.card-header", name)
	return filterSection{
		name:     name,
		header:   ui.CSS(header),
		collapse: ui.CSS(header + " + .collapse"),
	}
}

type autosuggest struct {
	name   string
	button ui.Locator
	input  ui.Locator
	option ui.Locator
}

type datePicker struct {
	name   string
	opener ui.Locator
	labels ui.Locator
	next   ui.Locator
}

// dayButton is the active calendar cell for an ISO date
func dayButton(iso string) ui.Locator {
	return ui.CSS(fmt.Sprintf("button[title='%s'][data-testid='datepicker-active-day']", iso))
}

// airlineOption matches the checkbox label carrying an airline's display name
func airlineOption(name string) (label, input ui.Locator) {
	label = ui.XPath(fmt.Sprintf("//div[contains(@class,'ctx-filter-airlines')]/following-sibling::div//label[normalize-space(.)=%s]", xpathLiteral(name)))
	input = ui.XPath(fmt.Sprintf("//div[contains(@class,'ctx-filter-airlines')]/following-sibling::div//label[normalize-space(.)=%s]//input", xpathLiteral(name)))
	return label, input
}

// airportOption matches an airport checkbox by IATA code
func airportOption(code string) (label, input ui.Locator) {
	label = ui.CSS(fmt.Sprintf("[data-testid='airportFilter-%s-label']", code))
	input = ui.CSS(fmt.Sprintf("[data-testid='airportFilter-%s-input']", code))
	return label, input
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences
func xpathLiteral(s string) string {
	if !strings.ContainsRune(s, '\'') {
		return "'" + s + "'"
	}
	if !strings.ContainsRune(s, '"') {
		return `"` + s + `"`
	}
	out := "concat("
	start := 0
	for i, r := range s {
		if r == '\'' {
			if i > start {
				out += "'" + s[start:i] + "', "
			}
			out += `"'", `
			start = i + 1
		}
	}
	out += "'" + s[start:] + "')"
	return out
}
