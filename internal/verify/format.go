package verify

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

const currency = "TL"

// Money formats v with thousands separators and two decimals
func Money(v float64) string {
	return humanize.CommafWithDigits(v, 2) + " " + currency
}

func format(r Report) string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "PRICE SORTING VERIFICATION")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Rows with a price: %d\n", len(r.Points))
	if r.Skipped > 0 {
		fmt.Fprintf(&b, "Rows skipped (no numeric price): %d\n", r.Skipped)
	}
	fmt.Fprintln(&b)

	for i, p := range r.Points {
		mark := ""
		if r.Violation != nil && (i == r.Violation.Index || i == r.Violation.Index+1) {
			mark = "  <-- out of order"
		}
		fmt.Fprintf(&b, "%3d. %s", i+1, Money(p.Value))
		if p.Text != "" {
			fmt.Fprintf(&b, "  (%s)", p.Text)
		}
		fmt.Fprintln(&b, mark)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, rule)
	switch {
	case r.Insufficient:
		fmt.Fprintln(&b, "RESULT: PASSED (insufficient data, fewer than 2 prices)")
	case r.Success:
		fmt.Fprintln(&b, "RESULT: PASSED, prices are in ascending order")
	default:
		v := r.Violation
		fmt.Fprintln(&b, "RESULT: FAILED, prices are not in ascending order")
		fmt.Fprintf(&b, "First violation at position %d: %s > %s\n",
			v.Index+1, Money(v.Left.Value), Money(v.Right.Value))
	}
	fmt.Fprintln(&b, rule)

	if len(r.Points) > 0 {
		fmt.Fprintf(&b, "Lowest:  %s\n", Money(r.Min))
		fmt.Fprintf(&b, "Highest: %s\n", Money(r.Max))
		fmt.Fprintf(&b, "Range:   %s\n", Money(r.Max-r.Min))
		fmt.Fprintf(&b, "Average: %s\n", Money(r.Average))
	}
	return b.String()
}

// Summary renders the short block attached next to the full report
func (r Report) Summary(label string) string {
	var b strings.Builder
	status := "PASSED"
	if !r.Success {
		status = "FAILED"
	}
	if label != "" {
		status += " (" + label + ")"
	}
	fmt.Fprintf(&b, "Price Sorting Verification: %s\n\n", status)
	fmt.Fprintln(&b, "Summary:")
	fmt.Fprintf(&b, "  Total Flights: %d\n", len(r.Points))
	if len(r.Points) > 0 {
		fmt.Fprintf(&b, "  Lowest Price: %s\n", Money(r.Min))
		fmt.Fprintf(&b, "  Highest Price: %s\n", Money(r.Max))
		fmt.Fprintf(&b, "  Price Range: %s\n", Money(r.Max-r.Min))
	}
	switch {
	case r.Insufficient:
		fmt.Fprintln(&b, "  Inconclusive: fewer than 2 prices")
	case r.Success:
		fmt.Fprintln(&b, "  All prices are in ascending order")
	default:
		fmt.Fprintf(&b, "  First violation at position %d\n", r.Violation.Index+1)
	}
	return b.String()
}
