// Package verify checks that a rendered numeric series is in ascending order
// and renders the outcome as a report suitable for attaching to a test run.
package verify

import (
	"math"
	"strconv"
	"strings"
)

// Sample is one rendered row: its display text and its machine-readable value
type Sample struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Point is a sample whose numeric value parsed
type Point struct {
	Row   int // position of the row in document order
	Value float64
	Text  string
}

// Violation is the first adjacent pair found out of order
type Violation struct {
	Index int // position in the valid series; Points[Index] > Points[Index+1]
	Left  Point
	Right Point
}

// Report is the outcome of one verification. It is not modified after Verify returns.
type Report struct {
	Success      bool
	Insufficient bool
	Points       []Point
	Skipped      int
	Violation    *Violation
	Min          float64
	Max          float64
	Average      float64
	Text         string
}

// Verify checks the samples for non-decreasing order in document order.
// Fewer than two valid points cannot disprove the order and pass as insufficient data.
func Verify(samples []Sample) Report {
	r := Report{Success: true}
	for i, s := range samples {
		v, ok := parseValue(s.Value)
		if !ok {
			r.Skipped++
			continue
		}
		r.Points = append(r.Points, Point{Row: i, Value: v, Text: strings.TrimSpace(s.Text)})
	}

	if len(r.Points) > 0 {
		r.Min, r.Max = r.Points[0].Value, r.Points[0].Value
		var sum float64
		for _, p := range r.Points {
			r.Min = math.Min(r.Min, p.Value)
			r.Max = math.Max(r.Max, p.Value)
			sum += p.Value
		}
		r.Average = sum / float64(len(r.Points))
	}

	if len(r.Points) < 2 {
		r.Insufficient = true
	} else {
		for i := 0; i+1 < len(r.Points); i++ {
			if r.Points[i].Value > r.Points[i+1].Value {
				r.Success = false
				r.Violation = &Violation{Index: i, Left: r.Points[i], Right: r.Points[i+1]}
				break
			}
		}
	}

	r.Text = format(r)
	return r
}

func parseValue(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
