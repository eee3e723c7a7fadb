package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(values ...string) []Sample {
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = Sample{Text: v + " TL", Value: v}
	}
	return out
}

func TestVerifyAscending(t *testing.T) {
	r := Verify(samples("100.0", "150.0", "150.0", "300.0"))

	assert.True(t, r.Success)
	assert.False(t, r.Insufficient)
	assert.Nil(t, r.Violation)
	assert.Equal(t, 100.0, r.Min)
	assert.Equal(t, 300.0, r.Max)
	assert.InDelta(t, 175.0, r.Average, 1e-9)
	require.Len(t, r.Points, 4)
	assert.Equal(t, 150.0, r.Points[2].Value)
	assert.Equal(t, 3, r.Points[3].Row)
	assert.Contains(t, r.Text, "RESULT: PASSED")
}

func TestVerifyStopsAtFirstViolation(t *testing.T) {
	r := Verify(samples("100.0", "300.0", "150.0", "400.0"))

	assert.False(t, r.Success)
	require.NotNil(t, r.Violation)
	assert.Equal(t, 1, r.Violation.Index)
	assert.Equal(t, 300.0, r.Violation.Left.Value)
	assert.Equal(t, 150.0, r.Violation.Right.Value)
	assert.Equal(t, 100.0, r.Min)
	assert.Equal(t, 400.0, r.Max)
	assert.InDelta(t, 237.5, r.Average, 1e-9)
	assert.Contains(t, r.Text, "RESULT: FAILED")
	assert.Contains(t, r.Text, "First violation at position 2")
}

func TestVerifyOnlyFirstViolationRecorded(t *testing.T) {
	r := Verify(samples("500", "400", "300"))
	require.NotNil(t, r.Violation)
	assert.Equal(t, 0, r.Violation.Index)
}

func TestVerifyInsufficientData(t *testing.T) {
	for name, in := range map[string][]Sample{
		"empty":     nil,
		"single":    samples("120.5"),
		"one valid": {{Text: "n/a", Value: ""}, {Text: "99 TL", Value: "99"}, {Text: "?", Value: "abc"}},
	} {
		t.Run(name, func(t *testing.T) {
			r := Verify(in)
			assert.True(t, r.Success)
			assert.True(t, r.Insufficient)
			assert.Nil(t, r.Violation)
			assert.Contains(t, r.Text, "insufficient data")
		})
	}
}

func TestVerifySkipsUnparsableRows(t *testing.T) {
	r := Verify([]Sample{
		{Text: "1.250 TL", Value: "1250"},
		{Text: "Sold out", Value: ""},
		{Text: "?", Value: "NaN"},
		{Text: "1.400 TL", Value: " 1400.00 "},
	})

	assert.True(t, r.Success)
	assert.Equal(t, 2, r.Skipped)
	require.Len(t, r.Points, 2)
	assert.Equal(t, 3, r.Points[1].Row)
	assert.Contains(t, r.Text, "Rows skipped (no numeric price): 2")
}

func TestVerifyUsesValueNotDisplayText(t *testing.T) {
	r := Verify([]Sample{
		{Text: "9.999 TL", Value: "999"},
		{Text: "1.000 TL", Value: "1000"},
	})
	assert.True(t, r.Success)
}

func TestSummary(t *testing.T) {
	r := Verify(samples("1000", "2500.5"))
	s := r.Summary("ONE-WAY")

	assert.Contains(t, s, "PASSED (ONE-WAY)")
	assert.Contains(t, s, "Total Flights: 2")
	assert.Contains(t, s, "1,000 TL")
	assert.Contains(t, s, "All prices are in ascending order")
}
