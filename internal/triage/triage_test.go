package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/flightcheck/internal/pagemap"
)

func TestParseDiagnosisDirect(t *testing.T) {
	d, err := parseDiagnosis(`{"summary":"header renamed","category":"Locator","suggested_locator":".ctx-filter-time","confidence":0.8}`)
	require.NoError(t, err)
	assert.Equal(t, "locator", d.Category)
	assert.Equal(t, ".ctx-filter-time", d.SuggestedLocator)
	assert.InDelta(t, 0.8, d.Confidence, 1e-9)
}

func TestParseDiagnosisInsideFence(t *testing.T) {
	resp := "Here you go:\n```json\n{\"summary\": \"braces } in {text}\", \"category\": \"timing\", \"confidence\": 3}\n```"
	d, err := parseDiagnosis(resp)
	require.NoError(t, err)
	assert.Equal(t, "braces } in {text}", d.Summary)
	assert.Equal(t, "timing", d.Category)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestParseDiagnosisUnknownCategory(t *testing.T) {
	d, err := parseDiagnosis(`{"summary":"?","category":"cosmic rays"}`)
	require.NoError(t, err)
	assert.Equal(t, "unknown", d.Category)
}

func TestParseDiagnosisErrors(t *testing.T) {
	_, err := parseDiagnosis("no json here")
	assert.ErrorContains(t, err, "no JSON object")

	_, err = parseDiagnosis(`{"summary": "cut off`)
	assert.ErrorContains(t, err, "no matching closing brace")
}

func TestBuildUserPrompt(t *testing.T) {
	p, err := buildUserPrompt(Incident{
		Scenario: "airline-price-sort",
		Step:     "Sort flights by price",
		Error:    "timed out",
		URL:      "https://www.enuygun.com/ucak-bileti/",
		PageMap: &pagemap.PageMap{
			Title:    "Uçak bileti",
			Elements: []pagemap.Element{{Selector: "[data-testid='sort-by-price']", Type: "button"}},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, p, "Scenario: airline-price-sort")
	assert.Contains(t, p, "URL: https://www.enuygun.com/ucak-bileti/")
	assert.Contains(t, p, `"selector": "[data-testid='sort-by-price']"`)
	assert.NotContains(t, p, "Elements matching")

	p, err = buildUserPrompt(Incident{
		Scenario: "round-trip-time-filter",
		Step:     "Apply departure time filter",
		Error:    "ui: css [data-testid='departureDepartureTimeSlider'] not visible within 15s",
		Locator:  "[data-testid='departureDepartureTimeSlider']",
		PageMap: &pagemap.PageMap{Elements: []pagemap.Element{
			{Selector: "[data-testid='departureDepartureTimeSlider-v2']", Type: "testid", TestID: "departureDepartureTimeSlider-v2"},
			{Selector: "#onetrust-accept-btn-handler", Type: "button"},
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, p, "Locator: [data-testid='departureDepartureTimeSlider']")
	assert.Contains(t, p, "Elements matching \"departureDepartureTimeSlider\":\n- [data-testid='departureDepartureTimeSlider-v2'] (testid)\n")

	p, err = buildUserPrompt(Incident{Scenario: "s", Step: "x", Error: "e"})
	require.NoError(t, err)
	assert.Contains(t, p, "Page map: unavailable")
	assert.NotContains(t, p, "URL:")
}

func TestLocatorKey(t *testing.T) {
	assert.Equal(t, "sort-by-price", locatorKey("[data-testid='sort-by-price']"))
	assert.Equal(t, "Türk Hava Yolları", locatorKey(`//label[normalize-space()="Türk Hava Yolları"]`))
	assert.Equal(t, ".rc-slider-handle-1", locatorKey(" .rc-slider-handle-1 "))
	assert.Empty(t, locatorKey(""))
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider("gemini", "")
	assert.ErrorContains(t, err, "unknown provider")

	t.Setenv("FLIGHTCHECK_ANTHROPIC_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err = NewProvider("claude", "")
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	p, err := NewProvider("openai", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.(*OpenAIProvider).model)
}

func TestFormat(t *testing.T) {
	d := &Diagnosis{Summary: "Cookie banner covered the button.", Category: "timing", Confidence: 0.65}
	out := d.Format()
	assert.Contains(t, out, "Category:   timing")
	assert.Contains(t, out, "Confidence: 65%")
	assert.NotContains(t, out, "Suggested")
}
