package triage

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = `You diagnose failures in a browser test suite that drives a flight search site.

You will receive:
1. The scenario and step that failed, and the error text
2. A page map: the URL, title, document ready state and the visible interactive elements (selector, type, text, test id, class, value, checked)

Work out the most likely cause. Categories:
- "locator": the element the step waited for is not on the page, but a similar one is (renamed test id, changed class)
- "timing": the element exists but was not ready in time (still loading, overlay, animation)
- "state": a control was in an unexpected state (collapsed section, slider value not reflected, checkbox already on)
- "site": the page is an error page, a captcha, or a different page than expected
- "unknown": nothing in the page map explains the failure

When the category is "locator", put the page map selector that most likely replaces the broken one in "suggested_locator".

Respond ONLY with a JSON object, no explanation or markdown:
{"summary": "...", "category": "...", "suggested_locator": "...", "confidence": 0.0}`

func buildUserPrompt(in Incident) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n", in.Scenario)
	fmt.Fprintf(&b, "Step: %s\n", in.Step)
	fmt.Fprintf(&b, "Error: %s\n", in.Error)
	if in.Locator != "" {
		fmt.Fprintf(&b, "Locator: %s\n", in.Locator)
	}
	if in.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", in.URL)
	}
	if in.PageMap == nil {
		b.WriteString("\nPage map: unavailable\n")
		return b.String(), nil
	}
	if key := locatorKey(in.Locator); key != "" {
		if near := in.PageMap.Find(key); len(near) > 0 {
			fmt.Fprintf(&b, "\nElements matching %q:\n", key)
			for _, el := range near {
				fmt.Fprintf(&b, "- %s (%s)\n", el.Selector, el.Type)
			}
		}
	}
	pm, err := json.MarshalIndent(in.PageMap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal page map: %w", err)
	}
	b.WriteString("\nPage map:\n")
	b.Write(pm)
	return b.String(), nil
}

// locatorKey picks the most distinctive part of a selector to search the page
// map with: the first quoted attribute value, else the selector itself.
func locatorKey(loc string) string {
	for _, q := range []string{"'", `"`} {
		if i := strings.Index(loc, q); i >= 0 {
			if j := strings.Index(loc[i+1:], q); j > 0 {
				return loc[i+1 : i+1+j]
			}
		}
	}
	return strings.TrimSpace(loc)
}

// parseDiagnosis extracts the JSON object from a response that may carry
// surrounding text or a code fence
func parseDiagnosis(response string) (*Diagnosis, error) {
	var d Diagnosis
	if err := json.Unmarshal([]byte(response), &d); err == nil {
		return normalize(&d), nil
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	depth, end := 0, -1
	inString, escaped := false, false
	for i := start; i < len(response) && end == -1; i++ {
		c := response[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
	}
	if end == -1 {
		return nil, fmt.Errorf("no matching closing brace found")
	}
	if err := json.Unmarshal([]byte(response[start:end]), &d); err != nil {
		return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return normalize(&d), nil
}

var categories = map[string]bool{"locator": true, "timing": true, "state": true, "site": true, "unknown": true}

func normalize(d *Diagnosis) *Diagnosis {
	d.Category = strings.ToLower(strings.TrimSpace(d.Category))
	if !categories[d.Category] {
		d.Category = "unknown"
	}
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
	return d
}

// Format renders a diagnosis as an attachment
func (d *Diagnosis) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category:   %s\n", d.Category)
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", d.Confidence*100)
	if d.SuggestedLocator != "" {
		fmt.Fprintf(&b, "Suggested:  %s\n", d.SuggestedLocator)
	}
	fmt.Fprintf(&b, "\n%s\n", d.Summary)
	return b.String()
}
