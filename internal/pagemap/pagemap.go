// Package pagemap captures a compact description of the interactive elements
// on a page. It is attached to failure evidence so a broken locator can be
// compared against what the page actually rendered.
package pagemap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
)

// PageMap represents the visible interactive structure of a page
type PageMap struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	ReadyState string    `json:"readyState"`
	Elements   []Element `json:"elements"`
}

// Element represents one visible interactive element
type Element struct {
	Selector string `json:"selector"`
	Type     string `json:"type"` // button, input, checkbox, link, slider, testid
	Text     string `json:"text,omitempty"`
	TestID   string `json:"testid,omitempty"`
	Class    string `json:"class,omitempty"`
	Value    string `json:"value,omitempty"` // aria-valuenow for sliders, value for inputs
	Checked  bool   `json:"checked,omitempty"`
}

// maxElements keeps the snapshot small enough for an LLM prompt
const maxElements = 300

const snapshotJS = `(limit) => {
	const out = [];
	const seen = new Set();

	function selectorFor(el) {
		const testid = el.getAttribute('data-testid');
		if (testid) return "[data-testid='" + testid + "']";
		if (el.id && !/^[0-9]/.test(el.id)) return '#' + el.id;
		if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';
		const classes = (typeof el.className === 'string' ? el.className : '')
			.trim().split(/\s+/).filter(c => c && !/[.:#\[\]()]/.test(c)).slice(0, 3);
		if (classes.length) return el.tagName.toLowerCase() + '.' + classes.join('.');
		return el.tagName.toLowerCase();
	}

	function kind(el) {
		if (el.getAttribute('role') === 'slider') return 'slider';
		const tag = el.tagName.toLowerCase();
		if (tag === 'input' && (el.type === 'checkbox' || el.type === 'radio')) return 'checkbox';
		if (tag === 'input' || tag === 'textarea' || tag === 'select') return 'input';
		if (tag === 'a') return 'link';
		if (tag === 'button' || el.getAttribute('role') === 'button') return 'button';
		return 'testid';
	}

	const query = 'button, [role="button"], [role="slider"], a[href], input:not([type="hidden"]), select, textarea, [data-testid]';
	for (const el of document.querySelectorAll(query)) {
		if (out.length >= limit) break;
		if (!el.offsetParent && el.getAttribute('role') !== 'slider') continue;
		const selector = selectorFor(el);
		if (seen.has(selector)) continue;
		seen.add(selector);
		out.push({
			selector: selector,
			type: kind(el),
			text: (el.innerText || el.value || '').trim().slice(0, 60),
			testid: el.getAttribute('data-testid') || '',
			class: (typeof el.className === 'string' ? el.className : '').slice(0, 120),
			value: el.getAttribute('aria-valuenow') || (el.tagName === 'INPUT' ? el.value : '') || '',
			checked: !!el.checked
		});
	}
	return {
		url: window.location.href,
		title: document.title,
		readyState: document.readyState,
		elements: out
	};
}`

// Capture snapshots the page's visible interactive elements
func Capture(page *rod.Page) (*PageMap, error) {
	res, err := page.Eval(snapshotJS, maxElements)
	if err != nil {
		return nil, fmt.Errorf("pagemap: eval: %w", err)
	}
	var pm PageMap
	if err := res.Value.Unmarshal(&pm); err != nil {
		return nil, fmt.Errorf("pagemap: decode: %w", err)
	}
	return &pm, nil
}

// JSON renders the map for attachment
func (pm *PageMap) JSON() ([]byte, error) {
	return json.MarshalIndent(pm, "", "  ")
}

// Find returns the elements whose selector, test id or text contains needle
func (pm *PageMap) Find(needle string) []Element {
	var out []Element
	for _, el := range pm.Elements {
		if contains(el.Selector, needle) || contains(el.TestID, needle) || contains(el.Text, needle) {
			out = append(out, el)
		}
	}
	return out
}

func contains(s, sub string) bool {
	return sub != "" && strings.Contains(s, sub)
}
