package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIsIdempotent(t *testing.T) {
	page := newFakePage()
	box := page.add(CSS("input.direct"), &fakeElement{})
	box.onClick = func() { box.checked = !box.checked }
	e := New(page, testTiming(), nil)

	toggle := Toggle{Name: "direct flights", Control: CSS("input.direct"), Probe: CheckedProbe(CSS("input.direct"))}

	changed, err := e.Normalize(context.Background(), toggle, Selected)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, box.checked)

	changed, err = e.Normalize(context.Background(), toggle, Selected)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, box.clicks)
	assert.Equal(t, 1, box.scrolls)
}

func TestNormalizeClassProbeUsesScriptClick(t *testing.T) {
	page := newFakePage()
	header := page.add(CSS(".ctx-filter-departure-return-time.card-header"), &fakeElement{})
	collapse := page.add(CSS(".collapse"), &fakeElement{attrs: map[string]string{"class": "collapse"}})
	header.onClick = func() { collapse.attrs["class"] = "collapse show" }
	e := New(page, testTiming(), nil)

	toggle := Toggle{
		Name:    "time filter",
		Control: CSS(".ctx-filter-departure-return-time.card-header"),
		Probe:   ClassProbe(CSS(".collapse"), "show"),
		Script:  true,
	}
	changed, err := e.Normalize(context.Background(), toggle, Selected)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, header.scripted)
	assert.Zero(t, header.clicks)

	changed, err = e.Normalize(context.Background(), toggle, Selected)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, header.scripted)
}

func TestNormalizeAlreadyCollapsedDoesNothing(t *testing.T) {
	page := newFakePage()
	header := page.add(CSS(".header"), &fakeElement{})
	page.add(CSS(".collapse"), &fakeElement{attrs: map[string]string{"class": "collapse showing"}})
	e := New(page, testTiming(), nil)

	changed, err := e.Normalize(context.Background(), Toggle{
		Name:    "accordion",
		Control: CSS(".header"),
		Probe:   ClassProbe(CSS(".collapse"), "show"),
	}, Unselected)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, header.clicks)
}

func TestNormalizePresenceProbe(t *testing.T) {
	page := newFakePage()
	checkedLabel := CSS("[data-testid='flight-oneWayCheckbox-checked-label']")
	label := page.add(checkedLabel, &fakeElement{})
	label.onClick = func() { delete(page.elements, checkedLabel) }
	e := New(page, testTiming(), nil)

	toggle := Toggle{Name: "cheap flight", Control: checkedLabel, Probe: PresenceProbe(checkedLabel)}
	changed, err := e.Normalize(context.Background(), toggle, Unselected)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = e.Normalize(context.Background(), toggle, Unselected)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, label.clicks)
}

func TestNormalizeUnreadableState(t *testing.T) {
	page := newFakePage()
	page.add(CSS(".sort"), &fakeElement{attrs: map[string]string{}})
	e := New(page, testTiming(), nil)

	_, err := e.Normalize(context.Background(), Toggle{
		Name:    "sort",
		Control: CSS(".sort"),
		Probe:   ClassProbe(CSS(".sort"), "active"),
	}, Selected)
	var se *ElementStateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, CSS(".sort"), se.Locator)
}

func TestNormalizeRejectsUnknownTarget(t *testing.T) {
	e := New(newFakePage(), testTiming(), nil)
	_, err := e.Normalize(context.Background(), Toggle{Name: "x", Probe: PresenceProbe(CSS("#x"))}, Unknown)
	assert.Error(t, err)
}

func TestHasClassMatchesWholeTokens(t *testing.T) {
	assert.True(t, hasClass("btn active", "active"))
	assert.False(t, hasClass("btn inactive", "active"))
	assert.False(t, hasClass("", "show"))
}
