package ui

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Calendar addresses a paginated date picker
type Calendar struct {
	Name        string
	Labels      Locator // every visible month-year heading
	Next        Locator // forward pagination control
	MaxAttempts int     // defaults to 24, two years of monthly pages
}

// NavigateToMonth pages the calendar forward until target is among the visible
// month labels. It returns the number of forward clicks issued.
func (e *Engine) NavigateToMonth(ctx context.Context, c Calendar, target string) (int, error) {
	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	log := e.log.With(zap.String("calendar", c.Name), zap.String("target", target))

	seen, err := e.monthLabels(c.Labels)
	if err != nil {
		return 0, err
	}
	if containsMonth(seen, target) {
		log.Info("target month already visible")
		return 0, nil
	}

	attempts := 0
	for attempts < maxAttempts {
		before := seen
		// A forward control disabled at the calendar's end still renders;
		// stall detection reports that case.
		next, err := e.Await(ctx, c.Next, Visible)
		if err != nil {
			return attempts, err
		}
		if err := next.Click(); err != nil {
			return attempts, stateError(c.Next, "click", err)
		}
		attempts++

		seen, err = e.awaitPageTurn(ctx, c.Labels, before)
		if err != nil {
			return attempts, err
		}
		log.Debug("calendar advanced", zap.Int("attempt", attempts), zap.Strings("visible", seen))

		if containsMonth(seen, target) {
			log.Info("target month found", zap.Int("clicks", attempts))
			return attempts, nil
		}
		if attempts > 1 && sameLabels(before, seen) {
			log.Warn("calendar not advancing", zap.Strings("visible", seen))
			return attempts, &NavigationExhaustedError{Target: target, Attempts: attempts, Stalled: true, LastSeen: seen}
		}
	}
	return attempts, &NavigationExhaustedError{Target: target, Attempts: attempts, LastSeen: seen}
}

// awaitPageTurn re-reads the labels until they differ from before or the
// page-turn window closes, and returns the last read.
func (e *Engine) awaitPageTurn(ctx context.Context, loc Locator, before []string) ([]string, error) {
	var seen []string
	_, err := e.pollUntil(ctx, e.timing.PageTurn, func() (bool, error) {
		var err error
		seen, err = e.monthLabels(loc)
		if err != nil {
			return false, err
		}
		return !sameLabels(before, seen), nil
	})
	return seen, err
}

func (e *Engine) monthLabels(loc Locator) ([]string, error) {
	els, err := e.page.FindAll(loc)
	if err != nil {
		return nil, stateError(loc, "list month labels", err)
	}
	labels := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, stateError(loc, "read month label", err)
		}
		labels = append(labels, strings.TrimSpace(text))
	}
	return labels, nil
}

// MonthMatches compares a visible label against a target, case-insensitively
// under Turkish casing rules first, then exactly.
func MonthMatches(label, target string) bool {
	label = strings.TrimSpace(label)
	target = strings.TrimSpace(target)
	lower := cases.Lower(language.Turkish)
	if lower.String(label) == lower.String(target) {
		return true
	}
	if strings.EqualFold(label, target) {
		return true
	}
	return label == target
}

func containsMonth(labels []string, target string) bool {
	for _, l := range labels {
		if MonthMatches(l, target) {
			return true
		}
	}
	return false
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
