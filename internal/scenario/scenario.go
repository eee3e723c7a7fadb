// Package scenario defines the end-to-end flight search checks and runs them,
// one fresh browser per scenario, capturing evidence when a step fails.
package scenario

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/flightcheck/internal/config"
	"github.com/v0xg/flightcheck/internal/site"
	"github.com/v0xg/flightcheck/internal/ui"
)

// Scenario is one named check
type Scenario struct {
	Name        string
	Title       string
	Description string
	Run         func(r *Run) error
}

// StepResult records one completed or failed step
type StepResult struct {
	Number   int
	Title    string
	Duration time.Duration
	Err      error
}

// Run is the state a scenario body works with
type Run struct {
	ctx      context.Context
	scenario string
	cfg      *config.Config
	browser  site.Browser
	eng      *ui.Engine
	log      *zap.Logger
	home     *site.Home
	list     *site.FlightList
	steps    []StepResult
	attach   func(name, content string) error
	onStep   func(StepResult)
}

// Context is the run's context
func (r *Run) Context() context.Context { return r.ctx }

// Config is the immutable run configuration
func (r *Run) Config() *config.Config { return r.cfg }

// Home is the search form of the site
func (r *Run) Home() *site.Home { return r.home }

// Engine gives direct access to the synchronisation engine
func (r *Run) Engine() *ui.Engine { return r.eng }

// Step runs fn as the next numbered step and logs its completion
func (r *Run) Step(title string, fn func() error) error {
	n := len(r.steps) + 1
	start := time.Now()
	r.log.Debug("step started", zap.Int("step", n), zap.String("title", title))

	err := fn()
	res := StepResult{Number: n, Title: title, Duration: time.Since(start), Err: err}
	r.steps = append(r.steps, res)
	if r.onStep != nil {
		r.onStep(res)
	}
	if err != nil {
		r.log.Error("step failed", zap.Int("step", n), zap.String("title", title), zap.Error(err))
		return fmt.Errorf("step %d (%s): %w", n, title, err)
	}
	r.log.Info(fmt.Sprintf("Step %d completed: %s", n, title), zap.Duration("took", res.Duration))
	return nil
}

// FlightList switches to the results page once and returns it
func (r *Run) FlightList() (*site.FlightList, error) {
	if r.list != nil {
		return r.list, nil
	}
	list, err := site.OpenFlightList(r.ctx, r.browser, r.eng, r.log)
	if err != nil {
		return nil, err
	}
	r.list = list
	return list, nil
}

// Attach stores a text attachment for the scenario
func (r *Run) Attach(name, content string) error {
	if r.attach == nil {
		return nil
	}
	return r.attach(name, content)
}

// Steps returns the steps run so far
func (r *Run) Steps() []StepResult {
	return r.steps
}
