package scenario

import (
	"bytes"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/flightcheck/internal/config"
	"github.com/v0xg/flightcheck/internal/evidence"
	"github.com/v0xg/flightcheck/internal/pagemap"
	"github.com/v0xg/flightcheck/internal/site"
	"github.com/v0xg/flightcheck/internal/triage"
	"github.com/v0xg/flightcheck/internal/ui"
)

// Browser is a launched browser as the runner sees it
type Browser interface {
	site.Browser
	Screenshot() ([]byte, error)
	PageMap() (*pagemap.PageMap, error)
	Close()
}

// Launcher opens a fresh browser for one scenario
type Launcher func(ctx context.Context) (Browser, error)

// Options configures a Runner
type Options struct {
	Config *config.Config
	Launch Launcher
	Store  *evidence.Store
	Triage triage.Provider // nil disables triage
	Record bool            // write a filmstrip GIF of the steps
	Logger *zap.Logger
}

// Result is the outcome of one scenario
type Result struct {
	Scenario    Scenario
	Passed      bool
	Err         error
	Steps       []StepResult
	Duration    time.Duration
	Screenshot  string
	Diagnosis   *triage.Diagnosis
	Attachments []evidence.Attachment
}

// Runner executes scenarios sequentially
type Runner struct {
	opts Options
	log  *zap.Logger
}

// NewRunner validates options
func NewRunner(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, errors.New("scenario: config required")
	}
	if opts.Launch == nil {
		return nil, errors.New("scenario: launcher required")
	}
	if opts.Store == nil {
		opts.Store = evidence.NewStore(opts.Config.ScreenshotPath, opts.Config.ArtifactPath, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{opts: opts, log: opts.Logger}, nil
}

// RunAll runs each scenario in order. A failed scenario does not stop the rest;
// a cancelled context does.
func (rn *Runner) RunAll(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		if ctx.Err() != nil {
			break
		}
		results = append(results, rn.Run(ctx, s))
	}
	return results
}

// Run executes one scenario in its own browser
func (rn *Runner) Run(ctx context.Context, s Scenario) Result {
	log := rn.log.With(zap.String("scenario", s.Name))
	log.Info("scenario started", zap.String("title", s.Title))
	start := time.Now()
	res := Result{Scenario: s}
	before := len(rn.opts.Store.Attachments())

	finish := func() Result {
		res.Duration = time.Since(start)
		res.Attachments = rn.opts.Store.Attachments()[before:]
		if res.Passed {
			log.Info("scenario passed", zap.Duration("took", res.Duration))
		} else {
			log.Error("scenario failed", zap.Duration("took", res.Duration), zap.Error(res.Err))
		}
		return res
	}

	b, err := rn.opts.Launch(ctx)
	if err != nil {
		res.Err = err
		return finish()
	}
	defer b.Close()

	trail := evidence.NewTrail(b.Pointer)
	page := &tracedBrowser{Browser: b, trail: trail}
	eng := ui.New(page, rn.opts.Config.Timing(), log)

	var strip *evidence.Filmstrip
	if rn.opts.Record {
		strip = evidence.NewFilmstrip(evidence.FilmstripOptions{})
	}

	run := &Run{
		ctx:      ctx,
		scenario: s.Name,
		cfg:      rn.opts.Config,
		browser:  page,
		eng:      eng,
		log:      log,
		home:     site.NewHome(page, eng, rn.opts.Config.MaxMonthAttempts, log),
		attach: func(name, content string) error {
			_, err := rn.opts.Store.Attach(s.Name, name, content)
			return err
		},
		onStep: func(StepResult) {
			if strip == nil {
				return
			}
			png, err := b.Screenshot()
			if err == nil {
				err = strip.AddPNG(png, trail.Take())
			}
			if err != nil {
				log.Warn("filmstrip frame skipped", zap.Error(err))
			}
		},
	}

	err = run.home.Open(ctx, rn.opts.Config.BaseURL)
	if err == nil {
		err = s.Run(run)
	}
	res.Steps = run.Steps()
	res.Err = err
	res.Passed = err == nil

	if err != nil {
		rn.collectFailure(ctx, b, run, &res)
	}
	if strip != nil && strip.Len() > 0 {
		rn.saveFilmstrip(s.Name, strip, log)
	}
	return finish()
}

// collectFailure saves a screenshot and page map and, when enabled, asks the
// triage provider for a diagnosis. Failures here are logged, not returned.
func (rn *Runner) collectFailure(ctx context.Context, b Browser, run *Run, res *Result) {
	log := run.log
	if png, err := b.Screenshot(); err != nil {
		log.Warn("failure screenshot unavailable", zap.Error(err))
	} else if path, err := rn.opts.Store.SaveScreenshot(run.scenario, png); err != nil {
		log.Warn("failure screenshot not saved", zap.Error(err))
	} else {
		res.Screenshot = path
		if _, err := rn.opts.Store.AttachFile(run.scenario, "failed-screenshot.png", "Failed Screenshot", png); err != nil {
			log.Warn("failure screenshot not attached", zap.Error(err))
		}
	}

	pm, err := b.PageMap()
	if err != nil {
		log.Warn("page map unavailable", zap.Error(err))
	} else if data, err := pm.JSON(); err == nil {
		if _, err := rn.opts.Store.AttachFile(run.scenario, "page-map.json", "Page Map", data); err != nil {
			log.Warn("page map not attached", zap.Error(err))
		}
	}

	if rn.opts.Triage == nil {
		return
	}
	in := triage.Incident{
		Scenario: run.scenario,
		Error:    res.Err.Error(),
		Locator:  failedLocator(res.Err),
		PageMap:  pm,
	}
	if n := len(res.Steps); n > 0 {
		in.Step = res.Steps[n-1].Title
	}
	if url, err := b.CurrentURL(); err == nil {
		in.URL = url
	}
	d, err := rn.opts.Triage.Diagnose(ctx, in)
	if err != nil {
		log.Warn("triage failed", zap.Error(err))
		return
	}
	res.Diagnosis = d
	if _, err := rn.opts.Store.Attach(run.scenario, "Failure Triage", d.Format()); err != nil {
		log.Warn("triage not attached", zap.Error(err))
	}
}

// failedLocator returns the selector a typed engine error points at
func failedLocator(err error) string {
	var te *ui.TimeoutError
	if errors.As(err, &te) {
		return te.Locator.Value
	}
	var se *ui.ElementStateError
	if errors.As(err, &se) {
		return se.Locator.Value
	}
	return ""
}

func (rn *Runner) saveFilmstrip(name string, strip *evidence.Filmstrip, log *zap.Logger) {
	var buf bytes.Buffer
	if err := strip.Encode(&buf); err != nil {
		log.Warn("filmstrip not encoded", zap.Error(err))
		return
	}
	a, err := rn.opts.Store.AttachFile(name, "steps.gif", "Filmstrip", buf.Bytes())
	if err != nil {
		log.Warn("filmstrip not saved", zap.Error(err))
		return
	}
	log.Info("filmstrip saved", zap.String("path", a.Path), zap.Int("bytes", buf.Len()), zap.Int("frames", strip.Len()))
}

// tracedBrowser routes pointer gestures through a Trail
type tracedBrowser struct {
	Browser
	trail *evidence.Trail
}

func (t *tracedBrowser) Pointer() ui.Pointer { return t.trail }
