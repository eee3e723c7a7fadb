// Package browser drives a Chrome page through go-rod and exposes it as the
// ui.Page capability.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"github.com/v0xg/flightcheck/internal/pagemap"
	"github.com/v0xg/flightcheck/internal/ui"
)

// Options configures the browser launch
type Options struct {
	Width      int
	Height     int
	Headless   bool
	Stealth    bool   // open pages through go-rod/stealth
	ProfileDir string // Chrome/Chromium profile directory
	Logger     *zap.Logger
}

// Session wraps the Rod browser and the page currently being driven
type Session struct {
	ctx     context.Context
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	pointer *Pointer
	opts    Options
	log     *zap.Logger
}

// Launch starts a local Chrome and opens a blank page
func Launch(ctx context.Context, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}
	if opts.Stealth {
		l = l.Set("disable-blink-features", "AutomationControlled")
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser: launch: %w", err)
	}
	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	var page *rod.Page
	if opts.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("browser: create page: %w", err)
	}

	s := &Session{ctx: ctx, browser: b, lnch: l, opts: opts, log: opts.Logger}
	if err := s.use(page); err != nil {
		s.Close()
		return nil, err
	}
	opts.Logger.Info("browser launched", zap.Bool("headless", opts.Headless), zap.Bool("stealth", opts.Stealth))
	return s, nil
}

func (s *Session) use(page *rod.Page) error {
	if s.opts.Width > 0 && s.opts.Height > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             s.opts.Width,
			Height:            s.opts.Height,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			return fmt.Errorf("browser: set viewport: %w", err)
		}
	}
	s.page = page.Context(s.ctx)
	s.pointer = &Pointer{mouse: s.page.Mouse}
	return nil
}

// Close cleans up browser resources
func (s *Session) Close() {
	if s.page != nil {
		s.page.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
	}
}

// Page returns the underlying Rod page
func (s *Session) Page() *rod.Page {
	return s.page
}

// Navigate loads url and waits for the load event
func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("browser: wait load %s: %w", url, err)
	}
	return nil
}

// CurrentURL returns the URL of the driven page
func (s *Session) CurrentURL() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", fmt.Errorf("browser: page info: %w", err)
	}
	return info.URL, nil
}

// SwitchToNewTab moves the session onto the tab opened by the current page,
// waiting up to bound for it to appear. It reports false when no tab appeared.
func (s *Session) SwitchToNewTab(ctx context.Context, bound time.Duration) (bool, error) {
	waitCtx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	// Armed before listing so a tab opening in between is not missed.
	wait := s.page.Context(waitCtx).WaitOpen()

	pages, err := s.browser.Pages()
	if err != nil {
		return false, fmt.Errorf("browser: list tabs: %w", err)
	}
	s.log.Debug("open tabs", zap.Int("count", len(pages)))
	for _, p := range pages {
		if p.TargetID == s.page.TargetID {
			continue
		}
		info, err := p.Info()
		if err != nil {
			return false, fmt.Errorf("browser: tab info: %w", err)
		}
		if info.OpenerID == s.page.TargetID {
			return true, s.switchTo(p)
		}
	}

	p, err := wait()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if waitCtx.Err() != nil {
			return false, nil
		}
		return false, fmt.Errorf("browser: wait for new tab: %w", err)
	}
	return true, s.switchTo(p)
}

func (s *Session) switchTo(p *rod.Page) error {
	if _, err := p.Activate(); err != nil {
		return fmt.Errorf("browser: activate tab: %w", err)
	}
	if err := s.use(p); err != nil {
		return err
	}
	s.log.Info("switched to new tab", zap.String("target", string(p.TargetID)))
	return nil
}

// ScrollToTop scrolls the window back to the origin
func (s *Session) ScrollToTop() error {
	_, err := s.page.Eval(`() => window.scrollTo({top: 0, behavior: 'instant'})`)
	return err
}

// Screenshot captures the viewport as PNG
func (s *Session) Screenshot() ([]byte, error) {
	return s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// PageMap snapshots the visible interactive elements for diagnostics
func (s *Session) PageMap() (*pagemap.PageMap, error) {
	return pagemap.Capture(s.page)
}

// Pointer implements ui.Page
func (s *Session) Pointer() ui.Pointer {
	return s.pointer
}

// Wait implements ui.Page using Rod's element waits
func (s *Session) Wait(ctx context.Context, loc ui.Locator, cond ui.Condition) (ui.Element, error) {
	p := s.page.Context(ctx)

	switch cond {
	case ui.DocumentReady:
		return nil, p.Wait(rod.Eval(`() => document.readyState === 'complete'`))

	case ui.Invisible:
		found, el, err := has(p, loc)
		if err != nil || !found {
			return nil, err
		}
		return nil, el.WaitInvisible()

	case ui.Visible, ui.Clickable:
		el, err := find(p, loc)
		if err != nil {
			return nil, err
		}
		if err := el.WaitVisible(); err != nil {
			return nil, err
		}
		if cond == ui.Clickable {
			if err := el.WaitEnabled(); err != nil {
				return nil, err
			}
			if _, err := el.WaitInteractable(); err != nil {
				return nil, err
			}
		}
		// Detach from the wait deadline so the handle outlives this call.
		return &Element{el: el.Context(s.ctx), loc: loc}, nil
	}
	return nil, fmt.Errorf("browser: unsupported condition %s", cond)
}

// Lookup implements ui.Page without waiting
func (s *Session) Lookup(loc ui.Locator) (ui.Element, bool, error) {
	found, el, err := has(s.page, loc)
	if err != nil {
		return nil, false, fmt.Errorf("browser: lookup %s: %w", loc, err)
	}
	if !found {
		return nil, false, nil
	}
	return &Element{el: el, loc: loc}, true, nil
}

// FindAll implements ui.Page without waiting
func (s *Session) FindAll(loc ui.Locator) ([]ui.Element, error) {
	var els rod.Elements
	var err error
	if loc.Kind == ui.KindXPath {
		els, err = s.page.ElementsX(loc.Value)
	} else {
		els, err = s.page.Elements(loc.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("browser: find all %s: %w", loc, err)
	}
	out := make([]ui.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el, loc: loc})
	}
	return out, nil
}

func find(p *rod.Page, loc ui.Locator) (*rod.Element, error) {
	if loc.Kind == ui.KindXPath {
		return p.ElementX(loc.Value)
	}
	return p.Element(loc.Value)
}

func has(p *rod.Page, loc ui.Locator) (bool, *rod.Element, error) {
	if loc.Kind == ui.KindXPath {
		return p.HasX(loc.Value)
	}
	return p.Has(loc.Value)
}
