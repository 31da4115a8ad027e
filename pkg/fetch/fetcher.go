// Package fetch drives a shared headless browser session, rendering one
// listing page per plan and handing the HTML to a PageParser.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pickscope/pickscope/pkg/pick"
	"github.com/pickscope/pickscope/pkg/plan"
	"github.com/pickscope/pickscope/pkg/runlog"
	"github.com/pickscope/pickscope/pkg/validate"
)

const (
	viewportWidth  = 1920
	viewportHeight = 1080
)

// Options controls navigation behavior for every plan fetch.
type Options struct {
	// UserAgent is sent on every request to reduce anti-bot friction.
	UserAgent string
	// NavTimeout bounds one page navigation, render included.
	NavTimeout time.Duration
	// Settle is how long to wait after the page is ready before reading
	// the DOM. The site keeps rendering asynchronously after the load
	// signal fires.
	Settle time.Duration
}

// Session owns one browser instance shared by all plans. Each plan gets
// a fresh tab that is closed when its fetch ends, success or failure.
type Session struct {
	browser context.Context
	cancels []context.CancelFunc
	parser  PageParser
	opts    Options
	log     *runlog.Logger
}

// NewSession launches the browser. Close must be called exactly once
// when the run ends so no renderer process is orphaned.
func NewSession(ctx context.Context, parser PageParser, opts Options, log *runlog.Logger) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser up front: a launch failure belongs to the run,
	// not to whichever plan happens to go first.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Session{
		browser: browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
		parser:  parser,
		opts:    opts,
		log:     log,
	}, nil
}

// Close shuts the shared browser down.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// FetchPlan renders one plan's listing page and parses it into raw
// picks. Failures are logged at ERROR and converted into an empty batch:
// one broken plan must not abort the others. The duration is threaded
// through for logging only.
func (s *Session) FetchPlan(p plan.Plan, d validate.Duration) []pick.Raw {
	s.log.Infof("Starting extraction on %s (mode: %s)", p.Name, d)
	raws, err := s.fetch(p)
	if err != nil {
		s.log.Errorf("Failure on %s: %v", p.Name, err)
		return nil
	}
	return raws
}

func (s *Session) fetch(p plan.Plan) ([]pick.Raw, error) {
	// A fresh context on the browser context is a fresh tab; cancelling
	// closes it whatever happened in between.
	tabCtx, closeTab := chromedp.NewContext(s.browser)
	defer closeTab()

	tabCtx, cancel := context.WithTimeout(tabCtx, s.opts.NavTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.Navigate(p.URL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(s.opts.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", p.URL, err)
	}
	return s.parser.Parse(html)
}
