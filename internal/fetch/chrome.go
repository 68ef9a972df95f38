package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeFetcher renders pages in headless Chrome before capturing their
// DOM. Use it for sites that build their content with JavaScript; for
// static pages the plain HTTPFetcher is an order of magnitude cheaper.
//
// The browser process is started once and reused for every fetch in the
// run. Startup costs seconds, so per-page browser launches would dominate
// crawl time; the orchestrator owns the fetcher for the run's lifetime
// and tears it down exactly once via Close.
type ChromeFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc

	browserCtx    context.Context
	browserCancel context.CancelFunc

	settleDelay time.Duration
}

// ChromeOption configures a ChromeFetcher.
type ChromeOption func(*chromeConfig)

type chromeConfig struct {
	userAgent   string
	headless    bool
	settleDelay time.Duration
}

// WithChromeUserAgent sets the browser's User-Agent string.
func WithChromeUserAgent(ua string) ChromeOption {
	return func(c *chromeConfig) {
		c.userAgent = ua
	}
}

// WithHeadless toggles headless mode. Headless is the default; disabling
// it is only useful when debugging rendering issues locally.
func WithHeadless(headless bool) ChromeOption {
	return func(c *chromeConfig) {
		c.headless = headless
	}
}

// WithSettleDelay sets how long to wait after navigation before capturing
// the DOM, giving client-side rendering a chance to finish.
func WithSettleDelay(d time.Duration) ChromeOption {
	return func(c *chromeConfig) {
		if d > 0 {
			c.settleDelay = d
		}
	}
}

// NewChromeFetcher launches a shared headless browser.
// The returned fetcher must be closed to terminate the browser process.
func NewChromeFetcher(opts ...ChromeOption) (*ChromeFetcher, error) {
	cfg := &chromeConfig{
		userAgent:   DefaultUserAgent,
		headless:    true,
		settleDelay: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	execOpts := append([]chromedp.ExecAllocatorOption{},
		chromedp.Flag("headless", cfg.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(cfg.userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing Chrome binary fails the run
	// up front instead of on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &ChromeFetcher{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		settleDelay:   cfg.settleDelay,
	}, nil
}

// Fetch navigates a fresh tab to the URL and captures the rendered DOM.
// The caller's ctx deadline and cancellation are honored even though the
// tab context descends from the shared browser context.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	tabCtx, tabCancel := chromedp.NewContext(f.browserCtx)
	defer tabCancel()

	// Bridge the caller's context into the tab: cancel the tab when the
	// per-page deadline or the run context fires.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	start := time.Now()
	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(f.settleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		// Report the caller's error when it caused the cancellation, so
		// timeouts classify correctly upstream.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("render %s: %w", url, err)
	}

	return &Result{
		URL:          url,
		StatusCode:   http.StatusOK,
		ContentType:  "text/html",
		Body:         []byte(html),
		ResponseTime: time.Since(start),
	}, nil
}

// Close terminates the shared browser process.
func (f *ChromeFetcher) Close() error {
	f.browserCancel()
	f.allocCancel()
	return nil
}
