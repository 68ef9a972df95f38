package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/crawlbound/crawlbound/internal/safety"
)

// Default HTTP fetcher settings.
const (
	// DefaultMaxBodySize caps response bodies at 5MB. That is ample for
	// HTML pages while preventing memory exhaustion from unexpectedly
	// large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies the crawler in HTTP requests.
	// A descriptive User-Agent lets site operators recognize and, if
	// they wish, rate-limit crawler traffic.
	DefaultUserAgent = "crawlbound/1.0 (+https://github.com/crawlbound/crawlbound)"

	// maxRedirects caps the redirect chain per fetch. Ten matches the
	// net/http default that a custom CheckRedirect otherwise replaces.
	maxRedirects = 10
)

// HTTPFetcher fetches pages with a plain net/http client.
// It is the default fetch adapter; pages that require JavaScript
// execution need the Chrome fetcher instead.
type HTTPFetcher struct {
	client      *http.Client
	gate        *safety.Gate
	userAgent   string
	headers     map[string]string
	maxBodySize int64
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize caps the number of response bytes read per page.
func WithMaxBodySize(n int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// NewHTTPFetcher creates an HTTP fetcher with a shared transport.
//
// The transport's connection pool is deliberately long-lived: a crawl
// hits the same host repeatedly, and keep-alive reuse amortizes TLS
// handshakes across the whole run. Close releases the idle connections.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	f := &HTTPFetcher{
		client:      &http.Client{Transport: transport},
		gate:        safety.NewGate(),
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	f.client.CheckRedirect = f.checkRedirect
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// checkRedirect re-gates redirect hops that leave the current host.
// The URL that started the chain was vetted before dispatch, and the
// gate is lexical, so a hop staying on the same host carries the same
// verdict; a hop to a new host gets checked before it is followed.
func (f *HTTPFetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if req.URL.Hostname() == via[len(via)-1].URL.Hostname() {
		return nil
	}
	if v := f.gate.Check(req.URL.String()); !v.Allowed {
		return fmt.Errorf("redirect to %s refused: %s", req.URL, v.Reason)
	}
	return nil
}

// Fetch performs a GET request and reads the body up to the size cap.
// The per-page deadline comes from ctx; there is no client-level timeout
// so that the orchestrator stays in charge of cancellation.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		URL:          finalURL,
		StatusCode:   resp.StatusCode,
		ContentType:  contentType,
		Body:         body,
		ResponseTime: time.Since(start),
	}, nil
}

// Close releases idle connections held by the transport.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
