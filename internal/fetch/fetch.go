package fetch

import (
	"context"
	"time"
)

// Result is the raw outcome of fetching one URL.
type Result struct {
	// URL is the fetched URL. It may differ from the requested URL when
	// the transport followed redirects.
	URL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// ContentType is the MIME type reported by the server, without
	// parameters such as charset.
	ContentType string

	// Body is the raw response body, capped at the fetcher's configured
	// body-size limit.
	Body []byte

	// ResponseTime is how long the fetch took, including rendering for
	// render-based fetchers.
	ResponseTime time.Duration
}

// Fetcher turns a URL into a Result.
//
// Implementations must respect ctx cancellation and deadlines: the
// orchestrator enforces the per-page timeout by deriving a deadline
// context for each call. The underlying connection pool or browser is
// reused across calls within a run and released by Close, which the
// orchestrator calls exactly once on every exit path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
	Close() error
}

// Document is the extracted view of a fetched page.
type Document struct {
	// Markdown is the page content converted to markdown-flavored text.
	Markdown string

	// Title is the page title, if any.
	Title string

	// Links are the absolute URLs discovered in the page.
	Links []string

	// Metadata carries extractor-specific page metadata (meta tags,
	// canonical URL, and similar).
	Metadata map[string]string
}

// Extractor converts a raw fetch result into text and links.
type Extractor interface {
	Extract(res *Result) (*Document, error)
}
