package model

import (
	"fmt"
	"regexp"
	"time"
)

// Default request values.
// These mirror the CLI flag defaults. Normalize applies them to
// zero-valued fields, except MaxDepth, whose zero value is a valid
// seeds-only crawl rather than an unset field.
const (
	// DefaultMaxDepth of 1 fetches the seed pages plus the pages they link
	// to. Deeper crawls must be requested explicitly because each extra
	// level can multiply the page count by the average link fan-out.
	DefaultMaxDepth = 1

	// DefaultMaxPages caps a run at 25 pages. This is a hard ceiling that
	// applies independently of adaptive stopping, so even a misbehaving
	// strategy cannot make a run unbounded.
	DefaultMaxPages = 25

	// DefaultPageTimeout is the per-page fetch deadline. 45 seconds is
	// generous enough for slow origins and JavaScript rendering while
	// keeping a stuck page from stalling a whole run.
	DefaultPageTimeout = 45 * time.Second

	// DefaultConcurrency is the number of simultaneous fetches. Four is a
	// polite default for a single origin; raising it mainly helps crawls
	// that span multiple hosts.
	DefaultConcurrency = 4

	// DefaultAdaptiveThreshold is the cumulative extracted-text size, in
	// characters, at which an adaptive run stops early. The value is a
	// heuristic for "enough context gathered" and is configurable; see
	// adaptive.ThresholdForQuery for query-sensitive variants.
	DefaultAdaptiveThreshold = 5000
)

// CrawlRequest describes one bounded crawl run.
// It is passed through function arguments rather than held in any global
// state, so concurrent runs never share request or progress data.
type CrawlRequest struct {
	// Seeds are the starting URLs. Every seed is checked by the safety
	// gate before any network access; a request whose seeds are all
	// denied is rejected as a whole.
	Seeds []string

	// MaxDepth limits how far link-following may go from a seed.
	// 0 means only the seed pages themselves.
	MaxDepth int

	// MaxPages is the maximum number of pages dispatched to the fetcher.
	// Discarded frontier entries (depth, safety, or pattern rejects) do
	// not count against this budget.
	MaxPages int

	// SameDomainOnly restricts the crawl to hosts matching the seed host.
	// Links to other domains are discarded before dispatch.
	SameDomainOnly bool

	// IncludePatterns, when non-empty, require a URL to match at least one
	// pattern before it is fetched. Patterns are Go regular expressions
	// matched against the full URL.
	IncludePatterns []string

	// ExcludePatterns reject any matching URL. Exclusion wins over
	// inclusion when both match.
	ExcludePatterns []string

	// Adaptive enables early termination once enough content has been
	// gathered, as judged by the configured stop strategy.
	Adaptive bool

	// AdaptiveThreshold is the cumulative content size (characters of
	// extracted text) at which an adaptive run stops. Ignored unless
	// Adaptive is true. Zero means use DefaultAdaptiveThreshold.
	AdaptiveThreshold int

	// PageTimeout is the deadline for a single fetch. A page exceeding it
	// is recorded as failed; the run continues.
	PageTimeout time.Duration

	// RunTimeout, when positive, bounds the whole run. Exceeding it
	// cancels in-flight fetches and finalizes the manifest with
	// TerminationDeadline.
	RunTimeout time.Duration

	// Concurrency is the size of the fetch worker pool.
	Concurrency int

	// OutputDir selects the recorder mode: empty means results are held
	// in memory and returned inline; non-empty means each page is written
	// under OutputDir/{run_id}/ and the manifest references the artifacts.
	OutputDir string
}

// Normalize fills in defaults for zero-valued fields.
// It does not touch fields that were set explicitly, including invalid
// ones; call Validate afterwards.
func (r *CrawlRequest) Normalize() {
	if r.MaxPages == 0 {
		r.MaxPages = DefaultMaxPages
	}
	if r.PageTimeout == 0 {
		r.PageTimeout = DefaultPageTimeout
	}
	if r.Concurrency == 0 {
		r.Concurrency = DefaultConcurrency
	}
	if r.Adaptive && r.AdaptiveThreshold == 0 {
		r.AdaptiveThreshold = DefaultAdaptiveThreshold
	}
}

// Validate checks the request for structural problems.
// It returns a sentinel error (see errors.go) so callers can distinguish
// validation failures from runtime failures; no frontier work happens for
// an invalid request.
func (r *CrawlRequest) Validate() error {
	if len(r.Seeds) == 0 {
		return ErrNoSeeds
	}
	if r.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if r.MaxPages < 1 {
		return ErrInvalidMaxPages
	}
	if r.PageTimeout <= 0 {
		return ErrInvalidPageTimeout
	}
	if r.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if r.AdaptiveThreshold < 0 {
		return ErrInvalidThreshold
	}

	// Patterns must compile; a silently dropped typo could widen the
	// crawl far beyond what the caller intended.
	for _, p := range r.IncludePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: include %q: %v", ErrInvalidPattern, p, err)
		}
	}
	for _, p := range r.ExcludePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: exclude %q: %v", ErrInvalidPattern, p, err)
		}
	}
	return nil
}

// Persisted reports whether the request asks for on-disk recording.
func (r *CrawlRequest) Persisted() bool {
	return r.OutputDir != ""
}
