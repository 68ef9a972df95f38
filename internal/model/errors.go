package model

import "errors"

// Request validation errors.
// These errors are returned by CrawlRequest.Validate() and provide specific
// information about what is wrong with the request.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoSeeds is returned when the request contains no seed URLs.
	// A crawl cannot start without at least one entry point.
	ErrNoSeeds = errors.New("no seed URLs: provide at least one starting URL")

	// ErrInvalidMaxDepth is returned when max depth is negative.
	// Depth 0 is valid and means "fetch only the seed pages".
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be zero or positive")

	// ErrInvalidMaxPages is returned when max pages is less than one.
	// A page budget of zero would make every run terminate immediately.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be at least 1")

	// ErrInvalidPageTimeout is returned when the per-page timeout is not
	// positive. A zero timeout would cancel every fetch before it starts.
	ErrInvalidPageTimeout = errors.New("invalid page timeout: must be positive")

	// ErrInvalidConcurrency is returned when the fetch concurrency is less
	// than one. At least one worker is needed to make progress.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrInvalidThreshold is returned when the adaptive content threshold
	// is negative. Zero disables the budget check even in adaptive mode.
	ErrInvalidThreshold = errors.New("invalid adaptive threshold: must be non-negative")

	// ErrInvalidPattern is returned (wrapped) when an include or exclude
	// pattern does not compile as a regular expression. Invalid patterns
	// are rejected rather than silently skipped so that a typo cannot
	// silently widen or narrow a crawl.
	ErrInvalidPattern = errors.New("invalid URL pattern")
)
