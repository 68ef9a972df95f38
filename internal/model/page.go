package model

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// PageStatus indicates the outcome of a single page fetch.
type PageStatus string

const (
	// StatusOK means the page was fetched and its content extracted.
	StatusOK PageStatus = "ok"

	// StatusFailed means the fetch or extraction failed. The page is
	// still recorded, with Failure describing what went wrong.
	StatusFailed PageStatus = "failed"
)

// FailureKind classifies why a page failed.
// Per-page failures never abort a run; the kind is recorded so the
// manifest stays auditable.
type FailureKind string

const (
	// FailureSafetyDenied marks a URL rejected by the safety gate.
	// Denied URLs are never fetched and never retried.
	FailureSafetyDenied FailureKind = "safety_denied"

	// FailureTimeout marks a fetch that exceeded the per-page deadline.
	FailureTimeout FailureKind = "fetch_timeout"

	// FailureFetch marks any other network or rendering failure.
	FailureFetch FailureKind = "fetch_error"
)

// PageResult is the immutable record of one dispatched fetch.
// It is produced by a fetch worker, handed to the orchestrator loop for
// integration, and owned by the run recorder afterwards.
type PageResult struct {
	// URL is the fetched URL as it was dispatched (post-normalization).
	URL string `json:"url"`

	// Depth is the link distance from the seed that discovered this page.
	Depth int `json:"depth"`

	// Status is ok or failed.
	Status PageStatus `json:"status"`

	// Content is the extracted text (markdown) of the page.
	// Empty for failed pages.
	Content string `json:"content,omitempty"`

	// Title is the page title, when the extractor found one.
	Title string `json:"title,omitempty"`

	// Links are the absolute URLs discovered on the page.
	Links []string `json:"links,omitempty"`

	// ByteSize is the size of the extracted content in bytes.
	ByteSize int `json:"byte_size"`

	// FetchDuration is the wall-clock time of the fetch, including
	// rendering when a rendering fetcher is in use.
	FetchDuration time.Duration `json:"fetch_duration"`

	// ContentHash is the BLAKE2b-256 hash of the extracted content,
	// hex encoded. Used for change detection between runs.
	ContentHash string `json:"content_hash,omitempty"`

	// ArtifactPath is where the recorder stored the page content,
	// relative to the run directory. Empty for ephemeral runs and for
	// failed pages.
	ArtifactPath string `json:"artifact_path,omitempty"`

	// Failure classifies the error for failed pages.
	Failure FailureKind `json:"failure,omitempty"`

	// Error is the human-readable error message for failed pages.
	Error string `json:"error,omitempty"`
}

// ComputeHash calculates and sets the BLAKE2b-256 hash of the content.
// Call after setting Content; failed pages keep an empty hash.
func (p *PageResult) ComputeHash() {
	if p.Content == "" {
		p.ContentHash = ""
		return
	}
	sum := blake2b.Sum256([]byte(p.Content))
	p.ContentHash = hex.EncodeToString(sum[:])
}

// Summary converts the result into the compact form stored in the
// manifest. Content is deliberately not carried over: in persisted mode
// it lives in the page artifact, and duplicating it into the manifest
// would double the on-disk footprint.
func (p *PageResult) Summary() PageSummary {
	return PageSummary{
		URL:          p.URL,
		Depth:        p.Depth,
		Status:       p.Status,
		Title:        p.Title,
		ByteSize:     p.ByteSize,
		DurationMS:   p.FetchDuration.Milliseconds(),
		LinkCount:    len(p.Links),
		ContentHash:  p.ContentHash,
		ArtifactPath: p.ArtifactPath,
		Failure:      p.Failure,
		Error:        p.Error,
	}
}
