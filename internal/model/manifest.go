package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the manifest format version. Bump when the JSON shape
// changes incompatibly so that readers of old run directories can detect
// the mismatch.
const SchemaVersion = "1.0"

// TerminationReason explains why a run ended.
type TerminationReason string

const (
	// TerminationFrontierExhausted means every reachable, admissible URL
	// was fetched before any limit was hit. Depth-limited runs fold into
	// this reason: a depth ceiling only stops new entries from being
	// enqueued, so the frontier simply drains.
	TerminationFrontierExhausted TerminationReason = "frontier_exhausted"

	// TerminationMaxPages means the page budget was spent.
	TerminationMaxPages TerminationReason = "max_pages_reached"

	// TerminationAdaptive means the adaptive stop strategy judged the
	// gathered content sufficient before any hard limit was reached.
	TerminationAdaptive TerminationReason = "adaptive_threshold"

	// TerminationDeadline means the run-level deadline expired. In-flight
	// fetches were cancelled and the manifest was finalized immediately.
	TerminationDeadline TerminationReason = "deadline_exceeded"

	// TerminationCancelled means the caller cancelled the run (for the
	// CLI, an interrupt signal). Like a deadline, it finalizes whatever
	// was recorded so far.
	TerminationCancelled TerminationReason = "cancelled"
)

// PageSummary is the per-page entry stored in the manifest.
// It carries metadata only; page content lives either in memory (ephemeral
// runs return it through the recorder) or in the page artifact on disk.
type PageSummary struct {
	URL          string      `json:"url"`
	Depth        int         `json:"depth"`
	Status       PageStatus  `json:"status"`
	Title        string      `json:"title,omitempty"`
	ByteSize     int         `json:"byte_size"`
	DurationMS   int64       `json:"duration_ms"`
	LinkCount    int         `json:"link_count"`
	ContentHash  string      `json:"content_hash,omitempty"`
	ArtifactPath string      `json:"artifact_path,omitempty"`
	Failure      FailureKind `json:"failure,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// RunManifest is the durable record of one crawl run.
// It is created at run start, mutated only by the orchestrator loop, and
// immutable once Finalize has been called.
type RunManifest struct {
	// SchemaVersion identifies the manifest format.
	SchemaVersion string `json:"schema_version"`

	// RunID uniquely identifies the run; see NewRunID for the format.
	RunID string `json:"run_id"`

	// Seeds are the starting URLs of the run.
	Seeds []string `json:"seeds"`

	// StartedAt and FinishedAt bound the run in wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// PagesOK and PagesFailed count recorded pages by outcome.
	PagesOK     int `json:"pages_ok"`
	PagesFailed int `json:"pages_failed"`

	// TotalBytes is the cumulative extracted content size across all
	// successful pages. This is the quantity adaptive stopping watches.
	TotalBytes int64 `json:"total_bytes"`

	// TerminationReason explains how the run ended.
	TerminationReason TerminationReason `json:"termination_reason,omitempty"`

	// Pages lists per-page summaries in completion order. With concurrent
	// fetching this may differ from dispatch order.
	Pages []PageSummary `json:"pages"`
}

// NewRunManifest creates a manifest for a run starting now.
func NewRunManifest(runID string, seeds []string) *RunManifest {
	return &RunManifest{
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Seeds:         seeds,
		StartedAt:     time.Now().UTC(),
		Pages:         make([]PageSummary, 0),
	}
}

// AppendPage records a page result's summary and updates the totals.
// Must only be called by the orchestrator loop (single-writer discipline).
func (m *RunManifest) AppendPage(p *PageResult) {
	m.Pages = append(m.Pages, p.Summary())
	switch p.Status {
	case StatusOK:
		m.PagesOK++
		m.TotalBytes += int64(p.ByteSize)
	default:
		m.PagesFailed++
	}
}

// Finalize stamps the end time and termination reason.
// The manifest must not be mutated after this call.
func (m *RunManifest) Finalize(reason TerminationReason) {
	m.FinishedAt = time.Now().UTC()
	m.TerminationReason = reason
}

// Duration returns the elapsed run time, or zero if not finalized.
func (m *RunManifest) Duration() time.Duration {
	if m.FinishedAt.IsZero() {
		return 0
	}
	return m.FinishedAt.Sub(m.StartedAt)
}

// NewRunID builds a unique run identifier of the form
// {mode}_{YYYYMMDD_HHMMSS}_{suffix}.
//
// The timestamp keeps run directories sortable by start time; the random
// suffix disambiguates runs started within the same second. Six hex
// characters of a UUID are plenty for that purpose.
func NewRunID(mode string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return mode + "_" + now.UTC().Format("20060102_150405") + "_" + suffix
}
