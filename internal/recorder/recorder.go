package recorder

import (
	"fmt"
	"time"

	"github.com/crawlbound/crawlbound/internal/model"
)

// Event is one entry in a run's per-page event stream.
type Event struct {
	Time       time.Time         `json:"time"`
	URL        string            `json:"url"`
	Status     model.PageStatus  `json:"status"`
	Depth      int               `json:"depth"`
	ByteSize   int               `json:"byte_size"`
	DurationMS int64             `json:"duration_ms"`
	Failure    model.FailureKind `json:"failure,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Store is the persistence backend consumed by the persisted recorder.
// Implementations write page content, auxiliary streams, and finally the
// manifest for one run directory keyed by run ID.
type Store interface {
	// WriteContent persists one page's content and returns the artifact
	// path relative to the run directory.
	WriteContent(runID, pageURL, content string) (string, error)

	// AppendLinks records the links discovered on a page.
	AppendLinks(runID, pageURL string, links []string) error

	// AppendEvent appends to the run's event stream.
	AppendEvent(runID string, ev Event) error

	// WriteManifest persists the finalized manifest and returns its
	// absolute path. It must be the last write of the run: every
	// artifact the manifest references already exists when it lands.
	WriteManifest(runID string, m *model.RunManifest) (string, error)
}

// Receipt is what a run hands back to its caller after finalize.
// For ephemeral runs it carries the full page results; for persisted runs
// only locations and totals, never raw content.
type Receipt struct {
	// RunID identifies the run.
	RunID string

	// ManifestPath is the absolute path of the manifest file.
	// Empty for ephemeral runs.
	ManifestPath string

	// Pages holds the full page results. Only populated for ephemeral
	// runs; persisted runs expose content via artifacts instead.
	Pages []*model.PageResult

	// PagesOK, PagesFailed, and TotalBytes mirror the manifest totals.
	PagesOK     int
	PagesFailed int
	TotalBytes  int64
}

// Recorder accumulates page results and finalizes the run record.
//
// Record is called by the orchestrator loop for every page result, in
// completion order, before the result's summary is appended to the
// manifest. Errors from Record are run-level failures: once persistence
// is broken, manifest integrity can no longer be guaranteed.
type Recorder interface {
	// Record takes ownership of one page result. In persisted mode it
	// writes the content artifact and sets p.ArtifactPath.
	Record(p *model.PageResult) error

	// Finalize completes the run record for the finalized manifest.
	Finalize(m *model.RunManifest) (*Receipt, error)
}

// MemoryRecorder keeps everything in memory for ephemeral runs.
type MemoryRecorder struct {
	pages []*model.PageResult
}

// NewMemoryRecorder creates an ephemeral recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{pages: make([]*model.PageResult, 0)}
}

// Record appends the result to the in-memory page list.
func (r *MemoryRecorder) Record(p *model.PageResult) error {
	r.pages = append(r.pages, p)
	return nil
}

// Finalize returns the full results inline.
func (r *MemoryRecorder) Finalize(m *model.RunManifest) (*Receipt, error) {
	return &Receipt{
		RunID:       m.RunID,
		Pages:       r.pages,
		PagesOK:     m.PagesOK,
		PagesFailed: m.PagesFailed,
		TotalBytes:  m.TotalBytes,
	}, nil
}

// StoreRecorder streams page results to a persistence backend.
type StoreRecorder struct {
	store Store
	runID string
}

// NewStoreRecorder creates a persisted recorder for one run.
func NewStoreRecorder(store Store, runID string) *StoreRecorder {
	return &StoreRecorder{store: store, runID: runID}
}

// Record writes the page artifact (successful pages only), the page's
// links, and an event-stream entry. Content is written before the
// manifest ever references it, so a crash can leave an orphan artifact
// but never a manifest pointing at a missing one.
func (r *StoreRecorder) Record(p *model.PageResult) error {
	if p.Status == model.StatusOK {
		path, err := r.store.WriteContent(r.runID, p.URL, p.Content)
		if err != nil {
			return fmt.Errorf("write page content: %w", err)
		}
		p.ArtifactPath = path

		if len(p.Links) > 0 {
			if err := r.store.AppendLinks(r.runID, p.URL, p.Links); err != nil {
				return fmt.Errorf("append links: %w", err)
			}
		}
	}

	ev := Event{
		Time:       time.Now().UTC(),
		URL:        p.URL,
		Status:     p.Status,
		Depth:      p.Depth,
		ByteSize:   p.ByteSize,
		DurationMS: p.FetchDuration.Milliseconds(),
		Failure:    p.Failure,
		Error:      p.Error,
	}
	if err := r.store.AppendEvent(r.runID, ev); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Finalize writes the manifest last and returns its location with the
// aggregate counts. Raw content stays on disk.
func (r *StoreRecorder) Finalize(m *model.RunManifest) (*Receipt, error) {
	path, err := r.store.WriteManifest(r.runID, m)
	if err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return &Receipt{
		RunID:        m.RunID,
		ManifestPath: path,
		PagesOK:      m.PagesOK,
		PagesFailed:  m.PagesFailed,
		TotalBytes:   m.TotalBytes,
	}, nil
}
