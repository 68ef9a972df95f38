package report

import (
	"io"

	"github.com/crawlbound/crawlbound/internal/model"
	"github.com/crawlbound/crawlbound/internal/recorder"
)

// Writer defines the interface for run report output.
// Implementations render a finalized manifest in a specific format.
//
// Design decision: An interface so different formats and destinations
// share one API. The receipt is passed alongside the manifest because
// it carries what the manifest deliberately does not: inline page
// content for ephemeral runs and the manifest location for persisted
// ones. A nil receipt is valid and simply omits that information.
type Writer interface {
	// Write renders the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(m *model.RunManifest, r *recorder.Receipt) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// Useful for outputting to both terminal and file.
//
// Design decision: A separate type rather than io.MultiWriter because
// our Writer interface writes reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report through every configured Writer.
// Returns the total bytes written; stops on the first error.
func (m *MultiWriter) Write(manifest *model.RunManifest, r *recorder.Receipt) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(manifest, r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
