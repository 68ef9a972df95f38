package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/crawlbound/crawlbound/internal/model"
	"github.com/crawlbound/crawlbound/internal/recorder"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: Plain text with ASCII formatting rather than ANSI
// colors, because it works in all terminals and pipes cleanly to files
// and other tools. Color can be added as an option later if needed.
type SimpleWriter struct {
	baseWriter

	// verbose adds per-page error details and, for ephemeral runs,
	// a short content preview of each page.
	verbose bool

	// previewLen is the maximum preview length in verbose mode.
	previewLen int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-page details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		previewLen: 200,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the run report in human-readable format.
func (w *SimpleWriter) Write(m *model.RunManifest, r *recorder.Receipt) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, m)
	w.writeTotals(&sb, m, r)
	w.writePages(&sb, m, r)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, m *model.RunManifest) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        CRAWLBOUND RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Run ID:      %s\n", m.RunID))
	sb.WriteString(fmt.Sprintf("Seeds:       %s\n", strings.Join(m.Seeds, ", ")))
	sb.WriteString(fmt.Sprintf("Started:     %s\n", m.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:    %s\n", m.Duration().Round(timeRounding)))
	sb.WriteString(fmt.Sprintf("Terminated:  %s\n", terminationText(m.TerminationReason)))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeTotals(sb *strings.Builder, m *model.RunManifest, r *recorder.Receipt) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TOTALS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Pages OK:      %d\n", m.PagesOK))
	sb.WriteString(fmt.Sprintf("  Pages failed:  %d\n", m.PagesFailed))
	sb.WriteString(fmt.Sprintf("  Content size:  %s\n", formatBytes(m.TotalBytes)))

	if r != nil && r.ManifestPath != "" {
		sb.WriteString(fmt.Sprintf("  Manifest:      %s\n", r.ManifestPath))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writePages(sb *strings.Builder, m *model.RunManifest, r *recorder.Receipt) {
	if len(m.Pages) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, p := range m.Pages {
		if p.Status == model.StatusOK {
			sb.WriteString(fmt.Sprintf("  [+] d%d %s (%s)\n", p.Depth, p.URL, formatBytes(int64(p.ByteSize))))
			if p.ArtifactPath != "" {
				sb.WriteString(fmt.Sprintf("      saved: %s\n", p.ArtifactPath))
			}
		} else {
			sb.WriteString(fmt.Sprintf("  [-] d%d %s (%s)\n", p.Depth, p.URL, p.Failure))
			if w.verbose && p.Error != "" {
				sb.WriteString(fmt.Sprintf("      error: %s\n", p.Error))
			}
		}
	}
	sb.WriteString("\n")

	if w.verbose && r != nil && len(r.Pages) > 0 {
		w.writePreviews(sb, r)
	}
}

// writePreviews prints the first lines of each page's content.
// Only ephemeral runs carry content in the receipt.
func (w *SimpleWriter) writePreviews(sb *strings.Builder, r *recorder.Receipt) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CONTENT PREVIEW\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, p := range r.Pages {
		if p.Status != model.StatusOK {
			continue
		}
		sb.WriteString(fmt.Sprintf("--- %s ---\n", p.URL))
		sb.WriteString(preview(p.Content, w.previewLen))
		sb.WriteString("\n\n")
	}
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by crawlbound\n")
	sb.WriteString("https://github.com/crawlbound/crawlbound\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
