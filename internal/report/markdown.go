package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/crawlbound/crawlbound/internal/model"
	"github.com/crawlbound/crawlbound/internal/recorder"
)

// MarkdownWriter outputs run reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation: type-safe construction, tables and code blocks,
// and GitHub-flavored alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the run report in Markdown.
func (w *MarkdownWriter) Write(m *model.RunManifest, r *recorder.Receipt) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, m, r)
	w.writeOutcome(md, m)
	w.writePages(md, m)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, m *model.RunManifest, r *recorder.Receipt) {
	md.H1("Crawl Run Report")
	md.PlainText("")

	rows := [][]string{
		{"Run ID", "`" + m.RunID + "`"},
		{"Started", m.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Duration", m.Duration().Round(timeRounding).String()},
		{"Pages OK", strconv.Itoa(m.PagesOK)},
		{"Pages failed", strconv.Itoa(m.PagesFailed)},
		{"Content size", formatBytes(m.TotalBytes)},
		{"Terminated", terminationText(m.TerminationReason)},
	}
	if r != nil && r.ManifestPath != "" {
		rows = append(rows, []string{"Manifest", "`" + r.ManifestPath + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	md.H2("Seeds")
	md.PlainText("")
	md.BulletList(m.Seeds...)
	md.PlainText("")
}

// writeOutcome adds an alert summarizing how the run went, plus a
// pie chart of page outcomes when there were any pages.
func (w *MarkdownWriter) writeOutcome(md *markdown.Markdown, m *model.RunManifest) {
	switch {
	case m.TerminationReason == model.TerminationDeadline,
		m.TerminationReason == model.TerminationCancelled:
		md.Warningf("Run ended early (%s); results are partial.", m.TerminationReason)
	case m.PagesOK == 0 && m.PagesFailed > 0:
		md.Cautionf("Every page failed (%d failure(s)); check the per-page errors below.", m.PagesFailed)
	case m.PagesFailed > 0:
		md.Note(fmt.Sprintf("%d page(s) failed; see the page table for details.", m.PagesFailed))
	default:
		md.Tip("All pages fetched successfully.")
	}
	md.PlainText("")

	if m.PagesOK+m.PagesFailed == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Outcomes"),
		piechart.WithShowData(true),
	)
	if m.PagesOK > 0 {
		chart.LabelAndIntValue("OK", uint64(m.PagesOK))
	}
	if m.PagesFailed > 0 {
		chart.LabelAndIntValue("Failed", uint64(m.PagesFailed))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, m *model.RunManifest) {
	md.H2("Pages")
	md.PlainText("")

	if len(m.Pages) == 0 {
		md.PlainText("No pages were recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(m.Pages))
	for i, p := range m.Pages {
		status := "✅"
		detail := formatBytes(int64(p.ByteSize))
		if p.Status == model.StatusFailed {
			status = "❌ " + string(p.Failure)
			detail = truncateString(p.Error, 60)
		}
		rows[i] = []string{
			truncateString(p.URL, 60),
			strconv.Itoa(p.Depth),
			status,
			detail,
			strconv.FormatInt(p.DurationMS, 10) + " ms",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Depth", "Status", "Size / Error", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [crawlbound](https://github.com/crawlbound/crawlbound)*")
}
