package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/crawlbound/crawlbound/internal/model"
	"github.com/crawlbound/crawlbound/internal/recorder"
)

// sampleManifest builds a finalized manifest with one ok and one failed page.
func sampleManifest() *model.RunManifest {
	m := model.NewRunManifest("crawl_20260823_120000_abc123", []string{"https://example.com/"})
	m.AppendPage(&model.PageResult{
		URL:           "https://example.com/",
		Depth:         0,
		Status:        model.StatusOK,
		Content:       "# Example\n\nSome content.",
		Title:         "Example",
		ByteSize:      26,
		FetchDuration: 120 * time.Millisecond,
	})
	m.AppendPage(&model.PageResult{
		URL:     "https://example.com/broken",
		Depth:   1,
		Status:  model.StatusFailed,
		Failure: model.FailureFetch,
		Error:   "connection reset",
	})
	m.Finalize(model.TerminationFrontierExhausted)
	return m
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	n, err := w.Write(sampleManifest(), nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() returned %d bytes, buffer has %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"CRAWLBOUND RUN REPORT",
		"crawl_20260823_120000_abc123",
		"Pages OK:      1",
		"Pages failed:  1",
		"frontier exhausted",
		"[+] d0 https://example.com/",
		"[-] d1 https://example.com/broken (fetch_error)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "connection reset") {
		t.Error("error details should require verbose mode")
	}
}

func TestSimpleWriterVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf, WithVerbose(true))

	m := sampleManifest()
	receipt := &recorder.Receipt{
		RunID: m.RunID,
		Pages: []*model.PageResult{
			{URL: "https://example.com/", Status: model.StatusOK, Content: "# Example\n\nSome content."},
		},
	}

	if _, err := w.Write(m, receipt); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "connection reset") {
		t.Errorf("verbose output should include error details:\n%s", out)
	}
	if !strings.Contains(out, "CONTENT PREVIEW") || !strings.Contains(out, "Some content.") {
		t.Errorf("verbose ephemeral output should preview content:\n%s", out)
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())

	m := sampleManifest()
	receipt := &recorder.Receipt{RunID: m.RunID, ManifestPath: "/data/run/manifest.json"}

	if _, err := w.Write(m, receipt); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded JSONReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Manifest.RunID != m.RunID {
		t.Errorf("run_id = %q, want %q", decoded.Manifest.RunID, m.RunID)
	}
	if decoded.ManifestPath != "/data/run/manifest.json" {
		t.Errorf("manifest_path = %q", decoded.ManifestPath)
	}
	if len(decoded.Manifest.Pages) != 2 {
		t.Errorf("pages = %d, want 2", len(decoded.Manifest.Pages))
	}
}

func TestJSONWriterCompact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	if _, err := w.Write(sampleManifest(), nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("compact output should be a single line:\n%s", buf.String())
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(sampleManifest(), nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Crawl Run Report",
		"`crawl_20260823_120000_abc123`",
		"## Seeds",
		"## Pages",
		"pie",
		"fetch_error",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

	n, err := mw.Write(sampleManifest(), nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("both writers should receive output")
	}
	if n != a.Len()+b.Len() {
		t.Errorf("total bytes = %d, want %d", n, a.Len()+b.Len())
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
