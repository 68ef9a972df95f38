package report

import (
	"encoding/json"
	"io"

	"github.com/crawlbound/crawlbound/internal/model"
	"github.com/crawlbound/crawlbound/internal/recorder"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic
// processing; the payload is the manifest itself, so a consumer of the
// report sees exactly what a consumer of the run directory would.
//
// Design decision: Standard encoding/json rather than a third-party
// JSON library. It is part of the standard library, sufficient for our
// needs, and behaves consistently across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix and indentString configure indented output.
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used per level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the manifest in JSON format, wrapped with run metadata.
func (w *JSONWriter) Write(m *model.RunManifest, r *recorder.Receipt) (int, error) {
	wrapped := &JSONReport{Manifest: m}
	if r != nil {
		wrapped.ManifestPath = r.ManifestPath
	}
	return w.writeJSON(wrapped)
}

// writeJSON marshals the value and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output.
	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps the manifest with output-specific metadata.
//
// Design decision: A wrapper rather than extra fields on RunManifest,
// because the manifest on disk must stay identical to the manifest in
// the report; output-only fields do not belong in the core structure.
type JSONReport struct {
	// Manifest is the finalized run manifest.
	Manifest *model.RunManifest `json:"manifest"`

	// ManifestPath is where the manifest was persisted, when it was.
	ManifestPath string `json:"manifest_path,omitempty"`
}
