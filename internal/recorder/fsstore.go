package recorder

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crawlbound/crawlbound/internal/model"
)

// Run directory layout. One directory per run under the store's base:
//
//	{run_id}/manifest.json   run summary, written last
//	{run_id}/pages/*.md      one content artifact per successful page
//	{run_id}/links.csv       (page_url, link) rows
//	{run_id}/log.jsonl       per-page event stream
const (
	pagesDirName    = "pages"
	manifestName    = "manifest.json"
	linksName       = "links.csv"
	eventLogName    = "log.jsonl"
	runDirPerm      = 0o750
	artifactPerm    = 0o640
	maxNameAttempts = 10000
)

// FSStore persists run records as plain files.
//
// Design decision: Page artifacts are individual markdown files rather
// than rows in a database because the run directory is meant to be
// browsed and consumed directly (grep, editors, downstream tooling).
// The manifest carries the structure; the files carry the bulk.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a store rooted at baseDir.
// The directory is created on first write, not here, so constructing a
// store for a run that ends up recording nothing leaves no trace.
func NewFSStore(baseDir string) *FSStore {
	return &FSStore{baseDir: baseDir}
}

// RunDir returns the directory for a run.
func (s *FSStore) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// WriteContent writes one page artifact and returns its path relative to
// the run directory. Name collisions (distinct URLs flattening to the
// same slug) get a numeric suffix.
func (s *FSStore) WriteContent(runID, pageURL, content string) (string, error) {
	pagesDir := filepath.Join(s.RunDir(runID), pagesDirName)
	if err := os.MkdirAll(pagesDir, runDirPerm); err != nil {
		return "", fmt.Errorf("create pages dir: %w", err)
	}

	base := pageSlug(pageURL)
	name := base + ".md"
	for i := 1; i < maxNameAttempts; i++ {
		if _, err := os.Stat(filepath.Join(pagesDir, name)); os.IsNotExist(err) {
			break
		}
		name = fmt.Sprintf("%s-%d.md", base, i)
	}

	if err := os.WriteFile(filepath.Join(pagesDir, name), []byte(content), artifactPerm); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return filepath.Join(pagesDirName, name), nil
}

// AppendLinks appends (page_url, link) rows to the run's links.csv,
// writing the header when the file is new.
func (s *FSStore) AppendLinks(runID, pageURL string, links []string) error {
	if err := os.MkdirAll(s.RunDir(runID), runDirPerm); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	path := filepath.Join(s.RunDir(runID), linksName)
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, artifactPerm)
	if err != nil {
		return fmt.Errorf("open links file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write([]string{"page_url", "link"}); err != nil {
			return err
		}
	}
	for _, link := range links {
		if err := w.Write([]string{pageURL, link}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// AppendEvent appends one JSON line to the run's event stream.
func (s *FSStore) AppendEvent(runID string, ev Event) error {
	if err := os.MkdirAll(s.RunDir(runID), runDirPerm); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(s.RunDir(runID), eventLogName),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, artifactPerm)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// WriteManifest writes the manifest via a temp file and an atomic rename.
// Readers therefore see either no manifest or a complete one — a partial
// manifest referencing half-written state cannot be observed.
func (s *FSStore) WriteManifest(runID string, m *model.RunManifest) (string, error) {
	runDir := s.RunDir(runID)
	if err := os.MkdirAll(runDir, runDirPerm); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}

	tmp, err := os.CreateTemp(runDir, manifestName+".tmp*")
	if err != nil {
		return "", fmt.Errorf("create temp manifest: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp manifest: %w", err)
	}

	path := filepath.Join(runDir, manifestName)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest back from a run directory.
// Used by the CLI to re-display past runs and by round-trip tests.
func ReadManifest(path string) (*model.RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m model.RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
