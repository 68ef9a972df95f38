package model

import (
	"strings"
	"testing"
	"time"
)

func TestNewRunID(t *testing.T) {
	t.Parallel()

	t.Run("has mode, timestamp, and suffix", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
		id := NewRunID("crawl", now)

		parts := strings.Split(id, "_")
		if len(parts) != 4 {
			t.Fatalf("expected 4 underscore-separated parts, got %d: %q", len(parts), id)
		}
		if parts[0] != "crawl" {
			t.Errorf("expected mode prefix 'crawl', got %q", parts[0])
		}
		if parts[1] != "20250314" || parts[2] != "150926" {
			t.Errorf("unexpected timestamp in %q", id)
		}
		if len(parts[3]) != 6 {
			t.Errorf("expected 6-character suffix, got %q", parts[3])
		}
	})

	t.Run("unique across calls", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		seen := make(map[string]bool)
		for range 50 {
			id := NewRunID("crawl", now)
			if seen[id] {
				t.Fatalf("duplicate run ID: %s", id)
			}
			seen[id] = true
		}
	})
}

func TestRunManifestAppendPage(t *testing.T) {
	t.Parallel()

	m := NewRunManifest("crawl_20250314_150926_abc123", []string{"https://example.com"})

	ok := &PageResult{
		URL:      "https://example.com",
		Status:   StatusOK,
		Content:  "hello world",
		ByteSize: 11,
	}
	ok.ComputeHash()
	m.AppendPage(ok)

	failed := &PageResult{
		URL:     "https://example.com/missing",
		Status:  StatusFailed,
		Failure: FailureFetch,
		Error:   "connection refused",
	}
	m.AppendPage(failed)

	if m.PagesOK != 1 {
		t.Errorf("expected 1 ok page, got %d", m.PagesOK)
	}
	if m.PagesFailed != 1 {
		t.Errorf("expected 1 failed page, got %d", m.PagesFailed)
	}
	if m.TotalBytes != 11 {
		t.Errorf("expected 11 total bytes, got %d", m.TotalBytes)
	}
	if len(m.Pages) != 2 {
		t.Fatalf("expected 2 page summaries, got %d", len(m.Pages))
	}
	if m.Pages[0].ContentHash == "" {
		t.Error("ok page summary should carry the content hash")
	}
	if m.Pages[1].Failure != FailureFetch {
		t.Errorf("expected failure kind %q, got %q", FailureFetch, m.Pages[1].Failure)
	}
}

func TestRunManifestFinalize(t *testing.T) {
	t.Parallel()

	m := NewRunManifest("crawl_x", []string{"https://example.com"})
	if m.Duration() != 0 {
		t.Error("duration should be zero before finalize")
	}

	m.Finalize(TerminationFrontierExhausted)

	if m.FinishedAt.IsZero() {
		t.Error("finalize should set the finish time")
	}
	if m.TerminationReason != TerminationFrontierExhausted {
		t.Errorf("expected %q, got %q", TerminationFrontierExhausted, m.TerminationReason)
	}
	if m.Duration() < 0 {
		t.Errorf("negative duration: %v", m.Duration())
	}
}

func TestPageResultComputeHash(t *testing.T) {
	t.Parallel()

	a := &PageResult{Content: "same content"}
	b := &PageResult{Content: "same content"}
	c := &PageResult{Content: "different content"}
	a.ComputeHash()
	b.ComputeHash()
	c.ComputeHash()

	if a.ContentHash == "" {
		t.Fatal("hash should not be empty for non-empty content")
	}
	if a.ContentHash != b.ContentHash {
		t.Error("identical content should hash identically")
	}
	if a.ContentHash == c.ContentHash {
		t.Error("different content should hash differently")
	}

	empty := &PageResult{}
	empty.ComputeHash()
	if empty.ContentHash != "" {
		t.Error("empty content should produce empty hash")
	}
}
