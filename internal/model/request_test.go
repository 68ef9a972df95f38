package model

import (
	"errors"
	"testing"
	"time"
)

// validRequest returns a minimal request that passes validation.
func validRequest() CrawlRequest {
	return CrawlRequest{
		Seeds:       []string{"https://example.com"},
		MaxDepth:    1,
		MaxPages:    5,
		PageTimeout: 10 * time.Second,
		Concurrency: 2,
	}
}

func TestCrawlRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*CrawlRequest)
		wantErr error
	}{
		{
			name:    "valid request passes",
			mutate:  func(r *CrawlRequest) {},
			wantErr: nil,
		},
		{
			name:    "no seeds",
			mutate:  func(r *CrawlRequest) { r.Seeds = nil },
			wantErr: ErrNoSeeds,
		},
		{
			name:    "negative max depth",
			mutate:  func(r *CrawlRequest) { r.MaxDepth = -1 },
			wantErr: ErrInvalidMaxDepth,
		},
		{
			name:    "zero max pages",
			mutate:  func(r *CrawlRequest) { r.MaxPages = 0 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "zero page timeout",
			mutate:  func(r *CrawlRequest) { r.PageTimeout = 0 },
			wantErr: ErrInvalidPageTimeout,
		},
		{
			name:    "zero concurrency",
			mutate:  func(r *CrawlRequest) { r.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "negative adaptive threshold",
			mutate:  func(r *CrawlRequest) { r.AdaptiveThreshold = -1 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "broken include pattern",
			mutate:  func(r *CrawlRequest) { r.IncludePatterns = []string{"("} },
			wantErr: ErrInvalidPattern,
		},
		{
			name:    "broken exclude pattern",
			mutate:  func(r *CrawlRequest) { r.ExcludePatterns = []string{"[z-a]"} },
			wantErr: ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCrawlRequestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults for zero values", func(t *testing.T) {
		t.Parallel()

		req := CrawlRequest{Seeds: []string{"https://example.com"}, Adaptive: true}
		req.Normalize()

		if req.MaxDepth != 0 {
			t.Errorf("depth 0 means seeds only and must survive Normalize, got %d", req.MaxDepth)
		}
		if req.MaxPages != DefaultMaxPages {
			t.Errorf("expected max pages %d, got %d", DefaultMaxPages, req.MaxPages)
		}
		if req.PageTimeout != DefaultPageTimeout {
			t.Errorf("expected page timeout %v, got %v", DefaultPageTimeout, req.PageTimeout)
		}
		if req.Concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, req.Concurrency)
		}
		if req.AdaptiveThreshold != DefaultAdaptiveThreshold {
			t.Errorf("expected threshold %d, got %d", DefaultAdaptiveThreshold, req.AdaptiveThreshold)
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		t.Parallel()

		req := validRequest()
		req.MaxPages = 3
		req.Normalize()

		if req.MaxPages != 3 {
			t.Errorf("expected max pages 3, got %d", req.MaxPages)
		}
	})

	t.Run("threshold untouched when adaptive is off", func(t *testing.T) {
		t.Parallel()

		req := validRequest()
		req.Normalize()

		if req.AdaptiveThreshold != 0 {
			t.Errorf("expected threshold 0, got %d", req.AdaptiveThreshold)
		}
	})
}

func TestCrawlRequestPersisted(t *testing.T) {
	t.Parallel()

	req := validRequest()
	if req.Persisted() {
		t.Error("request without output dir should be ephemeral")
	}

	req.OutputDir = "/tmp/out"
	if !req.Persisted() {
		t.Error("request with output dir should be persisted")
	}
}
