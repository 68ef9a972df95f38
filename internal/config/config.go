package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/crawlbound/crawlbound/internal/model"
)

// Renderer selects the fetch backend.
const (
	// RendererHTTP fetches pages with a plain HTTP client. Fast and
	// dependency-free, but JavaScript-rendered content is invisible.
	RendererHTTP = "http"

	// RendererChrome fetches pages through a headless Chrome instance,
	// so client-rendered pages come back with their real content. Needs
	// a Chrome or Chromium binary on the host.
	RendererChrome = "chrome"
)

// AppName is the application name used for XDG directory paths.
const AppName = "crawlbound"

// Config holds all options for one crawlbound invocation.
// It is populated from CLI flags and the optional .crawlbound file and
// passed through the application by dependency injection rather than
// global state.
//
// Design decision: A single flat struct instead of nested sub-structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// Seeds are the starting URLs for the crawl.
	Seeds []string

	// MaxDepth limits link-following distance from a seed.
	// 0 means only the seed pages themselves.
	MaxDepth int

	// MaxPages is the hard page budget for a run. It applies regardless
	// of adaptive stopping, so no strategy can make a run unbounded.
	MaxPages int

	// SameDomainOnly restricts the crawl to the seed hosts.
	SameDomainOnly bool

	// IncludePatterns and ExcludePatterns filter discovered links by
	// regular expression match against the full URL. Exclusion wins.
	IncludePatterns []string
	ExcludePatterns []string

	// Adaptive enables early termination once enough content has been
	// gathered; AdaptiveThreshold is the content budget in characters of
	// extracted text. Zero threshold means use the default.
	Adaptive          bool
	AdaptiveThreshold int

	// PageTimeout bounds a single fetch; RunTimeout, when positive,
	// bounds the whole run.
	PageTimeout time.Duration
	RunTimeout  time.Duration

	// Concurrency is the fetch worker pool size.
	Concurrency int

	// OutputDir selects persisted mode: each page is written under
	// OutputDir/{run_id}/ and the manifest references the artifacts.
	// Empty means results are held in memory and printed only.
	OutputDir string

	// Renderer picks the fetch backend, RendererHTTP or RendererChrome.
	Renderer string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// MaxBodySize caps the response body size in bytes. Responses larger
	// than this are truncated. Zero means use the fetcher default.
	MaxBodySize int64

	// Verbose enables debug-level log output. When false, only info and
	// above are logged.
	Verbose bool

	// JSONReport and MarkdownReport switch the report format away from
	// the human-readable default. Mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .crawlbound in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// Profiles holds per-host crawl profiles loaded from the config
	// file. Populated by LoadConfigFile.
	Profiles *File

	// DBDir is the directory for the run-history SQLite database.
	// When set, finished runs are indexed there for `crawlbound runs`.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to index finished runs in the database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: A constructor instead of relying on zero values,
// because several defaults are non-zero and the constructor doubles as
// documentation of what they are. Request-level defaults (depth, pages,
// timeouts) live in the model package so that library callers get the
// same values as the CLI.
func NewConfig() *Config {
	return &Config{
		MaxDepth:    model.DefaultMaxDepth,
		MaxPages:    model.DefaultMaxPages,
		PageTimeout: model.DefaultPageTimeout,
		Concurrency: model.DefaultConcurrency,
		Renderer:    RendererHTTP,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for crawlbound.
// On Linux: ~/.local/share/crawlbound
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for crawlbound.
// On Linux: ~/.config/crawlbound
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for crawlbound.
// On Linux: ~/.cache/crawlbound
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks the configuration for problems that belong to the
// CLI layer. Request-shape validation happens again in the model when
// the run starts; checking here fails fast with a clearer message.
//
// The first error found is returned rather than collecting all errors,
// because fixing one often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if c.Renderer != RendererHTTP && c.Renderer != RendererChrome {
		return ErrInvalidRenderer
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return c.ToRequest().Validate()
}

// ToRequest converts the configuration into a crawl request.
// Per-host profile overrides are not applied here; they affect fetch
// headers, which the CLI wires into the fetcher directly.
func (c *Config) ToRequest() *model.CrawlRequest {
	req := &model.CrawlRequest{
		Seeds:             c.Seeds,
		MaxDepth:          c.MaxDepth,
		MaxPages:          c.MaxPages,
		SameDomainOnly:    c.SameDomainOnly,
		IncludePatterns:   c.IncludePatterns,
		ExcludePatterns:   c.ExcludePatterns,
		Adaptive:          c.Adaptive,
		AdaptiveThreshold: c.AdaptiveThreshold,
		PageTimeout:       c.PageTimeout,
		RunTimeout:        c.RunTimeout,
		Concurrency:       c.Concurrency,
		OutputDir:         c.OutputDir,
	}
	req.Normalize()
	return req
}
