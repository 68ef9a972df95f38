package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/crawlbound/crawlbound/internal/adaptive"
	"github.com/crawlbound/crawlbound/internal/config"
	"github.com/crawlbound/crawlbound/internal/crawler"
	"github.com/crawlbound/crawlbound/internal/database"
	"github.com/crawlbound/crawlbound/internal/fetch"
	"github.com/crawlbound/crawlbound/internal/log"
	"github.com/crawlbound/crawlbound/internal/model"
	"github.com/crawlbound/crawlbound/internal/recorder"
	"github.com/crawlbound/crawlbound/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url> [url...]",
		Short: "Crawl one or more seed URLs within hard budgets",
		Long: `Crawl fetches the given seed URLs and follows links up to the
configured depth and page budgets. Every URL passes a safety gate
before any network access: non-http(s) schemes, localhost, private IP
ranges, and internal DNS suffixes are refused.

Without --output, results are held in memory and printed. With
--output, each page is saved as a markdown file under
OUTPUT/{run_id}/pages/ and a manifest.json records the whole run.

Examples:
  # Crawl a site one level deep, print the report
  crawlbound crawl https://example.com

  # Persist pages and manifest under ./runs
  crawlbound crawl --output ./runs --depth 2 https://example.com

  # Stop early once ~5000 characters of content are gathered
  crawlbound crawl --adaptive https://example.com

  # Render JavaScript-heavy pages in headless Chrome
  crawlbound crawl --renderer chrome https://app.example.com

  # Stay on the seed's domain and skip binary-looking paths
  crawlbound crawl --same-domain --exclude '\.(zip|pdf)$' https://example.com

Configuration file (.crawlbound) example:
  hosts:
    docs.example.com:
      depth: 3
      headers:
        Authorization: "Bearer token"
      excludePatterns:
        - "/archive/"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl bounds
	cmd.Flags().IntP("depth", "d", model.DefaultMaxDepth,
		"Maximum link-following depth (0 = seeds only)")
	cmd.Flags().IntP("max-pages", "p", model.DefaultMaxPages,
		"Hard page budget for the run")
	cmd.Flags().BoolP("same-domain", "s", false,
		"Only follow links on the seed domains")
	cmd.Flags().StringSlice("include", nil,
		"Only follow links matching these regular expressions")
	cmd.Flags().StringSlice("exclude", nil,
		"Never follow links matching these regular expressions")

	// Adaptive stopping
	cmd.Flags().BoolP("adaptive", "a", false,
		"Stop early once enough content has been gathered")
	cmd.Flags().Int("adaptive-threshold", 0,
		"Content budget in characters for adaptive stopping (default 5000)")
	cmd.Flags().StringP("query", "q", "",
		"Research question driving the crawl; sizes the adaptive budget")

	// Timing and concurrency
	cmd.Flags().DurationP("timeout", "t", model.DefaultPageTimeout,
		"Per-page fetch deadline")
	cmd.Flags().Duration("run-timeout", 0,
		"Deadline for the whole run (0 = unbounded)")
	cmd.Flags().IntP("workers", "w", model.DefaultConcurrency,
		"Number of concurrent fetches")

	// Fetch behavior
	cmd.Flags().StringP("renderer", "r", config.RendererHTTP,
		"Fetch backend: \"http\" or \"chrome\" (headless browser)")
	cmd.Flags().String("user-agent", "",
		"Override the User-Agent header")
	cmd.Flags().Int64("max-body-size", 0,
		"Response body cap in bytes (0 = default 5MB)")

	// Persistence
	cmd.Flags().StringP("output", "o", "",
		"Directory for run artifacts; empty keeps results in memory")
	cmd.Flags().Bool("no-db", false,
		"Do not index the finished run in the run database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .crawlbound in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the report to this file instead of stdout")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Cancel the run on interrupt so partial results still get finalized.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finalizing run...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Seeds = args

	var err error
	if cfg.MaxDepth, err = cmd.Flags().GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.SameDomainOnly, err = cmd.Flags().GetBool("same-domain"); err != nil {
		return nil, err
	}
	if cfg.IncludePatterns, err = cmd.Flags().GetStringSlice("include"); err != nil {
		return nil, err
	}
	if cfg.ExcludePatterns, err = cmd.Flags().GetStringSlice("exclude"); err != nil {
		return nil, err
	}
	if cfg.Adaptive, err = cmd.Flags().GetBool("adaptive"); err != nil {
		return nil, err
	}
	if cfg.AdaptiveThreshold, err = cmd.Flags().GetInt("adaptive-threshold"); err != nil {
		return nil, err
	}

	// A query sizes the adaptive budget unless an explicit threshold wins.
	query, err := cmd.Flags().GetString("query")
	if err != nil {
		return nil, err
	}
	if query != "" {
		cfg.Adaptive = true
		if cfg.AdaptiveThreshold == 0 {
			cfg.AdaptiveThreshold = int(adaptive.ThresholdForQuery(query))
		}
	}

	if cfg.PageTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.RunTimeout, err = cmd.Flags().GetDuration("run-timeout"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.Renderer, err = cmd.Flags().GetString("renderer"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	// Load per-host profiles. An explicitly specified file must exist;
	// an implicit lookup silently falls back to an empty profile set.
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicit:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.Profiles = &config.File{Hosts: make(map[string]config.HostProfile)}
	}

	applyHostProfile(cfg)
	return cfg, nil
}

// applyHostProfile merges the first seed host's profile into the config.
// Flags keep precedence for fields they set explicitly; profile depth and
// patterns extend the crawl request, and headers flow into the fetcher.
func applyHostProfile(cfg *config.Config) {
	if cfg.Profiles == nil || len(cfg.Seeds) == 0 {
		return
	}

	profile := cfg.Profiles.ProfileFor(seedHost(cfg.Seeds[0]))
	if profile.Depth > 0 && cfg.MaxDepth == model.DefaultMaxDepth {
		cfg.MaxDepth = profile.Depth
	}
	if profile.UserAgent != "" && cfg.UserAgent == "" {
		cfg.UserAgent = profile.UserAgent
	}
	cfg.IncludePatterns = append(cfg.IncludePatterns, profile.IncludePatterns...)
	cfg.ExcludePatterns = append(cfg.ExcludePatterns, profile.ExcludePatterns...)
}

// seedHost extracts the hostname of a seed URL, or "" if unparsable.
func seedHost(seed string) string {
	u, err := url.Parse(seed)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// setupLogger creates a structured logger based on verbosity.
// All output passes through the scrub handler so credentials embedded
// in URLs never reach the terminal or log files.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	text := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(log.NewScrubHandler(text))
}

// runCrawl executes the crawl run.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	runID := model.NewRunID("crawl", time.Now())

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	var rec recorder.Recorder
	if cfg.OutputDir != "" {
		rec = recorder.NewStoreRecorder(recorder.NewFSStore(cfg.OutputDir), runID)
	} else {
		rec = recorder.NewMemoryRecorder()
	}

	orch := crawler.New(fetcher, fetch.NewHTMLExtractor(),
		crawler.WithRunID(runID),
		crawler.WithRecorder(rec),
		crawler.WithLogger(logger),
	)

	fmt.Printf("Crawling %d seed(s) (run %s)...\n", len(cfg.Seeds), runID)
	start := time.Now()

	out, err := orch.Run(ctx, *cfg.ToRequest())
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	fmt.Printf("Run finished in %s (%d ok, %d failed)\n\n",
		time.Since(start).Round(time.Millisecond),
		out.Manifest.PagesOK, out.Manifest.PagesFailed)

	if err := outputReport(cfg, out.Manifest, out.Receipt); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if cfg.SaveToDB {
		if err := indexRun(ctx, cfg, out.Manifest, logger); err != nil {
			// The crawl itself succeeded; a broken index is worth a
			// warning, not a failed exit.
			logger.Warn("failed to index run", "run_id", runID, "error", err)
		}
	}
	return nil
}

// newFetcher builds the fetch adapter selected by the config.
func newFetcher(cfg *config.Config) (fetch.Fetcher, error) {
	headers := map[string]string{}
	if cfg.Profiles != nil && len(cfg.Seeds) > 0 {
		for k, v := range cfg.Profiles.ProfileFor(seedHost(cfg.Seeds[0])).Headers {
			headers[k] = v
		}
	}

	if cfg.Renderer == config.RendererChrome {
		opts := []fetch.ChromeOption{}
		if cfg.UserAgent != "" {
			opts = append(opts, fetch.WithChromeUserAgent(cfg.UserAgent))
		}
		f, err := fetch.NewChromeFetcher(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to start chrome renderer: %w", err)
		}
		return f, nil
	}

	opts := []fetch.HTTPOption{fetch.WithHeaders(headers)}
	if cfg.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(cfg.UserAgent))
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, fetch.WithMaxBodySize(cfg.MaxBodySize))
	}
	return fetch.NewHTTPFetcher(opts...), nil
}

// outputReport writes the run report in the requested format.
func outputReport(cfg *config.Config, m *model.RunManifest, r *recorder.Receipt) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(m, r)
	return err
}

// indexRun stores the finished run in the run database.
func indexRun(ctx context.Context, cfg *config.Config, m *model.RunManifest, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("open run database: %w", err)
	}
	defer db.Close()

	if err := db.InsertRun(ctx, m); err != nil {
		return err
	}
	logger.Info("run indexed", "run_id", m.RunID, "db_dir", cfg.DBDir)
	return nil
}
