package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/crawlbound/crawlbound/internal/adaptive"
	"github.com/crawlbound/crawlbound/internal/fetch"
	"github.com/crawlbound/crawlbound/internal/frontier"
	"github.com/crawlbound/crawlbound/internal/model"
	"github.com/crawlbound/crawlbound/internal/recorder"
	"github.com/crawlbound/crawlbound/internal/safety"
)

// Outcome is the result of a completed run: the finalized manifest plus
// the recorder's receipt (inline pages for ephemeral runs, artifact
// locations for persisted ones).
type Outcome struct {
	Manifest *model.RunManifest
	Receipt  *recorder.Receipt
}

// Orchestrator drives a single crawl run.
//
// Design decision: One orchestrator per run, not a long-lived service.
// The fetcher it owns is torn down when Run returns, and the recorder is
// bound to one run ID, so reusing an instance would silently mix runs.
// Constructing a fresh one is cheap and keeps every run's state isolated.
type Orchestrator struct {
	fetcher   fetch.Fetcher
	extractor fetch.Extractor
	gate      *safety.Gate
	strategy  adaptive.Strategy
	rec       recorder.Recorder
	runID     string
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithGate replaces the default safety gate.
func WithGate(g *safety.Gate) Option {
	return func(o *Orchestrator) { o.gate = g }
}

// WithStrategy replaces the stop strategy derived from the request.
func WithStrategy(s adaptive.Strategy) Option {
	return func(o *Orchestrator) { o.strategy = s }
}

// WithRecorder sets the run recorder. Defaults to an in-memory recorder.
func WithRecorder(r recorder.Recorder) Option {
	return func(o *Orchestrator) { o.rec = r }
}

// WithRunID fixes the run identifier instead of generating one.
// Callers that create a persisted recorder need the ID up front.
func WithRunID(id string) Option {
	return func(o *Orchestrator) { o.runID = id }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an orchestrator for one run.
// The orchestrator takes ownership of the fetcher and closes it when Run
// returns, on every exit path.
func New(fetcher fetch.Fetcher, extractor fetch.Extractor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:   fetcher,
		extractor: extractor,
		gate:      safety.NewGate(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rec == nil {
		o.rec = recorder.NewMemoryRecorder()
	}
	if o.runID == "" {
		o.runID = model.NewRunID("crawl", time.Now())
	}
	return o
}

// runState is the loop-local mutable state of one run. Only the Run
// goroutine touches it; fetch workers communicate through the results
// channel.
type runState struct {
	req       model.CrawlRequest
	front     *frontier.Frontier
	manifest  *model.RunManifest
	strategy  adaptive.Strategy
	seedHosts map[string]bool
	include   []*regexp.Regexp
	exclude   []*regexp.Regexp

	// dispatched counts budget-consuming pages: every fetch handed to a
	// worker plus every seed denial recorded as a failed page. It is
	// compared against MaxPages before each dispatch.
	dispatched int

	// stopReason is set the moment a termination condition fires; no new
	// work is dispatched afterwards.
	stopReason model.TerminationReason
}

// Run executes the crawl described by req and returns the finalized
// manifest together with the recorder's receipt.
//
// Invalid requests fail before any frontier or network work, with no
// manifest created. Per-page failures are absorbed into the manifest as
// failed page records; the only mid-run error that aborts a run is a
// recorder write failure, since a broken recorder can no longer uphold
// the content-before-manifest guarantee.
func (o *Orchestrator) Run(ctx context.Context, req model.CrawlRequest) (*Outcome, error) {
	defer o.fetcher.Close()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	st, err := o.admitSeeds(req)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if req.RunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, req.RunTimeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	o.logger.Info("run started",
		"run_id", o.runID,
		"seeds", len(req.Seeds),
		"max_depth", req.MaxDepth,
		"max_pages", req.MaxPages,
		"adaptive", req.Adaptive)

	if err := o.loop(runCtx, cancel, st); err != nil {
		return nil, err
	}

	st.manifest.Finalize(st.stopReason)
	receipt, err := o.rec.Finalize(st.manifest)
	if err != nil {
		return nil, fmt.Errorf("finalize run %s: %w", o.runID, err)
	}

	o.logger.Info("run finished",
		"run_id", o.runID,
		"pages_ok", st.manifest.PagesOK,
		"pages_failed", st.manifest.PagesFailed,
		"total_bytes", st.manifest.TotalBytes,
		"reason", st.manifest.TerminationReason)

	return &Outcome{Manifest: st.manifest, Receipt: receipt}, nil
}

// admitSeeds gates every seed and builds the initial run state.
// A request whose seeds are all denied is rejected outright; with at
// least one admissible seed, each denied seed becomes a failed page
// record and the run proceeds on the allowed subset.
func (o *Orchestrator) admitSeeds(req model.CrawlRequest) (*runState, error) {
	verdicts := make([]safety.Verdict, len(req.Seeds))
	admitted := 0
	for i, seed := range req.Seeds {
		verdicts[i] = o.gate.Check(seed)
		if verdicts[i].Allowed {
			admitted++
		}
	}
	if admitted == 0 {
		return nil, fmt.Errorf("%w: %d seed(s) checked", ErrAllSeedsDenied, len(req.Seeds))
	}

	st := &runState{
		req:       req,
		front:     frontier.New(),
		manifest:  model.NewRunManifest(o.runID, req.Seeds),
		strategy:  o.strategy,
		seedHosts: make(map[string]bool),
	}
	if st.strategy == nil {
		if req.Adaptive {
			st.strategy = adaptive.NewContentBudget(int64(req.AdaptiveThreshold))
		} else {
			st.strategy = adaptive.Unlimited{}
		}
	}
	// Validate has already compiled these once; keeping the compiled
	// forms avoids recompiling per frontier entry.
	for _, p := range req.IncludePatterns {
		st.include = append(st.include, regexp.MustCompile(p))
	}
	for _, p := range req.ExcludePatterns {
		st.exclude = append(st.exclude, regexp.MustCompile(p))
	}

	for i, seed := range req.Seeds {
		if !verdicts[i].Allowed {
			res := &model.PageResult{
				URL:     seed,
				Status:  model.StatusFailed,
				Failure: model.FailureSafetyDenied,
				Error:   "safety gate: " + verdicts[i].Reason,
			}
			st.dispatched++
			if err := o.integrate(st, res); err != nil {
				return nil, err
			}
			continue
		}
		if st.front.Push(frontier.Entry{URL: seed}) {
			if h := hostOf(seed); h != "" {
				st.seedHosts[h] = true
			}
		}
	}
	return st, nil
}

// loop is the single-writer dispatch loop. It fills worker slots from
// the frontier, integrates completed results, and decides termination.
func (o *Orchestrator) loop(ctx context.Context, cancel context.CancelFunc, st *runState) error {
	results := make(chan *model.PageResult)
	inflight := 0

	drain := func() {
		cancel()
		for inflight > 0 {
			<-results
			inflight--
		}
	}

	for {
		for st.stopReason == "" && inflight < st.req.Concurrency && st.dispatched < st.req.MaxPages {
			entry, ok := st.front.Pop()
			if !ok {
				break
			}
			if !o.admissible(st, entry) {
				continue
			}
			st.dispatched++
			inflight++
			go func() {
				results <- o.fetchPage(ctx, st.req, entry)
			}()
		}

		if inflight == 0 {
			if st.stopReason == "" {
				if st.dispatched >= st.req.MaxPages && st.front.Len() > 0 {
					st.stopReason = model.TerminationMaxPages
				} else {
					st.stopReason = model.TerminationFrontierExhausted
				}
			}
			return nil
		}

		select {
		case res := <-results:
			inflight--
			if err := o.integrate(st, res); err != nil {
				drain()
				return err
			}
			o.expand(st, res)
			if st.stopReason == model.TerminationAdaptive {
				// The crossing page is already recorded. Results still in
				// flight would land after it and are abandoned unrecorded.
				drain()
				return nil
			}

		case <-ctx.Done():
			// Deadline or caller cancellation: abandon in-flight fetches
			// and finalize with what has been recorded so far.
			if st.req.RunTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				st.stopReason = model.TerminationDeadline
			} else {
				st.stopReason = model.TerminationCancelled
			}
			o.logger.Warn("run interrupted", "run_id", o.runID, "reason", st.stopReason)
			drain()
			return nil
		}
	}
}

// admissible applies the pop-time checks to a frontier entry: depth
// ceiling, safety gate, domain restriction, and URL patterns. Discarded
// entries never consume page budget.
//
// Domain and pattern filters apply only to discovered links, never to
// seeds: the caller named the seeds explicitly, so filtering them away
// would turn a narrow include pattern into an empty run.
func (o *Orchestrator) admissible(st *runState, e frontier.Entry) bool {
	if e.Depth > st.req.MaxDepth {
		return false
	}

	verdict := o.gate.Check(e.URL)
	if !verdict.Allowed {
		o.logger.Debug("frontier entry denied",
			"url", e.URL, "reason", verdict.Reason, "from", e.DiscoveredFrom)
		return false
	}

	if e.Depth == 0 {
		return true
	}

	if st.req.SameDomainOnly && !st.seedHosts[hostOf(e.URL)] {
		return false
	}

	for _, re := range st.exclude {
		if re.MatchString(e.URL) {
			return false
		}
	}
	if len(st.include) > 0 {
		matched := false
		for _, re := range st.include {
			if re.MatchString(e.URL) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// fetchPage runs in a worker goroutine: fetch under the per-page
// deadline, extract, hash. It never touches shared state.
func (o *Orchestrator) fetchPage(ctx context.Context, req model.CrawlRequest, e frontier.Entry) *model.PageResult {
	pageCtx, cancel := context.WithTimeout(ctx, req.PageTimeout)
	defer cancel()

	start := time.Now()
	res, err := o.fetcher.Fetch(pageCtx, e.URL)
	if err != nil {
		kind := model.FailureFetch
		if errors.Is(err, context.DeadlineExceeded) {
			kind = model.FailureTimeout
		}
		return &model.PageResult{
			URL:           e.URL,
			Depth:         e.Depth,
			Status:        model.StatusFailed,
			Failure:       kind,
			Error:         err.Error(),
			FetchDuration: time.Since(start),
		}
	}

	if res.StatusCode >= 400 {
		return &model.PageResult{
			URL:           e.URL,
			Depth:         e.Depth,
			Status:        model.StatusFailed,
			Failure:       model.FailureFetch,
			Error:         fmt.Sprintf("http status %d", res.StatusCode),
			FetchDuration: res.ResponseTime,
		}
	}

	doc, err := o.extractor.Extract(res)
	if err != nil {
		return &model.PageResult{
			URL:           e.URL,
			Depth:         e.Depth,
			Status:        model.StatusFailed,
			Failure:       model.FailureFetch,
			Error:         "extract: " + err.Error(),
			FetchDuration: res.ResponseTime,
		}
	}

	page := &model.PageResult{
		URL:           e.URL,
		Depth:         e.Depth,
		Status:        model.StatusOK,
		Content:       doc.Markdown,
		Title:         doc.Title,
		Links:         doc.Links,
		ByteSize:      len(doc.Markdown),
		FetchDuration: res.ResponseTime,
	}
	page.ComputeHash()
	return page
}

// integrate records one completed result: recorder first, manifest
// second, so the manifest never references content that was not written.
func (o *Orchestrator) integrate(st *runState, res *model.PageResult) error {
	if err := o.rec.Record(res); err != nil {
		return fmt.Errorf("record page %s: %w", res.URL, err)
	}
	st.manifest.AppendPage(res)

	if res.Status == model.StatusOK {
		o.logger.Info("page fetched",
			"url", res.URL,
			"depth", res.Depth,
			"bytes", res.ByteSize,
			"links", len(res.Links),
			"duration", res.FetchDuration)
	} else {
		o.logger.Warn("page failed",
			"url", res.URL,
			"depth", res.Depth,
			"failure", res.Failure,
			"error", res.Error)
	}
	return nil
}

// expand consults the stop strategy and, if the run continues, enqueues
// the page's links one level deeper. The strategy sees the result already
// counted in the totals, so a run stops with the page that crossed the
// threshold rather than one later.
func (o *Orchestrator) expand(st *runState, res *model.PageResult) {
	if st.stopReason != "" || res.Status != model.StatusOK {
		return
	}

	if st.strategy.ShouldStop(adaptive.Progress{
		PagesFetched: st.manifest.PagesOK,
		ContentBytes: st.manifest.TotalBytes,
	}) {
		st.stopReason = model.TerminationAdaptive
		o.logger.Info("adaptive stop",
			"run_id", o.runID,
			"pages_ok", st.manifest.PagesOK,
			"total_bytes", st.manifest.TotalBytes)
		return
	}

	if res.Depth+1 > st.req.MaxDepth {
		return
	}
	for _, link := range res.Links {
		st.front.Push(frontier.Entry{
			URL:            link,
			Depth:          res.Depth + 1,
			DiscoveredFrom: res.URL,
		})
	}
}

// hostOf extracts the lowercase hostname, or "" for unparsable URLs.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
