package adaptive

import "strings"

// Threshold presets for ThresholdForQuery.
// The baseline of 5000 characters is a heuristic for "enough context for
// a typical question"; it is a configurable default, not a behavioral
// constant, and callers can override it per run.
const (
	// ThresholdBrief suits short, narrow queries.
	ThresholdBrief = 3000

	// ThresholdDefault is the baseline content budget.
	ThresholdDefault = 5000

	// ThresholdThorough suits long or explicitly exhaustive queries.
	ThresholdThorough = 8000
)

// Progress is the accumulated run state a strategy may inspect.
// It is a snapshot of running totals only: strategies are stateless
// across runs and never see page content or semantics.
type Progress struct {
	// PagesFetched is the number of successfully recorded pages.
	PagesFetched int

	// ContentBytes is the cumulative size of extracted text across all
	// recorded pages.
	ContentBytes int64
}

// Strategy decides whether a run should terminate early.
//
// Design decision: This is an interface rather than a function type so
// that smarter policies (for example, semantic sufficiency scoring) can
// carry their own configuration and state without the orchestrator
// changing shape.
type Strategy interface {
	// ShouldStop reports whether the run has gathered enough.
	ShouldStop(p Progress) bool
}

// ContentBudget stops a run once cumulative extracted content reaches a
// fixed size. It is the default strategy for adaptive runs.
type ContentBudget struct {
	// Threshold is the cumulative content size, in bytes of extracted
	// text, at which the run stops. A non-positive threshold never stops.
	Threshold int64
}

// NewContentBudget creates the default adaptive strategy.
// A threshold of zero or less disables the budget.
func NewContentBudget(threshold int64) *ContentBudget {
	return &ContentBudget{Threshold: threshold}
}

// ShouldStop reports whether the content budget has been spent.
// The comparison is >= so the run stops with the page whose content
// first reaches the threshold, never a page later.
func (c *ContentBudget) ShouldStop(p Progress) bool {
	if c.Threshold <= 0 {
		return false
	}
	return p.ContentBytes >= c.Threshold
}

// Unlimited never stops a run early. It is used when adaptive mode is
// off, so the orchestrator can consult a strategy unconditionally.
type Unlimited struct{}

// ShouldStop always returns false.
func (Unlimited) ShouldStop(Progress) bool { return false }

// ThresholdForQuery picks a content budget based on a rough reading of
// query complexity. Longer questions, and questions that ask for detail
// explicitly, earn a larger budget; terse ones get a smaller one.
//
// This is intentionally crude. It exists so callers with a query in hand
// get a slightly better default than a flat constant, not to model
// information need.
func ThresholdForQuery(query string) int64 {
	if query == "" {
		return ThresholdDefault
	}

	lowered := strings.ToLower(query)
	switch {
	case len(query) > 100,
		strings.Contains(lowered, "detailed"),
		strings.Contains(lowered, "comprehensive"):
		return ThresholdThorough
	case len(query) < 30:
		return ThresholdBrief
	default:
		return ThresholdDefault
	}
}
