// Package adaptive implements pluggable early-termination policies for
// crawl runs.
//
// A strategy is consulted once per successfully fetched page, after the
// page has been recorded and before its links are expanded. Strategies
// can only end a run earlier than its hard limits; max depth and max
// pages always apply regardless of what a strategy decides.
package adaptive
