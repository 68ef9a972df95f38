// Package crawler implements the crawl orchestrator: the loop that pulls
// entries from the frontier, gates them through safety and budget checks,
// dispatches fetches to a bounded worker pool, and integrates results
// into the run manifest.
//
// The orchestrator exclusively owns the frontier and the in-progress
// manifest for the duration of one run. Fetch workers are pure
// request/response units: they produce page results and hand them back
// to the loop, which is the only goroutine that mutates shared state.
package crawler
