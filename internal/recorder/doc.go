// Package recorder builds the durable record of a crawl run.
//
// Two modes exist. The ephemeral recorder holds page results in memory
// and returns the full content inline at finalize time. The persisted
// recorder writes each page as an individual artifact under a per-run
// directory and finishes by writing a manifest that references the
// artifacts, so large content never has to cross the caller interface.
package recorder
