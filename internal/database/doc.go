// Package database provides SQLite-backed history of crawl runs.
//
// Every finalized manifest can be indexed here so past runs remain
// listable and re-displayable without keeping their run directories
// around. The database is an index, not the source of truth: page
// content lives in run directories (persisted mode) or nowhere at all
// (ephemeral mode).
package database
