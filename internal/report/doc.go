// Package report formats finished crawl runs for people and tools.
// It provides three output formats: a human-readable text summary for
// terminals, GitHub-flavored Markdown for documentation, and JSON for
// programmatic consumers. All writers operate on the run manifest, so
// every format reports the same facts.
package report
