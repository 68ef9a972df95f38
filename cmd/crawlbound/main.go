// Package main provides the entry point for the crawlbound CLI.
//
// crawlbound is a bounded web crawler: it fetches a set of seed URLs,
// follows links up to configured depth and page budgets, extracts page
// content as markdown, and records every run in an auditable manifest.
//
// Usage:
//
//	crawlbound crawl <url> [url...]
//	crawlbound crawl --output ./runs --depth 2 <url>
//	crawlbound runs
//
// See --help for all available options.
package main

// main is the entry point for crawlbound.
func main() {
	Execute()
}
