// Package fetch defines the fetch adapter consumed by the crawl
// orchestrator and provides two implementations: a plain HTTP fetcher and
// a headless-Chrome fetcher for JavaScript-heavy sites.
//
// The orchestrator only depends on the Fetcher and Extractor interfaces;
// how a URL becomes bytes, and how bytes become text and links, are
// replaceable collaborators.
package fetch
