// Package model defines the core data structures shared across the crawl
// engine: the crawl request, per-page results, and the durable run manifest.
//
// These types are deliberately free of behavior beyond validation and
// bookkeeping so that every other package can depend on them without
// creating import cycles.
package model
