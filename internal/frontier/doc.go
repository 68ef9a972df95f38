// Package frontier implements the crawl traversal data structure: a FIFO
// queue of discovered URLs paired with a monotonic visited set.
//
// FIFO ordering makes the crawl breadth-first: all entries at depth d are
// drained before depth d+1 begins, so shallow pages are fetched first and
// depth limits reduce to a counter comparison. Deduplication uses a
// normalized URL as identity, so the same page reached through different
// spellings is only ever dispatched once per run.
package frontier
