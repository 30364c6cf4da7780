// Package crawler implements the concurrent crawl-and-dedupe engine.
//
// # Architecture
//
// Crawler.CollectLinks is the public entry point. It derives the crawl
// scope from the seed URL's hostname, creates a fresh visited set and worker
// pool, and runs one recursive crawl task per newly admitted link:
//
//	fetch page -> extract candidates -> admit into visited set ->
//	submit child task per admission -> join children with timeout ->
//	return local discoveries plus joined child results
//
// # Failure containment
//
// No failure aborts the crawl. A fetch error abandons one branch; a
// child that misses its join deadline contributes an empty set and its
// siblings are unaffected. Everything is reported through the crawl
// report counters and, under --verbose, through structured logs.
//
// # Concurrency
//
// The visited set is the only shared mutable state. Its atomic
// add-if-absent guarantees that no URL is crawled twice even when
// concurrent branches discover it simultaneously. Fan-out is bounded by
// the frontier; concurrent network fetches are additionally capped with
// a weighted semaphore so large sites do not open unbounded numbers of
// connections.
//
// Abandoning a timed-out child does not stop its in-flight work; the
// pool's end-of-crawl shutdown cancels stragglers. This is a documented
// limitation, not a hard-cancellation guarantee.
package crawler
