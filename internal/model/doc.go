// Package model defines the data structures shared across linkmap.
// It holds the crawl report produced by a single crawl invocation.
package model
