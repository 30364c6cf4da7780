package model

import (
	"sort"
	"time"
)

// CrawlReport aggregates the outcome of one top-level crawl invocation.
// It is created when the crawl starts and finalized when it returns.
// No state survives across invocations.
type CrawlReport struct {
	// SeedURL is the URL the crawl started from.
	SeedURL string

	// Scope is the domain token derived from the seed URL's hostname.
	// A discovered link is in scope when its string contains this token.
	Scope string

	// Links are all distinct in-scope URLs admitted during the crawl,
	// sorted lexicographically.
	Links []string

	// PagesFetched is the number of pages successfully retrieved.
	PagesFetched int

	// FetchErrors is the number of pages that could not be retrieved.
	// Each failure abandons only its own branch.
	FetchErrors int

	// BranchTimeouts is the number of child tasks that missed the join
	// deadline and contributed nothing to their parent.
	BranchTimeouts int

	// StartedAt is when the crawl began.
	StartedAt time.Time

	// Elapsed is the total wall-clock duration of the crawl.
	Elapsed time.Duration
}

// NewCrawlReport creates a report for a crawl of seedURL with the given scope.
func NewCrawlReport(seedURL, scope string) *CrawlReport {
	return &CrawlReport{
		SeedURL:   seedURL,
		Scope:     scope,
		Links:     make([]string, 0),
		StartedAt: time.Now(),
	}
}

// SetLinks stores the discovered links, sorted lexicographically.
// The slice is copied so the caller may keep mutating its own.
func (r *CrawlReport) SetLinks(links []string) {
	r.Links = make([]string, len(links))
	copy(r.Links, links)
	sort.Strings(r.Links)
}

// Finish records the elapsed time since the crawl started.
func (r *CrawlReport) Finish() {
	r.Elapsed = time.Since(r.StartedAt)
}

// LinkCount returns the number of distinct links discovered.
func (r *CrawlReport) LinkCount() int {
	return len(r.Links)
}

// ElapsedSeconds returns the crawl duration in seconds for display.
func (r *CrawlReport) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}
