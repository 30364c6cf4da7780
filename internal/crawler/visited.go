package crawler

import (
	"sort"
	"sync"
)

// VisitedSet is a concurrency-safe set of URL strings shared by every
// task of one crawl invocation. It lives exactly as long as the
// CollectLinks call that created it.
type VisitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedSet creates an empty visited set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		urls: make(map[string]struct{}),
	}
}

// Add inserts pageURL if absent and reports whether the insert
// happened. The test-and-insert is atomic: when concurrent callers race
// on the same URL, exactly one observes true. This is the invariant
// that makes every URL crawled at most once.
func (v *VisitedSet) Add(pageURL string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.urls[pageURL]; ok {
		return false
	}
	v.urls[pageURL] = struct{}{}
	return true
}

// Len returns the number of URLs admitted so far.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}

// Snapshot returns the admitted URLs, sorted lexicographically.
func (v *VisitedSet) Snapshot() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	urls := make([]string, 0, len(v.urls))
	for u := range v.urls {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
