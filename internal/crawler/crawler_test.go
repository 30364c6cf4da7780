package crawler

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeFetcher serves canned page content and records how often each URL
// was fetched. It is the deterministic stand-in for the network.
type fakeFetcher struct {
	mu sync.Mutex

	// pages maps URLs to their content. URLs not present get fallback.
	pages map[string]string

	// fallback content for unknown URLs.
	fallback string

	// failWith maps URLs to fetch errors.
	failWith map[string]error

	// calls counts fetch invocations per URL.
	calls map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{
		pages:    pages,
		fallback: "<html><body>404 Not Found</body></html>",
		failWith: make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[pageURL]++
	if err, ok := f.failWith[pageURL]; ok {
		return "", err
	}
	if content, ok := f.pages[pageURL]; ok {
		return content, nil
	}
	return f.fallback, nil
}

func (f *fakeFetcher) callCount(pageURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[pageURL]
}

func (f *fakeFetcher) totalCalls() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make(map[string]int, len(f.calls))
	for k, v := range f.calls {
		calls[k] = v
	}
	return calls
}

// newTestCrawler builds a crawler with quiet logging and short
// timeouts suitable for unit tests.
func newTestCrawler(f *fakeFetcher) *Crawler {
	return New(f,
		WithJoinTimeout(5*time.Second),
		WithShutdownGrace(100*time.Millisecond),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
}

func TestCollectLinks(t *testing.T) {
	t.Parallel()

	t.Run("ignores external links", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]string{
			"https://example.com": `<html><body>
				<a class="some_class "href="https://example.com/page1">Page 1</a>
				<a href="https://example.com/page2">Page 2</a>
				<a href="https://external.com/page3">External Link</a>
				</body></html>`,
		})

		result, err := newTestCrawler(f).CollectLinks(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertContainsAll(t, result.Links,
			"https://example.com/page1",
			"https://example.com/page2",
		)
		assertNotContains(t, result.Links, "https://external.com/page3")
	})

	t.Run("visits all reachable subpages", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]string{
			"https://example.com": `<html><body>
				<a href="https://example.com/page1">Page 1</a>
				<a href="https://example.com/page2">Page 2</a>
				</body></html>`,
			"https://example.com/page1": `<html><body>
				<a href="https://example.com/page3">Page 3</a>
				</body></html>`,
			"https://example.com/page2": `<html><body>
				<a href="https://example.com/page4">Page 4</a>
				</body></html>`,
		})

		result, err := newTestCrawler(f).CollectLinks(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			"https://example.com/page1",
			"https://example.com/page2",
			"https://example.com/page3",
			"https://example.com/page4",
		}
		if !reflect.DeepEqual(result.Links, want) {
			t.Errorf("expected links %v, got %v", want, result.Links)
		}
	})

	t.Run("includes subdomains", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]string{
			"https://orf.at": `<html><body>
				<a href="https://orf.at/news">News</a>
				<a href="https://kids.orf.at/story">Kids Story</a>
				<a href="https://external.com/page">External Link</a>
				</body></html>`,
		})

		result, err := newTestCrawler(f).CollectLinks(context.Background(), "https://orf.at")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertContainsAll(t, result.Links,
			"https://orf.at/news",
			"https://kids.orf.at/story",
		)
		assertNotContains(t, result.Links, "https://external.com/page")
	})

	t.Run("scopes a ported seed by hostname alone", func(t *testing.T) {
		t.Parallel()

		// Links on a ported seed are commonly written without the port;
		// they still belong to the seed's domain.
		f := newFakeFetcher(map[string]string{
			"https://example.com:8443": `<html><body>
				<a href="https://example.com/page1">Page 1</a>
				<a href="https://example.com:8443/page2">Page 2</a>
				<a href="https://external.com/page3">External Link</a>
				</body></html>`,
		})

		result, err := newTestCrawler(f).CollectLinks(context.Background(), "https://example.com:8443")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Scope != "example.com" {
			t.Errorf("expected scope example.com, got %s", result.Scope)
		}
		assertContainsAll(t, result.Links,
			"https://example.com/page1",
			"https://example.com:8443/page2",
		)
		assertNotContains(t, result.Links, "https://external.com/page3")
	})

	t.Run("excludes media, download, and git links", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]string{
			"https://orf.at": `<html><body>
				<a href="https://orf.at/news">News</a>
				<a href="https://orf.at/media/file.mp3">Mp3 Link</a>
				<a href="https://orf.at/download/file.jpeg">Download Link</a>
				<a href="https://gitlab.com">Gitlab Link</a>
				</body></html>`,
		})

		result, err := newTestCrawler(f).CollectLinks(context.Background(), "https://orf.at")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"https://orf.at/news"}
		if !reflect.DeepEqual(result.Links, want) {
			t.Errorf("expected links %v, got %v", want, result.Links)
		}
	})

	t.Run("resolves relative references", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]string{
			"https://orf.at": `<html><body>
				<a href="https://orf.at/news">News</a>
				<a href="/doc/">Docs</a>
				</body></html>`,
		})

		result, err := newTestCrawler(f).CollectLinks(context.Background(), "https://orf.at")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertContainsAll(t, result.Links,
			"https://orf.at/news",
			"https://orf.at/doc/",
		)
	})

	t.Run("fetches every URL at most once", func(t *testing.T) {
		t.Parallel()

		// page1 and page2 both link to page3 and back to the seed's links.
		f := newFakeFetcher(map[string]string{
			"https://example.com": `<html><body>
				<a href="https://example.com/page1">Page 1</a>
				<a href="https://example.com/page2">Page 2</a>
				</body></html>`,
			"https://example.com/page1": `<html><body>
				<a href="https://example.com/page3">Page 3</a>
				<a href="https://example.com/page2">Page 2</a>
				</body></html>`,
			"https://example.com/page2": `<html><body>
				<a href="https://example.com/page3">Page 3</a>
				<a href="https://example.com/page1">Page 1</a>
				</body></html>`,
		})

		_, err := newTestCrawler(f).CollectLinks(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for pageURL, count := range f.totalCalls() {
			if pageURL == "https://example.com" {
				continue // the seed is fetched directly, not admitted
			}
			if count > 1 {
				t.Errorf("expected at most one fetch of %s, got %d", pageURL, count)
			}
		}
		if got := f.callCount("https://example.com"); got != 1 {
			t.Errorf("expected exactly one fetch of the seed, got %d", got)
		}
	})

	t.Run("is idempotent across invocations", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{
			"https://example.com": `<html><body>
				<a href="https://example.com/page1">Page 1</a>
				<a href="https://example.com/page2">Page 2</a>
				</body></html>`,
			"https://example.com/page1": `<html><body>
				<a href="https://example.com/page3">Page 3</a>
				</body></html>`,
		}

		c := newTestCrawler(newFakeFetcher(pages))
		first, err := c.CollectLinks(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error on first crawl: %v", err)
		}
		second, err := c.CollectLinks(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error on second crawl: %v", err)
		}

		if !reflect.DeepEqual(first.Links, second.Links) {
			t.Errorf("expected identical results, got %v and %v", first.Links, second.Links)
		}
	})

	t.Run("contains fetch failures at the branch", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]string{
			"https://example.com": `<html><body>
				<a href="https://example.com/page1">Page 1</a>
				<a href="https://example.com/page2">Page 2</a>
				</body></html>`,
			"https://example.com/page1": `<html><body>
				<a href="https://example.com/page3">Page 3</a>
				</body></html>`,
		})
		f.failWith["https://example.com/page2"] = errors.New("connection refused")

		result, err := newTestCrawler(f).CollectLinks(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// page2 stays in the inventory: it was admitted before its own
		// fetch failed, and the failure abandons only its branch.
		want := []string{
			"https://example.com/page1",
			"https://example.com/page2",
			"https://example.com/page3",
		}
		if !reflect.DeepEqual(result.Links, want) {
			t.Errorf("expected links %v, got %v", want, result.Links)
		}
		if result.FetchErrors != 1 {
			t.Errorf("expected 1 fetch error, got %d", result.FetchErrors)
		}
	})

	t.Run("rejects seed URL without host", func(t *testing.T) {
		t.Parallel()

		c := newTestCrawler(newFakeFetcher(nil))
		if _, err := c.CollectLinks(context.Background(), "/no-host"); !errors.Is(err, ErrMissingHost) {
			t.Errorf("expected ErrMissingHost, got %v", err)
		}
	})

	t.Run("rejects unparseable seed URL", func(t *testing.T) {
		t.Parallel()

		c := newTestCrawler(newFakeFetcher(nil))
		if _, err := c.CollectLinks(context.Background(), "http://bad url"); err == nil {
			t.Error("expected error for unparseable seed URL")
		}
	})

	t.Run("counts fetched pages", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]string{
			"https://example.com": `<html><body>
				<a href="https://example.com/page1">Page 1</a>
				</body></html>`,
		})

		result, err := newTestCrawler(f).CollectLinks(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Seed plus page1 (which serves fallback content).
		if result.PagesFetched != 2 {
			t.Errorf("expected 2 pages fetched, got %d", result.PagesFetched)
		}
	})
}

// assertContainsAll fails unless links contains every want entry.
func assertContainsAll(t *testing.T, links []string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !contains(links, w) {
			t.Errorf("expected links to contain %s, got %v", w, links)
		}
	}
}

// assertNotContains fails if links contains unwanted.
func assertNotContains(t *testing.T, links []string, unwanted string) {
	t.Helper()
	if contains(links, unwanted) {
		t.Errorf("expected links not to contain %s, got %v", unwanted, links)
	}
}

func contains(links []string, target string) bool {
	for _, l := range links {
		if l == target {
			return true
		}
	}
	return false
}
