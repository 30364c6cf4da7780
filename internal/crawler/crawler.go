package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/mkosuda/linkmap/internal/extractor"
	"github.com/mkosuda/linkmap/internal/fetcher"
	"github.com/mkosuda/linkmap/internal/model"
	"github.com/mkosuda/linkmap/internal/pool"
)

// Default crawl settings.
const (
	// DefaultJoinTimeout bounds how long a parent waits for one child
	// branch. A branch that blows through this deadline contributes
	// nothing; 60 seconds leaves room for a full retry cycle below it.
	DefaultJoinTimeout = 60 * time.Second

	// DefaultShutdownGrace is passed to the worker pool at the end of
	// the crawl.
	DefaultShutdownGrace = 10 * time.Second

	// DefaultMaxInFlight caps concurrent page fetches. Fan-out itself is
	// unbounded; the cap applies where resource pressure actually is,
	// on open network connections.
	DefaultMaxInFlight = 64
)

// ErrMissingHost is returned when the seed URL has no host to derive
// the crawl scope from.
var ErrMissingHost = errors.New("seed URL has no host")

// Crawler orchestrates the recursive, concurrent traversal of a site.
// Create one with New; each CollectLinks call gets fresh crawl state,
// so a single Crawler can serve sequential crawls.
type Crawler struct {
	fetcher       fetcher.Fetcher
	extractor     *extractor.Extractor
	joinTimeout   time.Duration
	shutdownGrace time.Duration
	maxInFlight   int64
	logger        *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithJoinTimeout sets the per-child join deadline.
func WithJoinTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.joinTimeout = d
		}
	}
}

// WithShutdownGrace sets how long the end-of-crawl pool shutdown waits
// for abandoned branches before cancelling them.
func WithShutdownGrace(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.shutdownGrace = d
		}
	}
}

// WithMaxInFlight caps concurrent fetches. Zero or negative means
// unlimited.
func WithMaxInFlight(n int) Option {
	return func(c *Crawler) {
		c.maxInFlight = int64(n)
	}
}

// WithExtractor replaces the default link extractor, e.g. one built
// with custom exclusion lists.
func WithExtractor(e *extractor.Extractor) Option {
	return func(c *Crawler) {
		if e != nil {
			c.extractor = e
		}
	}
}

// WithLogger sets a custom logger for crawl diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler that fetches pages through f.
//
// The fetcher is required rather than constructed here so tests can
// inject deterministic fakes and callers can swap transports (proxied
// clients, recorded fixtures) without touching the engine.
func New(f fetcher.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:       f,
		joinTimeout:   DefaultJoinTimeout,
		shutdownGrace: DefaultShutdownGrace,
		maxInFlight:   DefaultMaxInFlight,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.extractor == nil {
		c.extractor = extractor.New(extractor.WithLogger(c.logger))
	}
	return c
}

// CollectLinks crawls outward from seedURL and returns the full
// inventory of distinct in-scope links ever admitted, sorted
// lexicographically inside the report.
//
// The scope token is the seed URL's hostname. The visited set, worker pool,
// and counters are created here and discarded when the call returns;
// the pool is shut down exactly once before the report is built.
func (c *Crawler) CollectLinks(ctx context.Context, seedURL string) (*model.CrawlReport, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, err)
	}

	// The scope token is the hostname alone so a seed carrying an
	// explicit port still admits links written without one.
	scope := seed.Hostname()
	if scope == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingHost, seedURL)
	}
	report := model.NewCrawlReport(seedURL, scope)

	r := &run{
		crawler: c,
		scope:   scope,
		visited: NewVisitedSet(),
		pool: pool.New(ctx,
			pool.WithShutdownGrace(c.shutdownGrace),
			pool.WithLogger(c.logger),
		),
	}
	if c.maxInFlight > 0 {
		r.fetchSlots = semaphore.NewWeighted(c.maxInFlight)
	}

	c.logger.Info("starting crawl",
		"seed", seedURL,
		"scope", scope,
		"joinTimeout", c.joinTimeout,
		"maxInFlight", c.maxInFlight,
	)

	r.crawlOne(ctx, seed.String())
	r.pool.Shutdown()

	report.SetLinks(r.visited.Snapshot())
	report.PagesFetched = int(r.pagesFetched.Load())
	report.FetchErrors = int(r.fetchErrors.Load())
	report.BranchTimeouts = int(r.branchTimeouts.Load())
	report.Finish()

	c.logger.Info("crawl finished",
		"seed", seedURL,
		"links", report.LinkCount(),
		"pagesFetched", report.PagesFetched,
		"fetchErrors", report.FetchErrors,
		"branchTimeouts", report.BranchTimeouts,
		"elapsed", report.Elapsed,
	)

	return report, nil
}

// run holds the state of one CollectLinks invocation. Keeping it apart
// from Crawler is what makes sequential crawls on the same Crawler
// start clean.
type run struct {
	crawler    *Crawler
	scope      string
	visited    *VisitedSet
	pool       *pool.Pool
	fetchSlots *semaphore.Weighted

	pagesFetched   atomic.Int64
	fetchErrors    atomic.Int64
	branchTimeouts atomic.Int64
}

// crawlOne processes a single page and returns the links newly
// discovered while doing so: the candidates this page admitted into the
// visited set plus everything its successfully joined children found.
//
// Every failure is contained here. A fetch error ends the branch with
// an empty contribution; a child that fails or times out is skipped and
// its siblings still join.
func (r *run) crawlOne(ctx context.Context, pageURL string) []string {
	content, err := r.fetchPage(ctx, pageURL)
	if err != nil {
		r.fetchErrors.Add(1)
		r.crawler.logger.Warn("fetch failed, abandoning branch",
			"url", pageURL,
			"error", err,
		)
		return nil
	}
	r.pagesFetched.Add(1)

	candidates := r.crawler.extractor.Extract(r.scope, pageURL, content)

	// Admit candidates and fan out one child task per first admission.
	// A child is only ever scheduled after its link was admitted, which
	// is the sole ordering guarantee the crawl makes.
	local := make([]string, 0, len(candidates))
	handles := make([]*pool.Handle, 0, len(candidates))
	for _, link := range candidates {
		if !r.visited.Add(link) {
			continue
		}
		local = append(local, link)
		handles = append(handles, r.pool.Submit(func(taskCtx context.Context) []string {
			return r.crawlOne(taskCtx, link)
		}))
	}

	for _, h := range handles {
		childLinks, err := h.Await(r.crawler.joinTimeout)
		if err != nil {
			if errors.Is(err, pool.ErrJoinTimeout) {
				r.branchTimeouts.Add(1)
			}
			r.crawler.logger.Warn("child branch contributed nothing",
				"page", pageURL,
				"error", err,
			)
			continue
		}
		local = append(local, childLinks...)
	}

	return local
}

// fetchPage fetches one page, holding a fetch slot for the duration
// when the in-flight cap is enabled.
func (r *run) fetchPage(ctx context.Context, pageURL string) (string, error) {
	if r.fetchSlots != nil {
		if err := r.fetchSlots.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer r.fetchSlots.Release(1)
	}
	return r.crawler.fetcher.Fetch(ctx, pageURL)
}
