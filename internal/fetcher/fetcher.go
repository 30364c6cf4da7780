package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Default fetch settings. These apply unless overridden via options.
const (
	// DefaultTimeout bounds a single fetch attempt, covering both the
	// connection and the body read. Seconds-scale keeps a slow page
	// from stalling the whole branch.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxRetries is the total attempt budget for timeout-class
	// failures. With the default backoff unit the last attempt starts
	// 15 seconds after the first.
	DefaultMaxRetries = 5

	// DefaultBackoffUnit is the base delay of the exponential backoff
	// schedule. The delay before attempt n+1 is unit << (n-1).
	DefaultBackoffUnit = 1 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is generous for HTML while preventing memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies linkmap in HTTP requests so operators
	// can recognize crawler traffic in their logs.
	DefaultUserAgent = "linkmap/1.0 (+https://github.com/mkosuda/linkmap)"
)

// Fetcher retrieves the raw content of a single page. Implementations
// must honor ctx cancellation and return a *FetchError on failure.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// HTTPFetcher fetches pages with net/http, retrying timeouts with
// exponential backoff. Create one with New; it is safe for concurrent
// use by multiple crawl tasks.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	headers     map[string]string
	maxRetries  int
	backoffUnit time.Duration
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders sets additional HTTP headers sent with every request,
// for example per-domain cookies or authorization from the config file.
func WithHeaders(headers map[string]string) Option {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithMaxRetries sets the total attempt budget for timeout failures.
func WithMaxRetries(n int) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxRetries = n
		}
	}
}

// WithBackoffUnit sets the base delay of the backoff schedule.
// Tests shrink this to keep retry cases fast.
func WithBackoffUnit(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.backoffUnit = d
		}
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithLogger sets a custom logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client, e.g. with one
// built by NewProxyClient. The client's own timeout is kept.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// New creates an HTTPFetcher with the given options.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      &http.Client{Timeout: DefaultTimeout},
		userAgent:   DefaultUserAgent,
		maxRetries:  DefaultMaxRetries,
		backoffUnit: DefaultBackoffUnit,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch retrieves pageURL and returns its body as a string.
//
// Timeout-class failures are retried up to the attempt budget, sleeping
// backoffUnit << (attempt-1) between attempts. Any other failure is
// returned at once. The returned error is always a *FetchError wrapping
// the last cause.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		start := time.Now()

		content, err := f.fetchOnce(ctx, pageURL)
		if err == nil {
			f.logger.Debug("fetched page",
				"url", pageURL,
				"elapsed", time.Since(start),
				"attempt", attempt,
			)
			return content, nil
		}

		if !isTimeout(err) {
			return "", &FetchError{URL: pageURL, Attempts: attempt, Err: err}
		}
		lastErr = err

		f.logger.Debug("fetch timed out, retrying",
			"url", pageURL,
			"attempt", attempt,
			"maxRetries", f.maxRetries,
		)

		if attempt == f.maxRetries {
			break
		}

		delay := f.backoffUnit << (attempt - 1)
		select {
		case <-ctx.Done():
			return "", &FetchError{URL: pageURL, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}

	return "", &FetchError{URL: pageURL, Attempts: f.maxRetries, Err: lastErr}
}

// fetchOnce performs a single GET attempt.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for name, value := range f.headers {
		req.Header.Set(name, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck // Close error is not actionable here

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: %d for %s", ErrBadStatus, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// isTimeout reports whether err is a timeout-class failure worth
// retrying. Connection refusals, DNS failures, and malformed URLs are
// not timeouts and fail the fetch immediately.
func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
