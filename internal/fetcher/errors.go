package fetcher

import (
	"errors"
	"fmt"
)

// ErrBadStatus is returned (wrapped in *FetchError) when the server
// responds with a 4xx or 5xx status. Error statuses are not retried;
// the retry policy targets timeouts only.
var ErrBadStatus = errors.New("unexpected HTTP status")

// FetchError reports that a page could not be retrieved. It wraps the
// last underlying cause, either after the retry budget was exhausted on
// timeouts or immediately for non-retryable failures.
type FetchError struct {
	// URL is the page that could not be fetched.
	URL string

	// Attempts is how many fetch attempts were made.
	Attempts int

	// Err is the last underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

// Unwrap returns the underlying cause so callers can use errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}
