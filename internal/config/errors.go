package config

import "errors"

// Configuration validation errors.
//
// Design decision: package-level sentinel errors rather than errors
// created inside Validate(), so callers can branch with errors.Is while
// the messages stay human-readable.
var (
	// ErrNoSeedURL is returned when no seed URL was supplied.
	// This is the only externally fatal condition of a crawl.
	ErrNoSeedURL = errors.New("no seed URL specified: provide a starting URL as the positional argument")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry budget is not positive.
	// At least one attempt is always needed to fetch a page at all.
	ErrInvalidRetries = errors.New("invalid retries: must be positive")

	// ErrInvalidBackoffUnit is returned when the backoff unit is not positive.
	ErrInvalidBackoffUnit = errors.New("invalid backoff unit: must be positive")

	// ErrInvalidJoinTimeout is returned when the join timeout is not positive.
	// A non-positive join deadline would abandon every child branch.
	ErrInvalidJoinTimeout = errors.New("invalid join timeout: must be positive")

	// ErrInvalidMaxInFlight is returned when the fetch concurrency cap is
	// negative. Zero is valid and means unlimited.
	ErrInvalidMaxInFlight = errors.New("invalid max in-flight fetches: must be non-negative")
)
