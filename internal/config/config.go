package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. CLI flags and the config file override
// them.
const (
	// DefaultTimeout bounds one fetch attempt. Seconds-scale keeps a
	// slow page from stalling its whole branch.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxRetries is the attempt budget for timeout-class fetch
	// failures.
	DefaultMaxRetries = 5

	// DefaultBackoffUnit is the base delay of the exponential retry
	// backoff (1, 2, 4, 8 units between attempts).
	DefaultBackoffUnit = 1 * time.Second

	// DefaultJoinTimeout bounds how long a crawl task waits for one of
	// its children before writing the branch off.
	DefaultJoinTimeout = 60 * time.Second

	// DefaultShutdownGrace is how long the worker pool waits for
	// abandoned branches at the end of a crawl before cancelling them.
	DefaultShutdownGrace = 10 * time.Second

	// DefaultMaxInFlight caps concurrent page fetches. 0 disables the cap.
	DefaultMaxInFlight = 64

	// AppName is the application name used for XDG directory paths.
	AppName = "linkmap"
)

// Config holds all options for one crawl. It is populated from CLI
// flags plus the optional config file and passed down by dependency
// injection; there is no global state.
type Config struct {
	// SeedURL is the URL the crawl starts from. Required.
	SeedURL string

	// Timeout is the per-attempt fetch timeout.
	Timeout time.Duration

	// MaxRetries is the fetch attempt budget for timeout failures.
	MaxRetries int

	// BackoffUnit is the base delay of the retry backoff schedule.
	BackoffUnit time.Duration

	// JoinTimeout is the per-child join deadline.
	JoinTimeout time.Duration

	// ShutdownGrace is the worker pool's end-of-crawl grace period.
	ShutdownGrace time.Duration

	// MaxInFlight caps concurrent fetches; 0 means unlimited.
	MaxInFlight int

	// UserAgent overrides the identifying User-Agent header when set.
	UserAgent string

	// ProxyAddress routes fetches through a SOCKS5 proxy at
	// "host:port" when set.
	ProxyAddress string

	// Verbose enables debug-level diagnostic logging. It changes only
	// the side-channel logging, never the crawl result.
	Verbose bool

	// Markdown switches the result output to a Markdown report.
	Markdown bool

	// OutputFile writes the result to a file instead of stdout when set.
	OutputFile string

	// ConfigFilePath is an explicit config file path. When empty the
	// file is searched for in the standard locations.
	ConfigFilePath string

	// DomainConfigs holds per-domain overrides loaded from the config
	// file.
	DomainConfigs *File
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Timeout:       DefaultTimeout,
		MaxRetries:    DefaultMaxRetries,
		BackoffUnit:   DefaultBackoffUnit,
		JoinTimeout:   DefaultJoinTimeout,
		ShutdownGrace: DefaultShutdownGrace,
		MaxInFlight:   DefaultMaxInFlight,
		DomainConfigs: &File{Domains: make(map[string]DomainConfig)},
	}
}

// Validate checks the configuration and returns the first problem found
// as one of the package sentinel errors.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return ErrNoSeedURL
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries <= 0 {
		return ErrInvalidRetries
	}
	if c.BackoffUnit <= 0 {
		return ErrInvalidBackoffUnit
	}
	if c.JoinTimeout <= 0 {
		return ErrInvalidJoinTimeout
	}
	if c.MaxInFlight < 0 {
		return ErrInvalidMaxInFlight
	}
	return nil
}

// XDGConfigDir returns the XDG config directory for linkmap
// (typically ~/.config/linkmap).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
