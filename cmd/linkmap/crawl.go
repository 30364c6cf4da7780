package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkosuda/linkmap/internal/config"
	"github.com/mkosuda/linkmap/internal/crawler"
	"github.com/mkosuda/linkmap/internal/extractor"
	"github.com/mkosuda/linkmap/internal/fetcher"
	intlog "github.com/mkosuda/linkmap/internal/log"
	"github.com/mkosuda/linkmap/internal/model"
	"github.com/mkosuda/linkmap/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site and print every unique in-domain link",
		Long: `Crawl fetches pages concurrently starting from the seed URL, extracts
links, and follows every newly discovered in-domain link until the
reachable link graph is exhausted.

A link is in scope when its URL contains the seed hostname as a substring,
so subdomains are followed. Media, document, and archive URLs are
skipped, as are URLs containing "download", "upload", or "git".

Examples:
  # Crawl a site and print the sorted link inventory
  linkmap crawl https://orf.at

  # Slow site: longer fetch timeout and join deadline
  linkmap crawl --timeout 15s --join-timeout 2m https://example.com

  # Route fetches through a local SOCKS5 proxy
  linkmap crawl --proxy 127.0.0.1:1080 https://example.com

  # Write a Markdown report instead of plain text
  linkmap crawl --markdown --output report.md https://example.com

Configuration file (.linkmap) example:
  defaults:
    userAgent: "linkmap/1.0"
  domains:
    example.com:
      timeoutSeconds: 15
      headers:
        Cookie: "session=abc123"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for a single fetch attempt")
	cmd.Flags().IntP("retries", "r", config.DefaultMaxRetries,
		"Fetch attempts per page for timeout failures")
	cmd.Flags().Duration("backoff", config.DefaultBackoffUnit,
		"Base delay of the exponential retry backoff")
	cmd.Flags().StringP("user-agent", "u", "",
		"Custom User-Agent header")
	cmd.Flags().StringP("proxy", "x", "",
		"Route fetches through a SOCKS5 proxy at host:port")

	// Crawl behavior flags
	cmd.Flags().DurationP("join-timeout", "j", config.DefaultJoinTimeout,
		"How long a page waits for each child branch")
	cmd.Flags().IntP("max-in-flight", "n", config.DefaultMaxInFlight,
		"Maximum concurrent fetches (0 = unlimited)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkmap in cwd, XDG config dir, or home)")

	// Output flags
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown report instead of plain text")
	cmd.Flags().StringP("output", "o", "",
		"Write the result to a file instead of stdout")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel the crawl on SIGINT/SIGTERM so the pool can shut down.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling crawl...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if len(args) > 0 {
		cfg.SeedURL = args[0]
	}

	var err error
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = cmd.Flags().GetInt("retries"); err != nil {
		return nil, err
	}
	if cfg.BackoffUnit, err = cmd.Flags().GetDuration("backoff"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = cmd.Flags().GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.JoinTimeout, err = cmd.Flags().GetDuration("join-timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxInFlight, err = cmd.Flags().GetInt("max-in-flight"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.OutputFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// An explicitly specified config file must exist; an implicit one is
	// optional.
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case path != "":
		cfg.DomainConfigs, err = config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity. All URL
// attributes pass through the redacting handler so credentials scraped
// from the wild never reach operator logs.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(intlog.NewRedactHandler(handler))
}

// runCrawl executes the crawl and writes the result.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	seed, err := url.Parse(cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("invalid seed URL %q: %w", cfg.SeedURL, err)
	}

	f, err := buildFetcher(cfg, seed.Host, logger)
	if err != nil {
		return err
	}

	extractorOpts := []extractor.Option{extractor.WithLogger(logger)}
	if dc := cfg.DomainConfigs.GetDomainConfig(seed.Host); len(dc.ExcludeSubstrings) > 0 {
		extractorOpts = append(extractorOpts, extractor.WithExcludedSubstrings(dc.ExcludeSubstrings))
	}

	c := crawler.New(f,
		crawler.WithJoinTimeout(cfg.JoinTimeout),
		crawler.WithShutdownGrace(cfg.ShutdownGrace),
		crawler.WithMaxInFlight(cfg.MaxInFlight),
		crawler.WithExtractor(extractor.New(extractorOpts...)),
		crawler.WithLogger(logger),
	)

	fmt.Printf("Collecting links for %s ...\n", cfg.SeedURL)

	result, err := c.CollectLinks(ctx, cfg.SeedURL)
	if err != nil {
		return err
	}

	return outputResult(cfg, result)
}

// buildFetcher assembles the HTTP fetcher from the config and any
// per-domain overrides from the config file.
func buildFetcher(cfg *config.Config, host string, logger *slog.Logger) (fetcher.Fetcher, error) {
	dc := cfg.DomainConfigs.GetDomainConfig(host)

	timeout := cfg.Timeout
	if dc.TimeoutSeconds > 0 {
		timeout = time.Duration(dc.TimeoutSeconds) * time.Second
	}
	retries := cfg.MaxRetries
	if dc.MaxRetries > 0 {
		retries = dc.MaxRetries
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = dc.UserAgent
	}

	opts := []fetcher.Option{
		fetcher.WithTimeout(timeout),
		fetcher.WithMaxRetries(retries),
		fetcher.WithBackoffUnit(cfg.BackoffUnit),
		fetcher.WithUserAgent(userAgent),
		fetcher.WithHeaders(dc.Headers),
		fetcher.WithLogger(logger),
	}

	if cfg.ProxyAddress != "" {
		client, err := fetcher.NewProxyClient(cfg.ProxyAddress, timeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetcher.WithHTTPClient(client))
	}

	return fetcher.New(opts...), nil
}

// outputResult writes the crawl result to stdout or the --output file.
func outputResult(cfg *config.Config, result *model.CrawlReport) error {
	var out io.Writer = os.Stdout
	if cfg.OutputFile != "" {
		if dir := filepath.Dir(cfg.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		file, err := os.Create(cfg.OutputFile) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close() //nolint:errcheck // Close error is not actionable here
		out = file
	}

	var w report.Writer
	if cfg.Markdown {
		w = report.NewMarkdownWriter(out)
	} else {
		w = report.NewTextWriter(out)
	}

	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
