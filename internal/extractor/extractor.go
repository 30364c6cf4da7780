package extractor

import (
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// hrefPattern matches href attributes inside anchor tags. It accepts
// single or double quotes and captures the raw reference, absolute or
// relative. Fragment-only references are skipped during resolution.
var hrefPattern = regexp.MustCompile(`(?i)<a\s+[^>]*?href\s*=\s*["']([^"']+)["']`)

// defaultExcludedExtensions are path suffixes that identify media,
// document, and archive resources. Such URLs are never crawl targets.
var defaultExcludedExtensions = []string{
	// images
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".ico",
	// documents
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	// audio/video
	".mp3", ".mp4", ".avi", ".mov", ".mkv", ".wav", ".ogg",
	// archives and binaries
	".zip", ".tar", ".gz", ".rar", ".7z", ".exe", ".dmg", ".iso",
}

// defaultExcludedSubstrings reject a URL when they appear anywhere in
// its string, regardless of extension.
var defaultExcludedSubstrings = []string{"download", "upload", "git"}

// Extractor scans page content for in-scope links. Create one with New;
// it is stateless per call and safe for concurrent use.
type Extractor struct {
	excludedExtensions []string
	excludedSubstrings []string
	logger             *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithExcludedExtensions replaces the default extension exclusion list.
// Extensions must include the leading dot and are matched
// case-insensitively against the URL path.
func WithExcludedExtensions(exts []string) Option {
	return func(e *Extractor) {
		if len(exts) > 0 {
			e.excludedExtensions = exts
		}
	}
}

// WithExcludedSubstrings replaces the default substring exclusion list.
func WithExcludedSubstrings(subs []string) Option {
	return func(e *Extractor) {
		if len(subs) > 0 {
			e.excludedSubstrings = subs
		}
	}
}

// WithLogger sets a custom logger for dropped-candidate diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		excludedExtensions: defaultExcludedExtensions,
		excludedSubstrings: defaultExcludedSubstrings,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract returns the deduplicated in-scope links found in content.
// Relative references are resolved against pageURL before filtering.
// Order is unspecified. A candidate that cannot be resolved is dropped
// and logged; it never aborts extraction of the remaining links.
func (e *Extractor) Extract(scope, pageURL, content string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		e.logger.Debug("unparseable page URL, skipping extraction",
			"page", pageURL,
			"error", err,
		)
		return nil
	}

	seen := make(map[string]struct{})
	links := make([]string, 0)

	for _, match := range hrefPattern.FindAllStringSubmatch(content, -1) {
		raw := strings.TrimSpace(match[1])

		resolved, err := resolve(base, raw)
		if err != nil {
			e.logger.Debug("dropping unresolvable href",
				"href", raw,
				"page", pageURL,
				"error", err,
			)
			continue
		}
		if resolved == "" {
			continue
		}

		// Exclusion filter runs before the scope filter.
		if e.excluded(resolved) {
			continue
		}
		if !strings.Contains(resolved, scope) {
			continue
		}

		if _, ok := seen[resolved]; ok {
			continue
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	}

	return links
}

// resolve turns a raw href into an absolute URL using base, per
// standard URI-reference resolution. Non-HTTP(S) results, such as
// mailto: and javascript: references, resolve to the empty string.
func resolve(base *url.URL, raw string) (string, error) {
	if raw == "" || strings.HasPrefix(raw, "#") {
		return "", nil
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", nil
	}
	return resolved.String(), nil
}

// excluded reports whether link matches the extension or substring
// exclusion lists.
func (e *Extractor) excluded(link string) bool {
	for _, sub := range e.excludedSubstrings {
		if strings.Contains(link, sub) {
			return true
		}
	}

	u, err := url.Parse(link)
	if err != nil {
		return true
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" {
		return false
	}
	for _, excluded := range e.excludedExtensions {
		if ext == excluded {
			return true
		}
	}
	return false
}
