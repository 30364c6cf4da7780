package config

// DomainConfig holds per-domain crawl overrides. Keys in the file are
// bare hosts (e.g. "orf.at"); the overrides apply when the seed URL's
// host matches.
type DomainConfig struct {
	// UserAgent overrides the User-Agent header for this domain.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are extra HTTP headers for this domain, e.g. a cookie or
	// authorization needed to reach member-only pages.
	Headers map[string]string `yaml:"headers,omitempty"`

	// TimeoutSeconds overrides the per-attempt fetch timeout.
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`

	// MaxRetries overrides the fetch attempt budget.
	MaxRetries int `yaml:"maxRetries,omitempty"`

	// ExcludeSubstrings replaces the default substring exclusion list
	// ("download", "upload", "git") for this domain.
	ExcludeSubstrings []string `yaml:"excludeSubstrings,omitempty"`
}

// File represents the structure of the .linkmap configuration file.
type File struct {
	// Defaults apply to every domain unless overridden.
	Defaults DomainConfig `yaml:"defaults,omitempty"`

	// Domains maps hosts to their specific overrides.
	Domains map[string]DomainConfig `yaml:"domains,omitempty"`
}

// GetDomainConfig returns the configuration for host, merging the
// host-specific entry over the defaults.
func (f *File) GetDomainConfig(host string) DomainConfig {
	result := f.Defaults

	dc, ok := f.Domains[host]
	if !ok {
		return result
	}

	if dc.UserAgent != "" {
		result.UserAgent = dc.UserAgent
	}
	if dc.TimeoutSeconds != 0 {
		result.TimeoutSeconds = dc.TimeoutSeconds
	}
	if dc.MaxRetries != 0 {
		result.MaxRetries = dc.MaxRetries
	}
	if len(dc.Headers) > 0 {
		// Copy before merging so the shared defaults map stays untouched.
		merged := make(map[string]string, len(result.Headers)+len(dc.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range dc.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}
	if len(dc.ExcludeSubstrings) > 0 {
		result.ExcludeSubstrings = dc.ExcludeSubstrings
	}
	return result
}
