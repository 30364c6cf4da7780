// Package config provides configuration structures and utilities for
// linkmap. It defines the crawl options populated from CLI flags and
// the optional .linkmap YAML file with per-domain overrides.
package config
