// Package report renders crawl results.
//
// Two writers implement the Writer interface: TextWriter prints the
// sorted link inventory one URL per line with a timing summary, which
// is the default CLI output, and MarkdownWriter produces a shareable
// Markdown document. Report rendering is separated from the report data
// (internal/model) so formats can be added without touching the crawl
// engine.
package report
