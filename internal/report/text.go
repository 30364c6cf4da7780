package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mkosuda/linkmap/internal/model"
)

// TextWriter outputs the plain-text crawl result: every discovered
// link, lexicographically sorted, one per line, followed by an
// elapsed-time summary. This is the default CLI output and is meant to
// be grep- and pipe-friendly.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the report as plain text.
func (w *TextWriter) Write(report *model.CrawlReport) (int, error) {
	var b strings.Builder

	for _, link := range report.Links {
		b.WriteString(link)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Crawling finished in %.1f seconds\n", report.ElapsedSeconds())

	return io.WriteString(w.output, b.String())
}
