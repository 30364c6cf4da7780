package report

import (
	"io"

	"github.com/mkosuda/linkmap/internal/model"
)

// Writer renders a crawl report to a configured destination.
// Implementations return the number of bytes written.
type Writer interface {
	Write(report *model.CrawlReport) (int, error)
}

// baseWriter holds the output stream shared by all writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter for the given stream.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
