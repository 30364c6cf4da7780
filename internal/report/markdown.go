package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/mkosuda/linkmap/internal/model"
)

// MarkdownWriter outputs the crawl result as a GitHub-flavored
// Markdown document with a summary table and the link inventory,
// suitable for checking into documentation or sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the report as Markdown.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Link Inventory")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + report.SeedURL + "`"},
			{"Scope", "`" + report.Scope + "`"},
			{"Links Found", strconv.Itoa(report.LinkCount())},
			{"Pages Fetched", strconv.Itoa(report.PagesFetched)},
			{"Fetch Errors", strconv.Itoa(report.FetchErrors)},
			{"Branch Timeouts", strconv.Itoa(report.BranchTimeouts)},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.String()},
		},
	})
	md.PlainText("")

	md.H2("Links")
	md.PlainText("")
	if report.LinkCount() == 0 {
		md.PlainText("No in-scope links discovered.")
	} else {
		md.BulletList(report.Links...)
	}
	md.PlainText("")

	return len(md.String()), md.Build()
}
