package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/trialtab/internal/analysis"
)

// MarkdownWriter outputs summaries in Markdown format, with a mermaid pie
// chart of subjects per parent category.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *analysis.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeByParent(md, summary)
	w.writeBySceneParent(md, summary)
	w.writeByScene(md, summary)
	w.writePerSubject(md, summary)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *analysis.Summary) {
	md.H1("Noticing Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Dataset", "`" + summary.Dataset + "`"},
			{"Subjects", strconv.Itoa(summary.Subjects)},
			{"Noticed", fmt.Sprintf("%d (%s)", summary.Noticed, formatMean(noticedShare(summary)))},
			{"Counting trials", strconv.Itoa(summary.Trials)},
		},
	})
	md.PlainText("")

	switch {
	case summary.Subjects == 0:
		md.Warningf("The noticed dataset of %s has no subjects.", summary.Dataset)
	case summary.Noticed == 0:
		md.Importantf("None of the %d subjects noticed the probe.", summary.Subjects)
	default:
		md.Note(fmt.Sprintf("%d of %d subjects noticed the probe.", summary.Noticed, summary.Subjects))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeByParent(md *markdown.Markdown, summary *analysis.Summary) {
	md.H2("Noticed by Parent")
	md.PlainText("")

	rows := make([][]string, len(summary.ByParent))
	for i, r := range summary.ByParent {
		rows[i] = []string{r.Parent.String(), formatMean(r.Mean), strconv.Itoa(r.N)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Parent", "Noticed", "N"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(summary.ByParent) > 0 {
		w.writePieChart(md, summary)
	}
}

// writePieChart writes a mermaid pie chart of subjects per parent category.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *analysis.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Subjects per Parent"),
		piechart.WithShowData(true),
	)
	for _, r := range summary.ByParent {
		chart.LabelAndIntValue(r.Parent.String(), uint64(r.N)) //nolint:gosec // group sizes are positive
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeBySceneParent(md *markdown.Markdown, summary *analysis.Summary) {
	md.H2("Noticed by Scene and Parent")
	md.PlainText("")

	rows := make([][]string, len(summary.BySceneParent))
	for i, r := range summary.BySceneParent {
		rows[i] = []string{
			strconv.Itoa(int(r.Scene)),
			r.Parent.String(),
			formatMean(r.Mean),
			strconv.Itoa(r.N),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Scene", "Parent", "Noticed", "N"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeByScene(md *markdown.Markdown, summary *analysis.Summary) {
	md.H2("Counts by Scene")
	md.PlainText("")

	rows := make([][]string, len(summary.ByScene))
	for i, r := range summary.ByScene {
		rows[i] = []string{
			strconv.Itoa(int(r.Scene)),
			strconv.Itoa(r.Trials),
			formatMean(r.MeanCount),
			formatMean(r.MedianCount),
			strconv.FormatFloat(r.MeanRT, 'f', 1, 64),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Scene", "Trials", "Mean", "Median", "Mean RT (ms)"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writePerSubject(md *markdown.Markdown, summary *analysis.Summary) {
	if len(summary.PerSubject) == 0 {
		return
	}

	rows := make([]string, len(summary.PerSubject))
	for i, r := range summary.PerSubject {
		rows[i] = fmt.Sprintf("uid %d: %d trials", r.UID, r.N)
	}
	md.H2("Trials per Subject")
	md.PlainText("")
	md.BulletList(rows...)
	md.PlainText("")
}
