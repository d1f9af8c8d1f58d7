package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/trialtab/internal/analysis"
)

const ruleWidth = 60

// SimpleWriter outputs plain text tables for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the per-subject trial counts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the per-subject section.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *analysis.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeByParent(&sb, summary)
	w.writeBySceneParent(&sb, summary)
	w.writeByScene(&sb, summary)
	if w.verbose {
		w.writePerSubject(&sb, summary)
	}

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *analysis.Summary) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Dataset:  %s\n", summary.Dataset)
	fmt.Fprintf(sb, "Subjects: %d\n", summary.Subjects)
	fmt.Fprintf(sb, "Noticed:  %d (%s)\n", summary.Noticed, formatMean(noticedShare(summary)))
	fmt.Fprintf(sb, "Trials:   %d\n", summary.Trials)
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeByParent(sb *strings.Builder, summary *analysis.Summary) {
	section(sb, "NOTICED BY PARENT")
	fmt.Fprintf(sb, "%-10s %8s %6s\n", "parent", "noticed", "n")
	for _, r := range summary.ByParent {
		fmt.Fprintf(sb, "%-10s %8s %6d\n", r.Parent, formatMean(r.Mean), r.N)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeBySceneParent(sb *strings.Builder, summary *analysis.Summary) {
	section(sb, "NOTICED BY SCENE AND PARENT")
	fmt.Fprintf(sb, "%6s %-10s %8s %6s\n", "scene", "parent", "noticed", "n")
	for _, r := range summary.BySceneParent {
		fmt.Fprintf(sb, "%6d %-10s %8s %6d\n", r.Scene, r.Parent, formatMean(r.Mean), r.N)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeByScene(sb *strings.Builder, summary *analysis.Summary) {
	section(sb, "COUNTS BY SCENE")
	fmt.Fprintf(sb, "%6s %7s %8s %8s %10s\n", "scene", "trials", "mean", "median", "mean rt")
	for _, r := range summary.ByScene {
		fmt.Fprintf(sb, "%6d %7d %8s %8s %10.1f\n",
			r.Scene, r.Trials, formatMean(r.MeanCount), formatMean(r.MedianCount), r.MeanRT)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writePerSubject(sb *strings.Builder, summary *analysis.Summary) {
	section(sb, "TRIALS PER SUBJECT")
	fmt.Fprintf(sb, "%6s %6s\n", "uid", "n")
	for _, r := range summary.PerSubject {
		fmt.Fprintf(sb, "%6d %6d\n", r.UID, r.N)
	}
	sb.WriteString("\n")
}
