package report

import (
	"io"
	"strconv"

	"github.com/nao1215/trialtab/internal/analysis"
)

// Writer defines the interface for summary output.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *analysis.Summary) (int, error)
}

// MultiWriter writes to multiple Writers, for example the terminal and a file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(summary *analysis.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// formatMean renders a proportion or mean with three decimals.
func formatMean(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// noticedShare returns the overall noticing rate, or 0 without subjects.
func noticedShare(summary *analysis.Summary) float64 {
	if summary.Subjects == 0 {
		return 0
	}
	return float64(summary.Noticed) / float64(summary.Subjects)
}
