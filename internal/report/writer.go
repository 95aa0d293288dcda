package report

import (
	"fmt"
	"io"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
)

// Writer defines the interface for report output.
// Implementations write dimensioning results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same
// API.
type Writer interface {
	// Write outputs a single scenario report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScenarioReport) (int, error)

	// WriteAll outputs the reports of a batch run as one document.
	WriteAll(reports []*model.ScenarioReport) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ScenarioReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteAll outputs the reports to all configured Writers.
func (m *MultiWriter) WriteAll(reports []*model.ScenarioReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteAll(reports)
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

// statusText returns a one-line status for a report.
func statusText(report *model.ScenarioReport) string {
	switch {
	case report.ErrorMessage != "":
		return "ERROR - " + report.ErrorMessage
	case report.Summary == nil:
		return "Incomplete"
	default:
		return "Complete"
	}
}

// sprintfPlain formats without digit grouping, for machine-friendly output.
var sprintfPlain = fmt.Sprintf

// formatEntry formats a summary value with the given printer function.
// Floats get two decimals; counts are printed as integers.
func formatEntry(sprintf func(format string, a ...any) string, e capacity.Entry) string {
	switch v := e.Value.(type) {
	case float64:
		return sprintf("%.2f", v)
	case int:
		return sprintf("%d", v)
	default:
		return fmt.Sprint(v)
	}
}
