package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/nrcap/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because the reports are small and the summary keys rely on
// struct tag ordering, which encoding/json preserves.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is written into the batch envelope.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the tool version recorded in WriteAll output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single report in JSON format.
func (w *JSONWriter) Write(report *model.ScenarioReport) (int, error) {
	return w.writeJSON(report)
}

// WriteAll outputs all reports wrapped in a BatchReport envelope.
func (w *JSONWriter) WriteAll(reports []*model.ScenarioReport) (int, error) {
	return w.writeJSON(NewBatchReport(reports, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// BatchReport wraps the reports of one run with metadata.
//
// Design decision: We wrap the reports rather than adding fields to
// ScenarioReport because this keeps output-specific fields out of the
// core data structure.
type BatchReport struct {
	// Version is the nrcap version that generated this report.
	Version string `json:"version,omitempty"`

	// Generated is when the batch was written.
	Generated time.Time `json:"generated"`

	// Succeeded and Failed count scenarios by outcome.
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// Scenarios are the individual reports, in run order.
	Scenarios []*model.ScenarioReport `json:"scenarios"`
}

// NewBatchReport creates a BatchReport wrapper with version information.
// Nil entries (scenarios that never ran) are dropped.
func NewBatchReport(reports []*model.ScenarioReport, version string) *BatchReport {
	b := &BatchReport{
		Version:   version,
		Generated: time.Now(),
		Scenarios: make([]*model.ScenarioReport, 0, len(reports)),
	}
	for _, r := range reports {
		if r == nil {
			continue
		}
		if r.Succeeded() {
			b.Succeeded++
		} else {
			b.Failed++
		}
		b.Scenarios = append(b.Scenarios, r)
	}
	return b
}
