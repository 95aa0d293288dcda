package report

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: Numbers are formatted through golang.org/x/text/message
// so that traffic figures in the hundreds of thousands get digit grouping
// for the chosen language (134,838.33 in English, 134.838,33 in German).
type SimpleWriter struct {
	baseWriter

	// printer formats numbers for the configured language.
	printer *message.Printer

	// verbose adds the per-range detail and traffic mix sections.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithLanguage sets the language used for number formatting.
// The default is English.
func WithLanguage(tag language.Tag) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.printer = message.NewPrinter(tag)
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScenarioReport) (int, error) {
	return w.WriteAll([]*model.ScenarioReport{report})
}

// WriteAll outputs all reports followed by a single footer.
func (w *SimpleWriter) WriteAll(reports []*model.ScenarioReport) (int, error) {
	var sb strings.Builder

	for _, report := range reports {
		if report == nil {
			continue
		}
		w.writeHeader(&sb, report)
		w.writeSummary(&sb, report)
		if w.verbose {
			w.writeDetail(&sb, report)
		}
		w.writeAdvisories(&sb, report)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeSection writes a section title between two rules.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScenarioReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                    NR CAPACITY DIMENSIONING REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(w.printer.Sprintf("Scenario:       %s\n", report.Scenario))
	sb.WriteString(w.printer.Sprintf("Run ID:         %s\n", report.RunID))
	sb.WriteString(w.printer.Sprintf("Generated:      %s\n", report.DateGenerated.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(w.printer.Sprintf("Subscribers:    %.0f\n", report.Input.AreaKm2*report.Input.SubscriberDensity))
	sb.WriteString(w.printer.Sprintf("Utilization:    %.2f\n", report.Utilization))
	sb.WriteString(w.printer.Sprintf("Status:         %s\n", statusText(report)))
	sb.WriteString("\n")
}

// writeSummary writes the labeled summary values, right-aligned.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScenarioReport) {
	if report.Summary == nil {
		return
	}

	writeSection(sb, "SUMMARY")
	for _, e := range report.Summary.Entries() {
		sb.WriteString(w.printer.Sprintf("  %-30s %20s\n", e.Label+":", formatEntry(func(format string, a ...any) string { return w.printer.Sprintf(format, a...) }, e)))
	}
	sb.WriteString("\n")
}

// writeDetail writes the per-range cell counts and the traffic mix.
func (w *SimpleWriter) writeDetail(sb *strings.Builder, report *model.ScenarioReport) {
	if report.Sites == nil || report.TrafficMix == nil {
		return
	}

	writeSection(sb, "DETAIL")

	sites := report.Sites
	sb.WriteString(w.printer.Sprintf("  %-8s %14s %10s\n", "Range", "Mbps/cell", "Cells"))
	for _, row := range []struct {
		fr         capacity.FrequencyRange
		throughput float64
		cells      int
	}{
		{capacity.FR1, report.FR1ThroughputMbps, sites.FR1Cells},
		{capacity.FR2, report.FR2ThroughputMbps, sites.FR2Cells},
	} {
		marker := ""
		if row.fr == sites.Selected {
			marker = "  <- selected"
		}
		sb.WriteString(w.printer.Sprintf("  %-8s %14.2f %10d%s\n", row.fr, row.throughput, row.cells, marker))
	}
	sb.WriteString("\n")

	mix := report.TrafficMix
	sb.WriteString(w.printer.Sprintf("  eMBB:   %14.2f Mbps\n", mix.EMBB))
	sb.WriteString(w.printer.Sprintf("  URLLC:  %14.2f Mbps\n", mix.URLLC))
	sb.WriteString(w.printer.Sprintf("  mMTC:   %14.2f Mbps\n", mix.MMTC))
	sb.WriteString("\n")
}

// writeAdvisories writes advisories, warnings first.
func (w *SimpleWriter) writeAdvisories(sb *strings.Builder, report *model.ScenarioReport) {
	if len(report.Advisories) == 0 {
		return
	}

	writeSection(sb, "ADVISORIES")

	for _, severity := range []model.Severity{model.SeverityWarning, model.SeverityInfo} {
		advisories := report.AdvisoriesBySeverity(severity)
		if len(advisories) == 0 {
			continue
		}

		sb.WriteString(w.printer.Sprintf("[%s] %s\n", severityIndicator(severity), severity.String()))
		for _, a := range advisories {
			sb.WriteString(w.printer.Sprintf("  * %s\n", a.Title))
			if a.Detail != "" {
				sb.WriteString(w.printer.Sprintf("    %s\n", a.Detail))
			}
			if w.verbose && a.Recommendation != "" {
				sb.WriteString(w.printer.Sprintf("    Recommendation: %s\n", a.Recommendation))
			}
		}
		sb.WriteString("\n")
	}
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityWarning:
		return "!"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by nrcap\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
