package report

import (
	"io"
	"math"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for planning documents and pull requests.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, GitHub alerts and mermaid charts
// without hand-building the syntax.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScenarioReport) (int, error) {
	return w.WriteAll([]*model.ScenarioReport{report})
}

// WriteAll outputs all reports as one Markdown document. With more than
// one report, an index of the scenarios precedes the per-scenario sections.
func (w *MarkdownWriter) WriteAll(reports []*model.ScenarioReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("NR Capacity Dimensioning Report")
	md.PlainText("")

	if len(reports) > 1 {
		w.writeIndex(md, reports)
	}

	for _, report := range reports {
		if report == nil {
			continue
		}
		w.writeScenario(md, report)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeIndex lists the scenarios in input order with their own headline
// numbers. Rows are independent and carry no ranking.
func (w *MarkdownWriter) writeIndex(md *markdown.Markdown, reports []*model.ScenarioReport) {
	md.H2("Scenarios")
	md.PlainText("")

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			continue
		}
		if !r.Succeeded() {
			rows = append(rows, []string{r.Scenario, "-", "-", "-", "❌ " + r.ErrorMessage})
			continue
		}
		rows = append(rows, []string{
			r.Scenario,
			strconv.FormatFloat(r.Summary.TotalTrafficMbps, 'f', 2, 64),
			strconv.Itoa(r.Summary.Cells),
			strconv.Itoa(r.Summary.Sites),
			string(r.Sites.Selected),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Scenario", capacity.LabelTotalTraffic, "Cells", "Sites", "Range"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeScenario writes all sections for one scenario.
func (w *MarkdownWriter) writeScenario(md *markdown.Markdown, report *model.ScenarioReport) {
	md.H2("Scenario: " + report.Scenario)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Generated", report.DateGenerated.Format("2006-01-02 15:04:05 MST")},
			{"Utilization", strconv.FormatFloat(report.Utilization, 'f', 2, 64)},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")

	if report.Summary == nil {
		md.Cautionf("Scenario %q could not be dimensioned: %s", report.Scenario, report.ErrorMessage)
		md.PlainText("")
		return
	}

	w.writeSummary(md, report.Summary)
	w.writeRanges(md, report)
	w.writeTrafficMix(md, report.TrafficMix)
	w.writeAdvisories(md, report)
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ScenarioReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	if len(report.AdvisoriesBySeverity(model.SeverityWarning)) > 0 {
		return "⚠️ Complete with warnings"
	}
	return "✅ Complete"
}

// writeSummary writes the labeled summary table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *capacity.Summary) {
	md.H3("Summary")
	md.PlainText("")

	entries := summary.Entries()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Label, formatEntry(sprintfPlain, e)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRanges writes the FR1 and FR2 cell counts side by side.
func (w *MarkdownWriter) writeRanges(md *markdown.Markdown, report *model.ScenarioReport) {
	if report.Sites == nil {
		return
	}
	sites := report.Sites

	selected := func(fr capacity.FrequencyRange) string {
		if fr == sites.Selected {
			return "✅"
		}
		return ""
	}

	md.H3("Frequency Ranges")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Range", "Cell Throughput (Mbps)", "Cells", "Selected"},
		Rows: [][]string{
			{string(capacity.FR1), strconv.FormatFloat(capacity.Round2(report.FR1ThroughputMbps), 'f', 2, 64), strconv.Itoa(sites.FR1Cells), selected(capacity.FR1)},
			{string(capacity.FR2), strconv.FormatFloat(capacity.Round2(report.FR2ThroughputMbps), 'f', 2, 64), strconv.Itoa(sites.FR2Cells), selected(capacity.FR2)},
		},
	})
	md.PlainText("")
}

// writeTrafficMix writes a mermaid pie chart of demand per traffic class.
// Values are rounded to whole Mbps.
func (w *MarkdownWriter) writeTrafficMix(md *markdown.Markdown, mix *capacity.TrafficMix) {
	if mix == nil || mix.Total() == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Busy-Hour Traffic Mix (Mbps)"),
		piechart.WithShowData(true),
	)

	for _, class := range []struct {
		label string
		mbps  float64
	}{
		{"eMBB", mix.EMBB},
		{"URLLC", mix.URLLC},
		{"mMTC", mix.MMTC},
	} {
		if v := math.Round(class.mbps); v > 0 {
			chart.LabelAndIntValue(class.label, uint64(v))
		}
	}

	md.H3("Traffic Mix")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAdvisories writes advisories as a table, preceded by an alert.
func (w *MarkdownWriter) writeAdvisories(md *markdown.Markdown, report *model.ScenarioReport) {
	md.H3("Advisories")
	md.PlainText("")

	if len(report.Advisories) == 0 {
		md.Tip("No advisories for this scenario.")
		md.PlainText("")
		return
	}

	if warnings := report.AdvisoriesBySeverity(model.SeverityWarning); len(warnings) > 0 {
		md.Warningf("%d warning(s) should be reviewed before using these numbers.", len(warnings))
	} else {
		md.Note("Only informational advisories.")
	}
	md.PlainText("")

	rows := make([][]string, len(report.Advisories))
	for i, a := range report.Advisories {
		detail := a.Detail
		if detail == "" {
			detail = "-"
		}
		rows[i] = []string{a.SeverityText, a.Title, detail, a.Recommendation}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Title", "Detail", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [nrcap](https://github.com/nao1215/nrcap)*")
}
