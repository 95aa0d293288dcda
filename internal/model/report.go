package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/nrcap/internal/capacity"
)

// ScenarioReport is the result of dimensioning one named scenario.
// Pipeline steps fill it in order; a step that fails sets Error and the
// remaining fields stay nil.
//
// Design decision: The rounded Summary is what planners read, but the
// unrounded values are kept alongside it so that report writers and
// metrics never have to recompute from rounded numbers.
type ScenarioReport struct {
	// === Basic Information ===

	// Scenario is the scenario name from the config file, or "cli".
	Scenario string `json:"scenario"`

	// RunID identifies this run in logs and API responses.
	RunID string `json:"run_id"` //nolint:tagliatelle // run_id is conventional

	// DateGenerated is when the report was created.
	DateGenerated time.Time `json:"date_generated"`

	// Input is the raw input as given by the user.
	Input capacity.Input `json:"input"`

	// Utilization is the cell utilization factor applied to this run.
	Utilization float64 `json:"utilization"`

	// Params is the validated parameter record.
	// Set by the params step.
	Params *capacity.Params `json:"-"`

	// === Intermediate Values ===

	// TotalTrafficMbps is the unrounded aggregate demand.
	TotalTrafficMbps float64 `json:"total_traffic_mbps"`

	// TrafficMix splits the demand by traffic class.
	TrafficMix *capacity.TrafficMix `json:"traffic_mix,omitempty"`

	// FR1ThroughputMbps is the unrounded FR1 per-cell throughput.
	FR1ThroughputMbps float64 `json:"fr1_throughput_mbps"`

	// FR2ThroughputMbps is the unrounded FR2 per-cell throughput.
	FR2ThroughputMbps float64 `json:"fr2_throughput_mbps"`

	// Sites holds the per-range cell counts and the selected range.
	Sites *capacity.SiteEstimate `json:"sites,omitempty"`

	// === Result ===

	// Summary is the labeled, rounded result.
	Summary *capacity.Summary `json:"summary,omitempty"`

	// Advisories are notes for the planner, in the order they were raised.
	Advisories []Advisory `json:"advisories,omitempty"`

	// === Run State ===

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error contains the error that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// Advisory is a note about a scenario's inputs or result.
type Advisory struct {
	// Code is the machine-readable advisory code, e.g. AdvisoryRatioSum.
	Code string `json:"code"`

	// Severity is how much attention the advisory deserves.
	Severity Severity `json:"-"`

	// SeverityText is the string form of Severity for serialization.
	SeverityText string `json:"severity"`

	// Title is a short human-readable description.
	Title string `json:"title"`

	// Detail holds scenario-specific context, e.g. the actual ratio sum.
	Detail string `json:"detail,omitempty"`

	// Recommendation suggests what the planner should check.
	Recommendation string `json:"recommendation,omitempty"`
}

// UnmarshalJSON restores Severity from its serialized text so that decoded
// reports filter like fresh ones.
func (a *Advisory) UnmarshalJSON(data []byte) error {
	type plain Advisory
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Advisory(p)
	a.Severity = ParseSeverity(a.SeverityText)
	return nil
}

// NewAdvisory builds an advisory from a code and scenario-specific detail.
func NewAdvisory(code, detail string) Advisory {
	info := GetAdvisoryInfo(code)
	return Advisory{
		Code:           code,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          info.Title,
		Detail:         detail,
		Recommendation: info.Recommendation,
	}
}

// NewScenarioReport creates a new report for the given scenario.
func NewScenarioReport(name string, in capacity.Input) *ScenarioReport {
	return &ScenarioReport{
		Scenario:      name,
		RunID:         uuid.NewString(),
		DateGenerated: time.Now(),
		Input:         in,
		Utilization:   capacity.DefaultUtilization,
	}
}

// AddAdvisory appends an advisory. An advisory with a code already present
// is ignored.
func (r *ScenarioReport) AddAdvisory(a Advisory) {
	for _, existing := range r.Advisories {
		if existing.Code == a.Code {
			return
		}
	}
	r.Advisories = append(r.Advisories, a)
}

// AdvisoriesBySeverity returns advisories with the given severity.
func (r *ScenarioReport) AdvisoriesBySeverity(s Severity) []Advisory {
	var out []Advisory
	for _, a := range r.Advisories {
		if a.Severity == s {
			out = append(out, a)
		}
	}
	return out
}

// SetError records err as the reason the pipeline stopped.
func (r *ScenarioReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Succeeded reports whether a summary was produced without error.
func (r *ScenarioReport) Succeeded() bool {
	return r.Error == nil && r.Summary != nil
}

// AddStep records a completed pipeline step.
func (r *ScenarioReport) AddStep(name string) {
	r.PerformedSteps = append(r.PerformedSteps, name)
}
