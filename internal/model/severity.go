package model

// Severity represents how much attention an advisory deserves.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo marks notes about modelling simplifications that apply
	// to every run, e.g. uplink traffic not being dimensioned.
	SeverityInfo Severity = iota

	// SeverityWarning marks inputs or results that are valid but likely
	// not what the planner intended, e.g. a traffic mix not summing to 1.
	SeverityWarning
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity is the inverse of Severity.String. Unknown text maps to
// SeverityInfo.
func ParseSeverity(s string) Severity {
	if s == SeverityWarning.String() {
		return SeverityWarning
	}
	return SeverityInfo
}

// Advisory codes.
const (
	AdvisoryRatioSum        = "ratio_sum_mismatch"
	AdvisoryUplinkIgnored   = "uplink_not_dimensioned"
	AdvisoryFR2Selected     = "fr2_selected"
	AdvisoryNoSubscribers   = "no_subscribers"
	AdvisoryFullUtilization = "full_utilization"
)

// AdvisoryInfo contains metadata about an advisory code.
type AdvisoryInfo struct {
	Severity       Severity
	Title          string
	Recommendation string
}

// advisoryInfoMapping maps advisory codes to their metadata.
var advisoryInfoMapping = map[string]AdvisoryInfo{
	AdvisoryRatioSum: {
		Severity:       SeverityWarning,
		Title:          "Traffic mix does not sum to 1",
		Recommendation: "Check the eMBB, URLLC and mMTC ratios; demand scales with each ratio independently.",
	},
	AdvisoryFR2Selected: {
		Severity:       SeverityWarning,
		Title:          "Dimensioned on FR2",
		Recommendation: "FR2 cells cover far less area than FR1 cells. Confirm coverage with a link budget before committing to an mmWave-only layout.",
	},
	AdvisoryNoSubscribers: {
		Severity:       SeverityWarning,
		Title:          "No subscribers",
		Recommendation: "Subscriber density is zero, so no capacity sites are required. Coverage sites are not modelled.",
	},
	AdvisoryFullUtilization: {
		Severity:       SeverityWarning,
		Title:          "Cells planned at full load",
		Recommendation: "A utilization of 1 leaves no headroom for busy-hour peaks; 0.6 to 0.8 is typical.",
	},
	AdvisoryUplinkIgnored: {
		Severity:       SeverityInfo,
		Title:          "Uplink not dimensioned",
		Recommendation: "Cell counts are driven by downlink demand only.",
	},
}

// GetAdvisoryInfo returns the metadata for an advisory code.
// Unknown codes are reported as informational.
func GetAdvisoryInfo(code string) AdvisoryInfo {
	if info, ok := advisoryInfoMapping[code]; ok {
		return info
	}
	return AdvisoryInfo{
		Severity: SeverityInfo,
		Title:    code,
	}
}
