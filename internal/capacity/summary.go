package capacity

import "math"

// Summary labels, in output order.
const (
	LabelTotalTraffic  = "Total Traffic (Mbps)"
	LabelFR1Throughput = "FR1 Cell Throughput (Mbps)"
	LabelFR2Throughput = "FR2 Cell Throughput (Mbps)"
	LabelCells         = "Estimated Cells Required"
	LabelSites         = "Estimated Sites Required"
)

// Summary is the labeled result of one dimensioning run.
// Float values are rounded to two decimal places.
// The JSON keys are the display labels, in display order.
type Summary struct {
	TotalTrafficMbps  float64 `json:"Total Traffic (Mbps)"`
	FR1ThroughputMbps float64 `json:"FR1 Cell Throughput (Mbps)"`
	FR2ThroughputMbps float64 `json:"FR2 Cell Throughput (Mbps)"`
	Cells             int     `json:"Estimated Cells Required"`
	Sites             int     `json:"Estimated Sites Required"`
}

// Entry is one labeled summary value. Value holds a float64 or an int.
type Entry struct {
	Label string
	Value any
}

// Entries returns the summary as an ordered label/value list.
func (s Summary) Entries() []Entry {
	return []Entry{
		{LabelTotalTraffic, s.TotalTrafficMbps},
		{LabelFR1Throughput, s.FR1ThroughputMbps},
		{LabelFR2Throughput, s.FR2ThroughputMbps},
		{LabelCells, s.Cells},
		{LabelSites, s.Sites},
	}
}

// Result carries the summary together with the unrounded intermediate
// values it was built from.
type Result struct {
	Summary           Summary
	TotalTrafficMbps  float64
	Mix               TrafficMix
	FR1ThroughputMbps float64
	FR2ThroughputMbps float64
	Sites             SiteEstimate
}

// GenerateSummary runs the full estimation for p.
// Cells per site always comes from p; only WithUtilization is honoured.
func GenerateSummary(p Params, opts ...EstimateOption) (Summary, error) {
	res, err := Estimate(p, opts...)
	if err != nil {
		return Summary{}, err
	}
	return res.Summary, nil
}

// Estimate is GenerateSummary with intermediate values.
func Estimate(p Params, opts ...EstimateOption) (Result, error) {
	traffic := TotalTraffic(p)
	fr1 := p.FR1().Throughput()
	fr2 := p.FR2().Throughput()

	for _, v := range []struct {
		name  string
		value float64
	}{
		{"total traffic", traffic},
		{"FR1 cell throughput", fr1},
		{"FR2 cell throughput", fr2},
	} {
		if err := CheckFinite(v.name, v.value); err != nil {
			return Result{}, err
		}
	}

	siteOpts := append(append([]EstimateOption{}, opts...), WithCellsPerSite(p.cellsPerSite))
	sites, err := EstimateSiteDetail(traffic, fr1, fr2, siteOpts...)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Summary:           NewSummary(traffic, fr1, fr2, sites),
		TotalTrafficMbps:  traffic,
		Mix:               TrafficByClass(p),
		FR1ThroughputMbps: fr1,
		FR2ThroughputMbps: fr2,
		Sites:             sites,
	}, nil
}

// NewSummary assembles the rounded summary from unrounded intermediate
// values and a site estimate.
func NewSummary(traffic, fr1Throughput, fr2Throughput float64, sites SiteEstimate) Summary {
	return Summary{
		TotalTrafficMbps:  Round2(traffic),
		FR1ThroughputMbps: Round2(fr1Throughput),
		FR2ThroughputMbps: Round2(fr2Throughput),
		Cells:             sites.Cells,
		Sites:             sites.Sites,
	}
}

// roundLimit is the magnitude above which float64 carries no fractional
// digits worth rounding and v*100 may overflow.
const roundLimit = 1e15

// Round2 rounds v to two decimal places. Ties round to even, so 0.125
// becomes 0.12. Values of magnitude 1e15 and above, NaN and infinities
// are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.Abs(v) >= roundLimit {
		return v
	}
	return math.RoundToEven(v*100) / 100
}
