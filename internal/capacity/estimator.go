package capacity

import (
	"fmt"
	"math"
)

const (
	// URLLCDemandMbps is the fixed per-subscriber URLLC load. URLLC demand
	// is not derived from busy-hour volume.
	URLLCDemandMbps = 0.1

	// MMTCDemandMbps is the fixed per-subscriber mMTC load.
	MMTCDemandMbps = 0.001

	// DefaultUtilization is the share of theoretical cell capacity assumed
	// usable in practice.
	DefaultUtilization = 0.7
)

// FrequencyRange identifies a 5G NR frequency range.
type FrequencyRange string

const (
	// FR1 is sub-6 GHz.
	FR1 FrequencyRange = "FR1"
	// FR2 is millimetre wave.
	FR2 FrequencyRange = "FR2"
)

// TrafficMix is the busy-hour demand per traffic class, in Mbps.
type TrafficMix struct {
	EMBB  float64 `json:"embb_mbps"`
	URLLC float64 `json:"urllc_mbps"`
	MMTC  float64 `json:"mmtc_mbps"`
}

// Total returns the sum of all classes.
func (m TrafficMix) Total() float64 {
	return m.EMBB + m.URLLC + m.MMTC
}

// TotalTraffic returns the aggregate busy-hour network demand in Mbps.
// It is zero when either the area or the density is zero.
func TotalTraffic(p Params) float64 {
	users := p.Subscribers()
	return users * (p.busyHourDLMbps*p.embbRatio +
		URLLCDemandMbps*p.urllcRatio +
		MMTCDemandMbps*p.mmtcRatio)
}

// TrafficByClass splits TotalTraffic by traffic class.
func TrafficByClass(p Params) TrafficMix {
	users := p.Subscribers()
	return TrafficMix{
		EMBB:  users * p.busyHourDLMbps * p.embbRatio,
		URLLC: users * URLLCDemandMbps * p.urllcRatio,
		MMTC:  users * MMTCDemandMbps * p.mmtcRatio,
	}
}

// CellThroughput returns the achievable per-cell data rate in Mbps.
// Inputs are not validated; NewParams is responsible for that.
func CellThroughput(bandwidthMHz, spectralEff, mimoGain float64) float64 {
	return bandwidthMHz * spectralEff * mimoGain
}

// SiteEstimate is the detailed result of the site requirement estimation.
type SiteEstimate struct {
	FR1Cells    int            `json:"fr1_cells"`
	FR2Cells    int            `json:"fr2_cells"`
	Cells       int            `json:"cells"`
	Sites       int            `json:"sites"`
	Selected    FrequencyRange `json:"selected_range"`
	Utilization float64        `json:"utilization"`
}

type estimateOptions struct {
	utilization  float64
	cellsPerSite int
}

// EstimateOption configures EstimateSites and GenerateSummary.
type EstimateOption func(*estimateOptions)

// WithUtilization sets the cell utilization factor, which must lie in (0, 1].
func WithUtilization(u float64) EstimateOption {
	return func(o *estimateOptions) {
		o.utilization = u
	}
}

// WithCellsPerSite sets the number of cells per site.
// GenerateSummary ignores it in favour of the parameter record.
func WithCellsPerSite(n int) EstimateOption {
	return func(o *estimateOptions) {
		o.cellsPerSite = n
	}
}

func newEstimateOptions(opts []EstimateOption) (estimateOptions, error) {
	o := estimateOptions{
		utilization:  DefaultUtilization,
		cellsPerSite: DefaultCellsPerSite,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if math.IsNaN(o.utilization) || o.utilization <= 0 || o.utilization > 1 {
		return o, &ParamError{Field: "utilization", Value: o.utilization, Reason: "must be within (0, 1]"}
	}
	if o.cellsPerSite < 1 {
		return o, &ParamError{Field: "cells_per_site", Value: float64(o.cellsPerSite), Reason: "must be at least 1"}
	}
	return o, nil
}

// EstimateSites translates total traffic and per-cell throughputs into the
// number of cells and sites required. The frequency range needing fewer
// cells is selected.
func EstimateSites(totalTraffic, fr1Throughput, fr2Throughput float64, opts ...EstimateOption) (cells, sites int, err error) {
	est, err := EstimateSiteDetail(totalTraffic, fr1Throughput, fr2Throughput, opts...)
	if err != nil {
		return 0, 0, err
	}
	return est.Cells, est.Sites, nil
}

// EstimateSiteDetail is EstimateSites with the per-range cell counts and
// the selected range. FR1 wins ties.
func EstimateSiteDetail(totalTraffic, fr1Throughput, fr2Throughput float64, opts ...EstimateOption) (SiteEstimate, error) {
	o, err := newEstimateOptions(opts)
	if err != nil {
		return SiteEstimate{}, err
	}

	fr1Cells, err := cellsFor(FR1, totalTraffic, fr1Throughput*o.utilization)
	if err != nil {
		return SiteEstimate{}, err
	}
	fr2Cells, err := cellsFor(FR2, totalTraffic, fr2Throughput*o.utilization)
	if err != nil {
		return SiteEstimate{}, err
	}

	est := SiteEstimate{
		FR1Cells:    fr1Cells,
		FR2Cells:    fr2Cells,
		Cells:       fr1Cells,
		Selected:    FR1,
		Utilization: o.utilization,
	}
	if fr2Cells < fr1Cells {
		est.Cells = fr2Cells
		est.Selected = FR2
	}
	est.Sites = ceilDiv(est.Cells, o.cellsPerSite)
	return est, nil
}

func cellsFor(fr FrequencyRange, traffic, effective float64) (int, error) {
	if math.IsNaN(effective) || effective <= 0 || math.IsInf(effective, 1) {
		return 0, fmt.Errorf("%w: %s effective capacity is %g Mbps", ErrInvalidCapacity, fr, effective)
	}
	if err := CheckFinite("total traffic", traffic); err != nil {
		return 0, err
	}
	n := math.Ceil(traffic / effective)
	if n >= math.MaxInt {
		return 0, fmt.Errorf("%w: %s needs %g cells", ErrOutOfRange, fr, n)
	}
	return int(n), nil
}

// CheckFinite returns an ErrOutOfRange error when the named intermediate
// result v is NaN or infinite. Finite inputs can still overflow float64
// once multiplied together.
func CheckFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is %g", ErrOutOfRange, name, v)
	}
	return nil
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
