package capacity

import "math"

const (
	// DefaultCellsPerSite is the sectorization used when none is given.
	// Three sectors per site is the usual macro deployment.
	DefaultCellsPerSite = 3

	// gbToMbpsPerHour converts a volume in gigabytes transferred over one
	// hour into an average rate in megabits per second (8000 Mbit per GB,
	// 3600 s per hour).
	gbToMbpsPerHour = 8000.0 / 3600.0
)

// Input holds the raw, user-facing dimensioning inputs.
// Busy-hour traffic is given in gigabytes per subscriber. A zero
// CellsPerSite selects DefaultCellsPerSite.
type Input struct {
	AreaKm2           float64 `json:"area_km2" yaml:"area_km2" doc:"Served area in km²"`
	SubscriberDensity float64 `json:"subscriber_density" yaml:"subscriber_density" doc:"Subscribers per km²"`
	BusyHourGBDL      float64 `json:"bht_gb_dl" yaml:"bht_gb_dl" doc:"Busy-hour downlink traffic per subscriber in GB"`
	BusyHourGBUL      float64 `json:"bht_gb_ul" yaml:"bht_gb_ul" doc:"Busy-hour uplink traffic per subscriber in GB"`
	EMBBRatio         float64 `json:"embb_ratio" yaml:"embb_ratio" doc:"eMBB share of the traffic mix (0-1)"`
	URLLCRatio        float64 `json:"urllc_ratio" yaml:"urllc_ratio" doc:"URLLC share of the traffic mix (0-1)"`
	MMTCRatio         float64 `json:"mmtc_ratio" yaml:"mmtc_ratio" doc:"mMTC share of the traffic mix (0-1)"`
	BandwidthFR1MHz   float64 `json:"bandwidth_fr1" yaml:"bandwidth_fr1" doc:"FR1 channel bandwidth in MHz"`
	BandwidthFR2MHz   float64 `json:"bandwidth_fr2" yaml:"bandwidth_fr2" doc:"FR2 channel bandwidth in MHz"`
	MIMOGainFR1       float64 `json:"mimo_gain_fr1" yaml:"mimo_gain_fr1" doc:"FR1 MIMO gain"`
	MIMOGainFR2       float64 `json:"mimo_gain_fr2" yaml:"mimo_gain_fr2" doc:"FR2 MIMO gain"`
	SpectralEffFR1    float64 `json:"spectral_eff_fr1" yaml:"spectral_eff_fr1" doc:"FR1 spectral efficiency in bit/s/Hz"`
	SpectralEffFR2    float64 `json:"spectral_eff_fr2" yaml:"spectral_eff_fr2" doc:"FR2 spectral efficiency in bit/s/Hz"`
	CellsPerSite      int     `json:"cells_per_site,omitempty" yaml:"cells_per_site,omitempty" doc:"Cells (sectors) per site, default 3"`
}

// Params is the frozen, unit-normalized parameter record.
// The zero value is not usable; construct it with NewParams.
type Params struct {
	areaKm2           float64
	subscriberDensity float64
	busyHourDLMbps    float64
	busyHourULMbps    float64
	embbRatio         float64
	urllcRatio        float64
	mmtcRatio         float64
	bandwidthFR1MHz   float64
	bandwidthFR2MHz   float64
	mimoGainFR1       float64
	mimoGainFR2       float64
	spectralEffFR1    float64
	spectralEffFR2    float64
	cellsPerSite      int
}

// NewParams validates in and returns the normalized record.
// The first invalid field is reported as a *ParamError.
func NewParams(in Input) (Params, error) {
	if err := validateInput(in); err != nil {
		return Params{}, err
	}

	cellsPerSite := in.CellsPerSite
	if cellsPerSite == 0 {
		cellsPerSite = DefaultCellsPerSite
	}

	return Params{
		areaKm2:           in.AreaKm2,
		subscriberDensity: in.SubscriberDensity,
		busyHourDLMbps:    GBToMbps(in.BusyHourGBDL),
		busyHourULMbps:    GBToMbps(in.BusyHourGBUL),
		embbRatio:         in.EMBBRatio,
		urllcRatio:        in.URLLCRatio,
		mmtcRatio:         in.MMTCRatio,
		bandwidthFR1MHz:   in.BandwidthFR1MHz,
		bandwidthFR2MHz:   in.BandwidthFR2MHz,
		mimoGainFR1:       in.MIMOGainFR1,
		mimoGainFR2:       in.MIMOGainFR2,
		spectralEffFR1:    in.SpectralEffFR1,
		spectralEffFR2:    in.SpectralEffFR2,
		cellsPerSite:      cellsPerSite,
	}, nil
}

// GBToMbps converts busy-hour volume per subscriber (GB) to an average
// rate over that hour (Mbps).
func GBToMbps(gb float64) float64 {
	return gb * gbToMbpsPerHour
}

type fieldRule struct {
	field string
	value float64
	check func(float64) bool
	why   string
}

func positive(v float64) bool    { return v > 0 }
func nonNegative(v float64) bool { return v >= 0 }
func fraction(v float64) bool    { return v >= 0 && v <= 1 }

func validateInput(in Input) error {
	rules := []fieldRule{
		{"area_km2", in.AreaKm2, positive, "must be positive"},
		{"subscriber_density", in.SubscriberDensity, nonNegative, "must be non-negative"},
		{"bht_gb_dl", in.BusyHourGBDL, nonNegative, "must be non-negative"},
		{"bht_gb_ul", in.BusyHourGBUL, nonNegative, "must be non-negative"},
		{"embb_ratio", in.EMBBRatio, fraction, "must be within [0, 1]"},
		{"urllc_ratio", in.URLLCRatio, fraction, "must be within [0, 1]"},
		{"mmtc_ratio", in.MMTCRatio, fraction, "must be within [0, 1]"},
		{"bandwidth_fr1", in.BandwidthFR1MHz, positive, "must be positive"},
		{"bandwidth_fr2", in.BandwidthFR2MHz, positive, "must be positive"},
		{"mimo_gain_fr1", in.MIMOGainFR1, positive, "must be positive"},
		{"mimo_gain_fr2", in.MIMOGainFR2, positive, "must be positive"},
		{"spectral_eff_fr1", in.SpectralEffFR1, positive, "must be positive"},
		{"spectral_eff_fr2", in.SpectralEffFR2, positive, "must be positive"},
	}

	for _, r := range rules {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return &ParamError{Field: r.field, Value: r.value, Reason: "must be a finite number"}
		}
		if !r.check(r.value) {
			return &ParamError{Field: r.field, Value: r.value, Reason: r.why}
		}
	}

	if in.CellsPerSite < 0 {
		return &ParamError{Field: "cells_per_site", Value: float64(in.CellsPerSite), Reason: "must be at least 1"}
	}
	return nil
}

// AreaKm2 returns the served area in km².
func (p Params) AreaKm2() float64 { return p.areaKm2 }

// SubscriberDensity returns subscribers per km².
func (p Params) SubscriberDensity() float64 { return p.subscriberDensity }

// BusyHourDLMbps returns the per-subscriber busy-hour downlink rate.
func (p Params) BusyHourDLMbps() float64 { return p.busyHourDLMbps }

// BusyHourULMbps returns the per-subscriber busy-hour uplink rate.
// The estimator does not consume it.
func (p Params) BusyHourULMbps() float64 { return p.busyHourULMbps }

// EMBBRatio returns the eMBB share of the traffic mix.
func (p Params) EMBBRatio() float64 { return p.embbRatio }

// URLLCRatio returns the URLLC share of the traffic mix.
func (p Params) URLLCRatio() float64 { return p.urllcRatio }

// MMTCRatio returns the mMTC share of the traffic mix.
func (p Params) MMTCRatio() float64 { return p.mmtcRatio }

// RatioSum returns the sum of the three traffic-mix ratios.
func (p Params) RatioSum() float64 { return p.embbRatio + p.urllcRatio + p.mmtcRatio }

// Subscribers returns area × density.
func (p Params) Subscribers() float64 { return p.areaKm2 * p.subscriberDensity }

// FR1 returns the FR1 radio parameters.
func (p Params) FR1() Radio {
	return Radio{BandwidthMHz: p.bandwidthFR1MHz, SpectralEff: p.spectralEffFR1, MIMOGain: p.mimoGainFR1}
}

// FR2 returns the FR2 radio parameters.
func (p Params) FR2() Radio {
	return Radio{BandwidthMHz: p.bandwidthFR2MHz, SpectralEff: p.spectralEffFR2, MIMOGain: p.mimoGainFR2}
}

// CellsPerSite returns the number of cells per site.
func (p Params) CellsPerSite() int { return p.cellsPerSite }

// Radio groups the per-frequency-range radio parameters.
type Radio struct {
	BandwidthMHz float64
	SpectralEff  float64
	MIMOGain     float64
}

// Throughput returns the per-cell throughput for r in Mbps.
func (r Radio) Throughput() float64 {
	return CellThroughput(r.BandwidthMHz, r.SpectralEff, r.MIMOGain)
}
