package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/nrcap/internal/capacity"
)

// ScenarioConfig holds the parameters for one scenario.
// Fields are pointers so that an explicit zero (for example a density of 0)
// can be told apart from a field that was left out and should be
// inherited from the defaults.
type ScenarioConfig struct {
	AreaKm2           *float64 `yaml:"area_km2,omitempty"`
	SubscriberDensity *float64 `yaml:"subscriber_density,omitempty"`
	BusyHourGBDL      *float64 `yaml:"bht_gb_dl,omitempty"`
	BusyHourGBUL      *float64 `yaml:"bht_gb_ul,omitempty"`
	EMBBRatio         *float64 `yaml:"embb_ratio,omitempty"`
	URLLCRatio        *float64 `yaml:"urllc_ratio,omitempty"`
	MMTCRatio         *float64 `yaml:"mmtc_ratio,omitempty"`
	BandwidthFR1MHz   *float64 `yaml:"bandwidth_fr1,omitempty"`
	BandwidthFR2MHz   *float64 `yaml:"bandwidth_fr2,omitempty"`
	MIMOGainFR1       *float64 `yaml:"mimo_gain_fr1,omitempty"`
	MIMOGainFR2       *float64 `yaml:"mimo_gain_fr2,omitempty"`
	SpectralEffFR1    *float64 `yaml:"spectral_eff_fr1,omitempty"`
	SpectralEffFR2    *float64 `yaml:"spectral_eff_fr2,omitempty"`

	// CellsPerSite is optional; capacity.DefaultCellsPerSite applies when
	// it is unset everywhere.
	CellsPerSite *int `yaml:"cells_per_site,omitempty"`

	// Utilization is optional; see Config.UtilizationFor.
	Utilization *float64 `yaml:"utilization,omitempty"`
}

// File represents the structure of the .nrcap.yaml scenario file.
type File struct {
	// Defaults are applied to every scenario unless the scenario sets the
	// same field.
	Defaults ScenarioConfig `yaml:"defaults,omitempty"`

	// Scenarios maps scenario names to their parameters.
	Scenarios map[string]ScenarioConfig `yaml:"scenarios,omitempty"`
}

// Names returns the scenario names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Scenarios))
	for name := range f.Scenarios {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetScenario returns the named scenario merged over the defaults.
func (f *File) GetScenario(name string) (ScenarioConfig, error) {
	sc, ok := f.Scenarios[name]
	if !ok {
		return ScenarioConfig{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	return f.Defaults.Merge(sc), nil
}

// Merge returns s with every field set in o replacing the value in s.
func (s ScenarioConfig) Merge(o ScenarioConfig) ScenarioConfig {
	return ScenarioConfig{
		AreaKm2:           pick(s.AreaKm2, o.AreaKm2),
		SubscriberDensity: pick(s.SubscriberDensity, o.SubscriberDensity),
		BusyHourGBDL:      pick(s.BusyHourGBDL, o.BusyHourGBDL),
		BusyHourGBUL:      pick(s.BusyHourGBUL, o.BusyHourGBUL),
		EMBBRatio:         pick(s.EMBBRatio, o.EMBBRatio),
		URLLCRatio:        pick(s.URLLCRatio, o.URLLCRatio),
		MMTCRatio:         pick(s.MMTCRatio, o.MMTCRatio),
		BandwidthFR1MHz:   pick(s.BandwidthFR1MHz, o.BandwidthFR1MHz),
		BandwidthFR2MHz:   pick(s.BandwidthFR2MHz, o.BandwidthFR2MHz),
		MIMOGainFR1:       pick(s.MIMOGainFR1, o.MIMOGainFR1),
		MIMOGainFR2:       pick(s.MIMOGainFR2, o.MIMOGainFR2),
		SpectralEffFR1:    pick(s.SpectralEffFR1, o.SpectralEffFR1),
		SpectralEffFR2:    pick(s.SpectralEffFR2, o.SpectralEffFR2),
		CellsPerSite:      pick(s.CellsPerSite, o.CellsPerSite),
		Utilization:       pick(s.Utilization, o.Utilization),
	}
}

func pick[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}

// ToInput converts the scenario into a capacity.Input.
// Every field except CellsPerSite and Utilization is required; the missing
// ones are listed in the returned error. Value checks are left to
// capacity.NewParams.
func (s ScenarioConfig) ToInput() (capacity.Input, error) {
	var missing []string
	get := func(name string, v *float64) float64 {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return *v
	}

	in := capacity.Input{
		AreaKm2:           get("area_km2", s.AreaKm2),
		SubscriberDensity: get("subscriber_density", s.SubscriberDensity),
		BusyHourGBDL:      get("bht_gb_dl", s.BusyHourGBDL),
		BusyHourGBUL:      get("bht_gb_ul", s.BusyHourGBUL),
		EMBBRatio:         get("embb_ratio", s.EMBBRatio),
		URLLCRatio:        get("urllc_ratio", s.URLLCRatio),
		MMTCRatio:         get("mmtc_ratio", s.MMTCRatio),
		BandwidthFR1MHz:   get("bandwidth_fr1", s.BandwidthFR1MHz),
		BandwidthFR2MHz:   get("bandwidth_fr2", s.BandwidthFR2MHz),
		MIMOGainFR1:       get("mimo_gain_fr1", s.MIMOGainFR1),
		MIMOGainFR2:       get("mimo_gain_fr2", s.MIMOGainFR2),
		SpectralEffFR1:    get("spectral_eff_fr1", s.SpectralEffFR1),
		SpectralEffFR2:    get("spectral_eff_fr2", s.SpectralEffFR2),
	}
	if s.CellsPerSite != nil {
		in.CellsPerSite = *s.CellsPerSite
	}

	if len(missing) > 0 {
		return capacity.Input{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return in, nil
}
