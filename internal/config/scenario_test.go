package config

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/nrcap/internal/capacity"
)

func ptr[T any](v T) *T { return &v }

func fullScenario() ScenarioConfig {
	return ScenarioConfig{
		AreaKm2:           ptr(10.0),
		SubscriberDensity: ptr(5000.0),
		BusyHourGBDL:      ptr(2.0),
		BusyHourGBUL:      ptr(0.5),
		EMBBRatio:         ptr(0.6),
		URLLCRatio:        ptr(0.3),
		MMTCRatio:         ptr(0.1),
		BandwidthFR1MHz:   ptr(100.0),
		BandwidthFR2MHz:   ptr(400.0),
		MIMOGainFR1:       ptr(4.0),
		MIMOGainFR2:       ptr(6.0),
		SpectralEffFR1:    ptr(4.2),
		SpectralEffFR2:    ptr(6.8),
	}
}

func TestScenarioConfig_ToInput(t *testing.T) {
	t.Parallel()

	t.Run("complete scenario converts", func(t *testing.T) {
		t.Parallel()

		in, err := fullScenario().ToInput()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := capacity.Input{
			AreaKm2: 10, SubscriberDensity: 5000, BusyHourGBDL: 2, BusyHourGBUL: 0.5,
			EMBBRatio: 0.6, URLLCRatio: 0.3, MMTCRatio: 0.1,
			BandwidthFR1MHz: 100, BandwidthFR2MHz: 400,
			MIMOGainFR1: 4, MIMOGainFR2: 6,
			SpectralEffFR1: 4.2, SpectralEffFR2: 6.8,
		}
		if in != want {
			t.Errorf("ToInput() = %+v, want %+v", in, want)
		}
	})

	t.Run("cells per site is carried", func(t *testing.T) {
		t.Parallel()

		sc := fullScenario()
		sc.CellsPerSite = ptr(6)
		in, err := sc.ToInput()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.CellsPerSite != 6 {
			t.Errorf("CellsPerSite = %d, want 6", in.CellsPerSite)
		}
	})

	t.Run("missing fields are listed", func(t *testing.T) {
		t.Parallel()

		sc := fullScenario()
		sc.AreaKm2 = nil
		sc.SpectralEffFR2 = nil
		_, err := sc.ToInput()
		if !errors.Is(err, ErrMissingField) {
			t.Fatalf("expected ErrMissingField, got %v", err)
		}
		if !strings.Contains(err.Error(), "area_km2, spectral_eff_fr2") {
			t.Errorf("error should name missing fields: %v", err)
		}
	})

	t.Run("explicit zero is not missing", func(t *testing.T) {
		t.Parallel()

		sc := fullScenario()
		sc.SubscriberDensity = ptr(0.0)
		in, err := sc.ToInput()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.SubscriberDensity != 0 {
			t.Errorf("SubscriberDensity = %v, want 0", in.SubscriberDensity)
		}
	})
}

func TestScenarioConfig_Merge(t *testing.T) {
	t.Parallel()

	base := fullScenario()
	override := ScenarioConfig{
		AreaKm2:           ptr(25.0),
		SubscriberDensity: ptr(0.0),
	}

	merged := base.Merge(override)
	if *merged.AreaKm2 != 25 {
		t.Errorf("AreaKm2 = %v, want 25", *merged.AreaKm2)
	}
	if *merged.SubscriberDensity != 0 {
		t.Errorf("SubscriberDensity = %v, want 0", *merged.SubscriberDensity)
	}
	if *merged.BandwidthFR2MHz != 400 {
		t.Errorf("BandwidthFR2MHz = %v, want inherited 400", *merged.BandwidthFR2MHz)
	}
	if *base.AreaKm2 != 10 {
		t.Error("Merge must not modify the receiver")
	}
}

func TestFile_GetScenario(t *testing.T) {
	t.Parallel()

	f := &File{
		Defaults: fullScenario(),
		Scenarios: map[string]ScenarioConfig{
			"rural":    {SubscriberDensity: ptr(50.0), AreaKm2: ptr(400.0)},
			"downtown": {},
		},
	}

	t.Run("scenario inherits defaults", func(t *testing.T) {
		t.Parallel()

		sc, err := f.GetScenario("rural")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *sc.SubscriberDensity != 50 || *sc.AreaKm2 != 400 {
			t.Errorf("scenario values not applied: %+v", sc)
		}
		if *sc.MIMOGainFR1 != 4 {
			t.Errorf("MIMOGainFR1 = %v, want inherited 4", *sc.MIMOGainFR1)
		}
	})

	t.Run("unknown scenario", func(t *testing.T) {
		t.Parallel()

		_, err := f.GetScenario("suburb")
		if !errors.Is(err, ErrUnknownScenario) {
			t.Errorf("expected ErrUnknownScenario, got %v", err)
		}
	})

	t.Run("names are sorted", func(t *testing.T) {
		t.Parallel()

		if got, want := f.Names(), []string{"downtown", "rural"}; !reflect.DeepEqual(got, want) {
			t.Errorf("Names() = %v, want %v", got, want)
		}
	})
}
