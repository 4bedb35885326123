package lavalink

import "testing"

func TestFiltersVolumeBounds(t *testing.T) {
	f := NewFilters()

	if err := f.SetVolume(-0.1); err == nil {
		t.Error("expected an error for a negative volume filter")
	}
	if err := f.SetVolume(5.1); err == nil {
		t.Error("expected an error for a volume filter above 5")
	}
	if err := f.SetVolume(2.5); err != nil {
		t.Errorf("valid volume filter failed: %v", err)
	}
	if f["volume"] != 2.5 {
		t.Errorf("volume filter = %v, want 2.5", f["volume"])
	}
}

func TestFiltersEqualizerBounds(t *testing.T) {
	f := NewFilters()

	if err := f.SetEqualizer(EqualizerBand{Band: 15, Gain: 0}); err == nil {
		t.Error("expected an error for band 15")
	}
	if err := f.SetEqualizer(EqualizerBand{Band: 0, Gain: -0.3}); err == nil {
		t.Error("expected an error for gain below -0.25")
	}
	if err := f.SetEqualizer(EqualizerBand{Band: 0, Gain: 1.1}); err == nil {
		t.Error("expected an error for gain above 1.0")
	}
	if err := f.SetEqualizer(EqualizerBand{Band: 0, Gain: 0.25}, EqualizerBand{Band: 14, Gain: -0.25}); err != nil {
		t.Errorf("valid bands failed: %v", err)
	}
}

func TestFiltersLowPassAndTimescale(t *testing.T) {
	f := NewFilters()

	if err := f.SetLowPass(0.5); err == nil {
		t.Error("expected an error for smoothing below 1")
	}
	if err := f.SetLowPass(20); err != nil {
		t.Errorf("valid smoothing failed: %v", err)
	}

	if err := f.SetTimescale(0, 1, 1); err == nil {
		t.Error("expected an error for a zero timescale rate")
	}
	if err := f.SetTimescale(1.25, 1, 1); err != nil {
		t.Errorf("valid timescale failed: %v", err)
	}
}

func TestFiltersRawSet(t *testing.T) {
	f := NewFilters()
	f.Set("somePluginFilter", map[string]any{"depth": 0.5})

	if _, ok := f["somePluginFilter"]; !ok {
		t.Error("raw set should store unknown filter keys")
	}
}
