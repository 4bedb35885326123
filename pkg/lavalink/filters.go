package lavalink

import "fmt"

// Filters is the audio filter map sent to the backend. The backend treats
// unknown keys as plugin filters, so the map stays open; the setters below
// cover the built-in filters and validate their ranges before anything is
// sent over the wire.
type Filters map[string]any

// NewFilters returns an empty filter map.
func NewFilters() Filters {
	return Filters{}
}

// SetVolume sets the volume filter. Values are a multiplier where 1.0 is
// unity gain; the backend caps at 5.0.
func (f Filters) SetVolume(volume float64) error {
	if volume < 0 || volume > 5 {
		return fmt.Errorf("volume filter must be within [0, 5], got %v", volume)
	}
	f["volume"] = volume
	return nil
}

// EqualizerBand is one of the backend's 15 equalizer bands.
type EqualizerBand struct {
	Band int     `json:"band"`
	Gain float64 `json:"gain"`
}

// SetEqualizer sets the equalizer bands. Band indexes run 0 through 14 and
// gain is bounded to [-0.25, 1.0].
func (f Filters) SetEqualizer(bands ...EqualizerBand) error {
	for _, b := range bands {
		if b.Band < 0 || b.Band > 14 {
			return fmt.Errorf("equalizer band must be within [0, 14], got %d", b.Band)
		}
		if b.Gain < -0.25 || b.Gain > 1.0 {
			return fmt.Errorf("equalizer gain must be within [-0.25, 1.0], got %v", b.Gain)
		}
	}
	f["equalizer"] = bands
	return nil
}

// SetLowPass sets the low-pass filter. Smoothing below 1.0 is rejected by
// the backend.
func (f Filters) SetLowPass(smoothing float64) error {
	if smoothing < 1 {
		return fmt.Errorf("low-pass smoothing must be at least 1.0, got %v", smoothing)
	}
	f["lowPass"] = map[string]float64{"smoothing": smoothing}
	return nil
}

// SetTimescale sets the timescale filter. All three rates must be positive.
func (f Filters) SetTimescale(speed, pitch, rate float64) error {
	if speed <= 0 || pitch <= 0 || rate <= 0 {
		return fmt.Errorf("timescale values must be positive, got speed=%v pitch=%v rate=%v", speed, pitch, rate)
	}
	f["timescale"] = map[string]float64{"speed": speed, "pitch": pitch, "rate": rate}
	return nil
}

// Set stores a raw filter value under key, for plugin filters this client
// knows nothing about.
func (f Filters) Set(key string, value any) {
	f[key] = value
}
