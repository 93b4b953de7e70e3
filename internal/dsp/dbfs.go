package dsp

import "math"

const (
	// DefaultDbfsOffset is the empirical full-scale calibration constant
	// subtracted after the log transform.
	DefaultDbfsOffset = -1.0

	// PowerFloor is the smallest power fed to the log transform. Zero or
	// negative bins are raised to it, so they come out at -200 dB minus the
	// offset instead of -Inf or NaN.
	PowerFloor = 1e-20
)

// DbfsSpectrum holds decibels relative to full scale, same ordering as the
// PowerSpectrum it was derived from.
type DbfsSpectrum []float64

// ToDbfs converts power to dBFS as 10*log10(p) - offset, elementwise.
func ToDbfs(spectrum PowerSpectrum, offset float64) DbfsSpectrum {
	out := make(DbfsSpectrum, len(spectrum))
	for i, p := range spectrum {
		out[i] = 10*math.Log10(max(p, PowerFloor)) - offset
	}
	return out
}

// Peak returns the index and value of the largest element, or -1 for an empty slice.
// Ties resolve to the lowest index.
func Peak(values []float64) (int, float64) {
	idx, peak := -1, math.Inf(-1)
	for i, v := range values {
		if idx < 0 || v > peak {
			idx, peak = i, v
		}
	}
	return idx, peak
}

// Resample stretches or shrinks values to exactly length elements using
// nearest-neighbour interpolation. Resampling to len(values) is the identity.
func Resample(values []float64, length int) []float64 {
	if length <= 0 {
		return []float64{}
	}
	out := make([]float64, length)
	n := len(values)
	if n == 0 {
		return out
	}
	for i := range out {
		out[i] = values[i*n/length]
	}
	return out
}
