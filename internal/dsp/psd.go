package dsp

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum is a two-sided, frequency-centred power spectral density.
// Index 0 holds the lowest frequency, len/2 holds the centre frequency.
type PowerSpectrum []float64

type windowKey struct {
	name string
	size int
}

// Analyzer computes power spectra and keeps window coefficients and FFT
// plans between calls. It is not safe for concurrent use.
type Analyzer struct {
	windows map[windowKey][]float64
	plans   map[int]*fourier.CmplxFFT
}

// NewAnalyzer creates an Analyzer with empty caches
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		windows: make(map[windowKey][]float64),
		plans:   make(map[int]*fourier.CmplxFFT),
	}
}

// ComputeSpectrum is a convenience wrapper around a throwaway Analyzer.
func ComputeSpectrum(sample []complex128, windowName string, segmentSize int, sampleRate float64) (PowerSpectrum, error) {
	return NewAnalyzer().ComputeSpectrum(sample, windowName, segmentSize, sampleRate)
}

// ComputeSpectrum returns the centred power spectral density of sample.
//
// When segmentSize is not positive or equals len(sample), a single periodogram
// is computed over the whole buffer. Otherwise Welch's method averages the
// periodograms of segments of segmentSize samples overlapping by half.
// Both paths remove the segment mean, apply the named window and scale to
// density. The single periodogram is scaled per unit sample rate, so
// sampleRate has no effect on it. Welch output is power per Hz at sampleRate,
// or per unit rate when sampleRate is not positive.
//
// The caller guarantees segmentSize <= len(sample); larger values fall back to
// a single periodogram.
func (a *Analyzer) ComputeSpectrum(sample []complex128, windowName string, segmentSize int, sampleRate float64) (PowerSpectrum, error) {
	n := len(sample)
	if n == 0 {
		return PowerSpectrum{}, nil
	}

	fs := 1.0
	if segmentSize > 0 && segmentSize < n {
		if sampleRate > 0 {
			fs = sampleRate
		}
	} else {
		segmentSize = n
	}

	w, err := a.window(windowName, segmentSize)
	if err != nil {
		return nil, err
	}
	plan := a.plan(segmentSize)

	step, segments := welchSegments(n, segmentSize)

	acc := make([]float64, segmentSize)
	buf := make([]complex128, segmentSize)
	coeffs := make([]complex128, segmentSize)
	for s := 0; s < segments; s++ {
		start := s * step
		accumulateSegment(sample[start:start+segmentSize], w, plan, buf, coeffs, acc)
	}

	var sumsq float64
	for _, v := range w {
		sumsq += v * v
	}
	if sumsq == 0 {
		return nil, fmt.Errorf("window %q has zero energy at size %d", windowName, segmentSize)
	}

	scale := 1 / (fs * sumsq * float64(segments))
	for i := range acc {
		acc[i] *= scale
	}

	return PowerSpectrum(fftShift(acc)), nil
}

func (a *Analyzer) window(name string, size int) ([]float64, error) {
	key := windowKey{normalizeWindowName(name), size}
	if w, ok := a.windows[key]; ok {
		return w, nil
	}
	w, err := Window(name, size)
	if err != nil {
		return nil, err
	}
	a.windows[key] = w
	return w, nil
}

func (a *Analyzer) plan(size int) *fourier.CmplxFFT {
	p, ok := a.plans[size]
	if !ok {
		p = fourier.NewCmplxFFT(size)
		a.plans[size] = p
	}
	return p
}

// welchSegments returns the hop between segments and the number of complete
// segments for a 50% overlap.
func welchSegments(n, segmentSize int) (step, segments int) {
	if segmentSize >= n {
		return n, 1
	}
	step = segmentSize - segmentSize/2
	return step, (n-segmentSize)/step + 1
}

// accumulateSegment detrends, windows and transforms one segment, adding
// its squared magnitudes to acc.
func accumulateSegment(seg []complex128, w []float64, plan *fourier.CmplxFFT, buf, coeffs []complex128, acc []float64) {
	var mean complex128
	for _, v := range seg {
		mean += v
	}
	mean /= complex(float64(len(seg)), 0)

	for i, v := range seg {
		buf[i] = (v - mean) * complex(w[i], 0)
	}

	coeffs = plan.Coefficients(coeffs, buf)
	for i, c := range coeffs {
		m := cmplx.Abs(c)
		acc[i] += m * m
	}
}

// fftShift moves the zero-frequency bin to the centre of the spectrum,
// negative frequencies first.
func fftShift(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i, v := range values {
		out[(i+n/2)%n] = v
	}
	return out
}

// BinFrequency maps bin of a centred spectrum with bins entries back to an
// absolute frequency in Hz, given the tuned centre and the sampled bandwidth.
func BinFrequency(center, bandwidth int64, bin, bins int) int64 {
	if bins <= 0 {
		return center
	}
	offset := float64(bin-bins/2) * float64(bandwidth) / float64(bins)
	return center + int64(math.Round(offset))
}
