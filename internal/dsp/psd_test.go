package dsp

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"slices"
	"testing"
)

func tone(n int, bin float64, amplitude float64) []complex128 {
	out := make([]complex128, n)
	for k := range out {
		out[k] = complex(amplitude, 0) * cmplx.Exp(complex(0, 2*math.Pi*bin*float64(k)/float64(n)))
	}
	return out
}

func TestWindow_Names(t *testing.T) {
	for _, name := range WindowNames() {
		t.Run(name, func(t *testing.T) {
			w, err := Window(name, 64)
			if err != nil {
				t.Fatalf("Window(%q): %v", name, err)
			}
			if len(w) != 64 {
				t.Errorf("expected 64 coefficients, got %d", len(w))
			}
			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient %d is not finite: %f", i, v)
				}
			}
		})
	}

	if !ValidWindow(" Hann ") {
		t.Error("window names should be case and space insensitive")
	}
}

func TestWindow_Unknown(t *testing.T) {
	if _, err := Window("kaiser-bessel-magic", 16); !errors.Is(err, ErrUnknownWindow) {
		t.Errorf("expected ErrUnknownWindow, got %v", err)
	}
	if ValidWindow("nope") {
		t.Error("unexpected valid window")
	}
	if _, err := Window("hann", 0); err == nil {
		t.Error("expected error for zero length")
	}
}

func TestWindow_Periodic(t *testing.T) {
	t.Run("hann", func(t *testing.T) {
		expected := []float64{0, 0.1464466, 0.5, 0.8535534, 1, 0.8535534, 0.5, 0.1464466}
		w, err := Window("hann", 8)
		if err != nil {
			t.Fatalf("Window: %v", err)
		}
		for i := range expected {
			if math.Abs(w[i]-expected[i]) > 1e-6 {
				t.Fatalf("expected %v, got %v", expected, w)
			}
		}
	})

	// a DFT-even window satisfies w[k] == w[n-k]
	for _, name := range []string{"hamming", "blackman", "blackmanharris", "nuttall"} {
		t.Run(name, func(t *testing.T) {
			const n = 16
			w, err := Window(name, n)
			if err != nil {
				t.Fatalf("Window: %v", err)
			}
			for k := 1; k < n; k++ {
				if math.Abs(w[k]-w[n-k]) > 1e-9 {
					t.Errorf("coefficient %d (%f) differs from %d (%f)", k, w[k], n-k, w[n-k])
				}
			}
		})
	}
}

func TestComputeSpectrum_Length(t *testing.T) {
	sample := tone(1024, 100, 1)

	testCases := []struct {
		name        string
		segmentSize int
		expected    int
	}{
		{"unsegmented", 0, 1024},
		{"segment equals buffer", 1024, 1024},
		{"welch quarter", 256, 256},
		{"welch odd", 100, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ComputeSpectrum(sample, "hann", tc.segmentSize, 1e6)
			if err != nil {
				t.Fatalf("ComputeSpectrum: %v", err)
			}
			if len(p) != tc.expected {
				t.Errorf("expected length %d, got %d", tc.expected, len(p))
			}
		})
	}
}

func TestComputeSpectrum_Centred(t *testing.T) {
	const n = 512

	testCases := []struct {
		name     string
		bin      float64
		expected int
	}{
		{"positive offset", 64, n/2 + 64},
		{"negative offset", -32, n/2 - 32},
		{"first bin above centre", 1, n/2 + 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ComputeSpectrum(tone(n, tc.bin, 1), "boxcar", 0, 1)
			if err != nil {
				t.Fatalf("ComputeSpectrum: %v", err)
			}

			idx, _ := Peak(p)
			if idx != tc.expected {
				t.Errorf("expected peak at %d, got %d", tc.expected, idx)
			}
		})
	}
}

func TestComputeSpectrum_RemovesDC(t *testing.T) {
	sample := make([]complex128, 256)
	for i := range sample {
		sample[i] = complex(3, -2)
	}

	p, err := ComputeSpectrum(sample, "hann", 64, 1)
	if err != nil {
		t.Fatalf("ComputeSpectrum: %v", err)
	}
	if _, peak := Peak(p); peak > 1e-20 {
		t.Errorf("expected constant offset to be detrended, peak %g", peak)
	}
}

func TestComputeSpectrum_DensityScaling(t *testing.T) {
	const (
		n  = 1024
		fs = 2_000_000.0
	)
	sample := tone(n, 128, 1)

	testCases := []struct {
		name        string
		segmentSize int
		binWidth    float64
	}{
		{"unsegmented per unit rate", 0, 1.0 / n},
		{"welch per hertz", 256, fs / 256},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ComputeSpectrum(sample, "hann", tc.segmentSize, fs)
			if err != nil {
				t.Fatalf("ComputeSpectrum: %v", err)
			}

			// integrating the density over frequency returns the signal power
			var total float64
			for _, v := range p {
				total += v * tc.binWidth
			}
			if math.Abs(total-1) > 1e-9 {
				t.Errorf("expected total power 1, got %.12f", total)
			}
		})
	}
}

func TestComputeSpectrum_SampleRate(t *testing.T) {
	const rate = 1e6
	sample := tone(1024, 100, 1)

	t.Run("unsegmented ignores rate", func(t *testing.T) {
		for _, segmentSize := range []int{0, 1024} {
			withRate, err := ComputeSpectrum(sample, "hann", segmentSize, rate)
			if err != nil {
				t.Fatalf("ComputeSpectrum: %v", err)
			}
			unit, err := ComputeSpectrum(sample, "hann", segmentSize, 0)
			if err != nil {
				t.Fatalf("ComputeSpectrum: %v", err)
			}
			if !slices.Equal(withRate, unit) {
				t.Errorf("segment %d: spectrum depends on the sample rate", segmentSize)
			}

			// unit tone under a periodic hann: (Σw)² / Σw² = 2n/3
			if _, peak := Peak(withRate); math.Abs(peak-2048.0/3) > 1e-6 {
				t.Errorf("segment %d: expected peak %f, got %f", segmentSize, 2048.0/3, peak)
			}
		}
	})

	t.Run("welch divides by rate", func(t *testing.T) {
		withRate, err := ComputeSpectrum(sample, "hann", 256, rate)
		if err != nil {
			t.Fatalf("ComputeSpectrum: %v", err)
		}
		unit, err := ComputeSpectrum(sample, "hann", 256, 0)
		if err != nil {
			t.Fatalf("ComputeSpectrum: %v", err)
		}
		for i := range unit {
			if want := unit[i] / rate; math.Abs(withRate[i]-want) > 1e-12*math.Max(1, unit[i]) {
				t.Fatalf("bin %d: expected %g, got %g", i, want, withRate[i])
			}
		}
	})
}

func TestComputeSpectrum_ToneAboveNoise(t *testing.T) {
	const (
		n           = 1024
		segmentSize = 256
		toneBin     = 128 // of 1024, i.e. 32 of 256
	)

	rnd := rand.New(rand.NewSource(42))
	sample := tone(n, toneBin, 1)
	for i := range sample {
		sample[i] += complex(rnd.NormFloat64()*0.05, rnd.NormFloat64()*0.05)
	}

	p, err := ComputeSpectrum(sample, "hann", segmentSize, 1e6)
	if err != nil {
		t.Fatalf("ComputeSpectrum: %v", err)
	}
	dbfs := ToDbfs(p, DefaultDbfsOffset)

	idx, peak := Peak(dbfs)
	if expected := segmentSize/2 + toneBin*segmentSize/n; idx != expected {
		t.Fatalf("expected dominant bin at %d, got %d", expected, idx)
	}

	floor := slices.Clone([]float64(dbfs))
	slices.Sort(floor)
	median := floor[len(floor)/2]
	if peak-median < 10 {
		t.Errorf("expected peak %.1f dBFS at least 10 dB above noise floor %.1f dBFS", peak, median)
	}
}

func TestComputeSpectrum_UnknownWindow(t *testing.T) {
	if _, err := ComputeSpectrum(tone(64, 4, 1), "nope", 0, 1); !errors.Is(err, ErrUnknownWindow) {
		t.Errorf("expected ErrUnknownWindow, got %v", err)
	}
}

func TestComputeSpectrum_Empty(t *testing.T) {
	p, err := ComputeSpectrum(nil, "hann", 0, 1)
	if err != nil {
		t.Fatalf("ComputeSpectrum: %v", err)
	}
	if len(p) != 0 {
		t.Errorf("expected empty spectrum, got %d bins", len(p))
	}
}

func TestWelchSegments(t *testing.T) {
	testCases := []struct {
		n, segment     int
		step, segments int
	}{
		{1024, 256, 128, 7},
		{1024, 1024, 1024, 1},
		{1000, 100, 50, 19},
		{1024, 255, 128, 7},
	}

	for _, tc := range testCases {
		step, segments := welchSegments(tc.n, tc.segment)
		if step != tc.step || segments != tc.segments {
			t.Errorf("welchSegments(%d, %d): expected (%d, %d), got (%d, %d)",
				tc.n, tc.segment, tc.step, tc.segments, step, segments)
		}
	}
}

func TestFFTShift(t *testing.T) {
	testCases := []struct {
		in, expected []float64
	}{
		{[]float64{0, 1, 2, 3}, []float64{2, 3, 0, 1}},
		{[]float64{0, 1, 2, 3, 4}, []float64{3, 4, 0, 1, 2}},
		{[]float64{7}, []float64{7}},
	}

	for _, tc := range testCases {
		if got := fftShift(tc.in); !slices.Equal(got, tc.expected) {
			t.Errorf("fftShift(%v): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

func TestBinFrequency(t *testing.T) {
	testCases := []struct {
		bin      int
		expected int64
	}{
		{0, 99_500_000},
		{128, 100_000_000},
		{192, 100_250_000},
		{255, 100_496_094},
	}

	for _, tc := range testCases {
		if got := BinFrequency(100_000_000, 1_000_000, tc.bin, 256); got != tc.expected {
			t.Errorf("bin %d: expected %d, got %d", tc.bin, tc.expected, got)
		}
	}
}
