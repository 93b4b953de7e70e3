package radio

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
)

const (
	simMinFrequency = 70_000_000
	simMaxFrequency = 6_000_000_000
	simMinBandwidth = 521_000
	simMaxBandwidth = 56_000_000

	// 12-bit ADC
	simFullScale = 2048

	defaultBufferSize = 1024
)

// Tone is a continuous carrier emitted by the simulated receiver's environment
type Tone struct {
	Frequency int64   // Absolute frequency in Hz
	Amplitude float64 // Fraction of full scale
}

// WithTones adds carriers to the simulated spectrum
func WithTones(tones ...Tone) func(*Sim) {
	return func(s *Sim) {
		s.tones = append(s.tones, tones...)
	}
}

// WithNoise sets the standard deviation of the Gaussian noise, as a fraction of full scale
func WithNoise(level float64) func(*Sim) {
	return func(s *Sim) {
		s.noise = level
	}
}

// WithSeed makes the noise sequence reproducible
func WithSeed(seed int64) func(*Sim) {
	return func(s *Sim) {
		s.rnd = rand.New(rand.NewSource(seed))
	}
}

// Sim is a simulated 12-bit receiver tuned over 70 MHz - 6 GHz. Captured
// samples contain every configured tone that falls inside the tuned band,
// plus Gaussian noise, quantised to ADC integers.
type Sim struct {
	frequency  int64
	bandwidth  int64
	bufferSize int
	gain       Gain

	tones []Tone
	noise float64
	rnd   *rand.Rand

	clock  int64 // samples emitted since start, keeps tones phase-continuous
	closed bool
}

// NewSim creates a simulated receiver tuned to 100 MHz with 1 MHz bandwidth
func NewSim(options ...func(*Sim)) *Sim {
	s := Sim{
		frequency:  100_000_000,
		bandwidth:  1_000_000,
		bufferSize: defaultBufferSize,
		gain:       Gain{Mode: GainFastAttack},
		noise:      0.001,
		rnd:        rand.New(rand.NewSource(1)),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

func (s *Sim) Frequency() int64    { return s.frequency }
func (s *Sim) Bandwidth() int64    { return s.bandwidth }
func (s *Sim) MinFrequency() int64 { return simMinFrequency }
func (s *Sim) MaxFrequency() int64 { return simMaxFrequency }
func (s *Sim) MinBandwidth() int64 { return simMinBandwidth }
func (s *Sim) MaxBandwidth() int64 { return simMaxBandwidth }
func (s *Sim) FullScale() float64  { return simFullScale }

func (s *Sim) Retune(hz int64) error {
	if s.closed {
		return ErrClosed
	}
	s.frequency = Clamp(hz, simMinFrequency, simMaxFrequency)
	return nil
}

func (s *Sim) UpdateBandwidth(hz int64) error {
	if s.closed {
		return ErrClosed
	}
	s.bandwidth = Clamp(hz, simMinBandwidth, simMaxBandwidth)
	return nil
}

func (s *Sim) SetBufferSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("buffer size must be positive: %d", n)
	}
	s.bufferSize = n
	return nil
}

func (s *Sim) SetGain(g Gain) error {
	s.gain = g
	return nil
}

// Capture synthesises one buffer at the current tuning
func (s *Sim) Capture(ctx context.Context) (Sample, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	half := s.bandwidth / 2
	var visible []Tone
	for _, t := range s.tones {
		if t.Frequency >= s.frequency-half && t.Frequency < s.frequency+half {
			visible = append(visible, t)
		}
	}

	out := make(Sample, s.bufferSize)
	for k := range out {
		n := float64(s.clock + int64(k))

		var v complex128
		for _, t := range visible {
			phase := 2 * math.Pi * float64(t.Frequency-s.frequency) * n / float64(s.bandwidth)
			v += complex(t.Amplitude*simFullScale, 0) * cmplx.Exp(complex(0, phase))
		}
		v += complex(s.rnd.NormFloat64()*s.noise*simFullScale, s.rnd.NormFloat64()*s.noise*simFullScale)

		out[k] = complex(quantise(real(v)), quantise(imag(v)))
	}
	s.clock += int64(len(out))

	return out, nil
}

func quantise(v float64) float64 {
	return min(max(math.Round(v), -simFullScale), simFullScale-1)
}

func (s *Sim) Close() error {
	s.closed = true
	return nil
}
