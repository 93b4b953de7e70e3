package radio

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrClosed is returned when a closed radio is used
	ErrClosed = errors.New("radio is closed")

	// ErrInvalidGain is returned when a gain setting cannot be parsed
	ErrInvalidGain = errors.New("invalid gain")
)

// Sample is one capture of complex baseband (IQ) values, in ADC units.
type Sample []complex128

// State is the part of the radio configuration visualizers depend on
type State struct {
	Frequency int64 // Tuned centre frequency in Hz
	Bandwidth int64 // Sample rate / bandwidth in Hz
}

// Radio is the receiver capability consumed by the visualizers and the sweep driver.
//
// Retune and UpdateBandwidth silently clamp to the hardware range and must not
// return before the new configuration applies to every following Capture.
type Radio interface {
	Frequency() int64
	Bandwidth() int64
	Retune(hz int64) error
	UpdateBandwidth(hz int64) error

	MinFrequency() int64
	MaxFrequency() int64
	MinBandwidth() int64
	MaxBandwidth() int64

	// FullScale is the largest magnitude a single I or Q component can reach
	FullScale() float64

	SetBufferSize(n int) error
	SetGain(g Gain) error

	// Capture blocks until a full buffer of samples is available. Every call
	// returns a newly allocated Sample that the radio never writes to again.
	Capture(ctx context.Context) (Sample, error)
	Close() error
}

// StateOf returns the current State of r
func StateOf(r Radio) State {
	return State{Frequency: r.Frequency(), Bandwidth: r.Bandwidth()}
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi int64) int64 {
	return min(max(v, lo), hi)
}

// GainMode selects automatic or manual gain control
type GainMode string

const (
	GainFastAttack GainMode = "fast"
	GainSlowAttack GainMode = "slow"
	GainManual     GainMode = "manual"
)

// Gain is a receiver gain setting
type Gain struct {
	Mode GainMode
	DB   int // Only used with GainManual
}

func (g Gain) String() string {
	if g.Mode == GainManual {
		return fmt.Sprintf("%d dB", g.DB)
	}
	return string(g.Mode) + " attack"
}

// Auto reports whether the gain is under automatic control
func (g Gain) Auto() bool {
	return g.Mode != GainManual
}

// ParseGain accepts "fast", "slow" or a gain in dB
func ParseGain(s string) (Gain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch GainMode(s) {
	case GainFastAttack, GainSlowAttack:
		return Gain{Mode: GainMode(s)}, nil
	}

	db, err := strconv.Atoi(s)
	if err != nil {
		return Gain{}, fmt.Errorf("%w: %q, expected fast, slow or dB value", ErrInvalidGain, s)
	}
	return Gain{Mode: GainManual, DB: db}, nil
}
