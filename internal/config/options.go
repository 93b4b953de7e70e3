package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/sigscan/internal/dsp"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/style"
	"github.com/roman-kulish/sigscan/internal/visualizer"
)

const (
	RadioSim    = "sim"
	RadioRTLTCP = "rtltcp"

	// MaxVisualizers is how many visualizers fit on the scan screen at once
	MaxVisualizers = 3
)

var validRadios = map[string]struct{}{
	RadioSim:    {},
	RadioRTLTCP: {},
}

// ConfigError reports an invalid configuration field
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func invalid(field string, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// Options is the flat configuration shared by the tools
type Options struct {
	// Radio
	Radio      string `yaml:"radio"`
	RTLTCPAddr string `yaml:"rtltcpAddr"`
	Frequency  int64  `yaml:"frequency"`
	Rate       int64  `yaml:"rate"` // Sample rate, bandwidth and sweep step in Hz
	Gain       string `yaml:"gain"`

	// FFT
	FFTSize     int    `yaml:"fftSize"`     // Radio buffer and FFT size
	SegmentSize int    `yaml:"segmentSize"` // Welch segment size, FFTSize for a single periodogram
	Window      string `yaml:"window"`

	// Display
	MinDbfs     float64  `yaml:"minDbfs"`
	MaxDbfs     float64  `yaml:"maxDbfs"`
	DbfsOffset  float64  `yaml:"dbfsOffset"`
	Visualizers []string `yaml:"visualizers"`
	FPS         int      `yaml:"fps"`
	Style       string   `yaml:"style"`

	// Seek
	FRange string `yaml:"frange"` // "min:max" in Hz, either side may be empty
	Linger int    `yaml:"linger"`
	DB     string `yaml:"db"`

	LogFile  string `yaml:"logFile"`
	LogLevel string `yaml:"logLevel"`
}

// Defaults are the scan console defaults
func Defaults() Options {
	return Options{
		Radio:       RadioSim,
		RTLTCPAddr:  "127.0.0.1:1234",
		Frequency:   100_000_000,
		Rate:        1_000_000,
		Gain:        "fast",
		FFTSize:     1024,
		Window:      "hann",
		MinDbfs:     -50,
		MaxDbfs:     40,
		DbfsOffset:  dsp.DefaultDbfsOffset,
		Visualizers: []string{"psd", "waterfall"},
		Style:       style.DefaultTheme,
		Linger:      40,
		LogLevel:    "info",
	}
}

// SeekDefaults only record signals at or above 0 dBFS
func SeekDefaults() Options {
	o := Defaults()
	o.MinDbfs = 0
	o.MaxDbfs = 50
	o.Visualizers = []string{"seek"}
	return o
}

// Load merges a YAML file over o. Keys missing from the file keep their value.
func Load(path string, o *Options) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)

	if err = decoder.Decode(o); err != nil {
		return fmt.Errorf("decoding config file %s: %w", path, err)
	}
	return nil
}

// Normalize defaults the segment size to a quarter of the FFT size and
// clamps it to the FFT size
func (o *Options) Normalize() {
	if o.SegmentSize <= 0 {
		o.SegmentSize = max(o.FFTSize/4, 1)
	}
	o.SegmentSize = min(o.SegmentSize, o.FFTSize)

	for i, name := range o.Visualizers {
		o.Visualizers[i] = strings.ToLower(strings.TrimSpace(name))
	}
	o.Window = strings.ToLower(strings.TrimSpace(o.Window))
	o.Style = strings.ToLower(strings.TrimSpace(o.Style))
	o.Radio = strings.ToLower(strings.TrimSpace(o.Radio))
}

// Validate reports the first invalid field as a *ConfigError
func (o *Options) Validate() error {
	if _, ok := validRadios[o.Radio]; !ok {
		return invalid("radio", "%q, expected %s or %s", o.Radio, RadioSim, RadioRTLTCP)
	}
	if o.Radio == RadioRTLTCP && o.RTLTCPAddr == "" {
		return invalid("rtltcpAddr", "address is required for the %s radio", RadioRTLTCP)
	}
	if o.Frequency <= 0 {
		return invalid("frequency", "must be positive: %d", o.Frequency)
	}
	if o.Rate <= 0 {
		return invalid("rate", "must be positive: %d", o.Rate)
	}
	if _, err := radio.ParseGain(o.Gain); err != nil {
		return &ConfigError{Field: "gain", Err: err}
	}

	if o.FFTSize <= 0 {
		return invalid("fftSize", "must be positive: %d", o.FFTSize)
	}
	if o.SegmentSize <= 0 || o.SegmentSize > o.FFTSize {
		return invalid("segmentSize", "must be between 1 and fftSize %d: %d", o.FFTSize, o.SegmentSize)
	}
	if !dsp.ValidWindow(o.Window) {
		return &ConfigError{Field: "window", Err: fmt.Errorf("%w: %q, expected one of %s",
			dsp.ErrUnknownWindow, o.Window, strings.Join(dsp.WindowNames(), ", "))}
	}

	if o.MinDbfs >= o.MaxDbfs {
		return invalid("minDbfs", "must be below maxDbfs: %g >= %g", o.MinDbfs, o.MaxDbfs)
	}
	if len(o.Visualizers) > MaxVisualizers {
		return invalid("visualizers", "at most %d visualizers fit the screen: %d given", MaxVisualizers, len(o.Visualizers))
	}
	for _, name := range o.Visualizers {
		if _, err := visualizer.Canonical(name); err != nil {
			return &ConfigError{Field: "visualizers", Err: err}
		}
	}
	if o.FPS < 0 {
		return invalid("fps", "must not be negative: %d", o.FPS)
	}
	if !style.Valid(o.Style) {
		return &ConfigError{Field: "style", Err: fmt.Errorf("%w: %q, expected one of %s",
			style.ErrUnknownStyle, o.Style, strings.Join(style.Names(), ", "))}
	}

	if o.Linger < 1 {
		return invalid("linger", "must be at least 1: %d", o.Linger)
	}
	if o.FRange != "" {
		if _, _, err := ParseRange(o.FRange, 0, 1<<62); err != nil {
			return &ConfigError{Field: "frange", Err: err}
		}
	}

	if _, err := o.Level(); err != nil {
		return &ConfigError{Field: "logLevel", Err: err}
	}

	return nil
}

// Level parses LogLevel
func (o *Options) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return 0, err
	}
	return level, nil
}

// IsConfigError reports whether err was caused by invalid configuration
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
