package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var ErrBadRange = errors.New("bad frequency range")

// ParseHz parses a frequency such as "100000000", "433.92M" or "1.2 GHz"
func ParseHz(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}

	v, unit, err := humanize.ParseSI(strings.TrimSuffix(s, "Hz"))
	if err != nil {
		return 0, fmt.Errorf("parsing frequency %q: %w", s, err)
	}
	if unit != "" {
		return 0, fmt.Errorf("parsing frequency %q: unexpected unit %q", s, unit)
	}
	return int64(math.Round(v)), nil
}

// ParseRange parses "min:max". An empty side stands for the matching bound
// and both sides are clamped to [lo, hi].
func ParseRange(s string, lo, hi int64) (int64, int64, error) {
	left, right, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q, expected min:max", ErrBadRange, s)
	}

	fstart, fstop := lo, hi
	var err error

	if strings.TrimSpace(left) != "" {
		if fstart, err = ParseHz(left); err != nil {
			return 0, 0, fmt.Errorf("%w: %w", ErrBadRange, err)
		}
	}
	if strings.TrimSpace(right) != "" {
		if fstop, err = ParseHz(right); err != nil {
			return 0, 0, fmt.Errorf("%w: %w", ErrBadRange, err)
		}
	}

	fstart = min(max(fstart, lo), hi)
	fstop = min(max(fstop, lo), hi)
	if fstart > fstop {
		return 0, 0, fmt.Errorf("%w: %q, start is above stop", ErrBadRange, s)
	}
	return fstart, fstop, nil
}

type hzValue struct{ p *int64 }

func (v hzValue) String() string {
	if v.p == nil {
		return ""
	}
	return strconv.FormatInt(*v.p, 10)
}

func (v hzValue) Set(s string) error {
	hz, err := ParseHz(s)
	if err != nil {
		return err
	}
	*v.p = hz
	return nil
}

type listValue struct{ p *[]string }

func (v listValue) String() string {
	if v.p == nil {
		return ""
	}
	return strings.Join(*v.p, ",")
}

func (v listValue) Set(s string) error {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	*v.p = names
	return nil
}

// binding copies one flag's value from the parsed flags into the result
type binding func(dst, src *Options)

// Flags binds the command line to Options. Flags only override the config
// file when they are set explicitly.
type Flags struct {
	fs         *flag.FlagSet
	configPath string
	defaults   Options
	parsed     Options
	bindings   map[string]binding
}

// NewFlags registers every option on fs. Short aliases follow the long names.
func NewFlags(fs *flag.FlagSet, defaults Options) *Flags {
	f := Flags{
		fs:       fs,
		defaults: defaults,
		parsed:   defaults,
		bindings: make(map[string]binding),
	}
	p := &f.parsed

	fs.StringVar(&f.configPath, "c", "", "Path to a YAML config file")

	f.hz("frequency", "f", &p.Frequency, "Centre frequency, e.g. 100M or 433.92MHz",
		func(d, s *Options) { d.Frequency = s.Frequency })
	f.hz("rate", "r", &p.Rate, "Sample rate, which is also the bandwidth and the sweep step",
		func(d, s *Options) { d.Rate = s.Rate })
	f.str("gain", "g", &p.Gain, "Gain: fast, slow or a value in dB",
		func(d, s *Options) { d.Gain = s.Gain })
	f.str("radio", "", &p.Radio, "Radio: sim or rtltcp",
		func(d, s *Options) { d.Radio = s.Radio })
	f.str("rtltcp", "", &p.RTLTCPAddr, "rtl_tcp server address",
		func(d, s *Options) { d.RTLTCPAddr = s.RTLTCPAddr })

	f.integer("fftsize", "", &p.FFTSize, "Samples per capture and FFT size",
		func(d, s *Options) { d.FFTSize = s.FFTSize })
	f.integer("nperseg", "", &p.SegmentSize, "Welch segment size, defaults to fftsize/4",
		func(d, s *Options) { d.SegmentSize = s.SegmentSize })
	f.str("window", "", &p.Window, "Window function",
		func(d, s *Options) { d.Window = s.Window })

	f.float("mindbfs", "", &p.MinDbfs, "Lowest displayed dBFS, the detection floor for seek",
		func(d, s *Options) { d.MinDbfs = s.MinDbfs })
	f.float("maxdbfs", "", &p.MaxDbfs, "Highest displayed dBFS",
		func(d, s *Options) { d.MaxDbfs = s.MaxDbfs })
	f.float("offset", "", &p.DbfsOffset, "dBFS reference offset",
		func(d, s *Options) { d.DbfsOffset = s.DbfsOffset })

	fs.Var(listValue{&p.Visualizers}, "v", "Comma separated visualizers: psd, waterfall, constellation")
	f.bindings["v"] = func(d, s *Options) { d.Visualizers = s.Visualizers }

	f.integer("fps", "", &p.FPS, "Frame rate limit, 0 for unlimited",
		func(d, s *Options) { d.FPS = s.FPS })
	f.str("style", "", &p.Style, "Colour theme",
		func(d, s *Options) { d.Style = s.Style })

	f.str("frange", "", &p.FRange, "Sweep range min:max, either side may be empty",
		func(d, s *Options) { d.FRange = s.FRange })
	f.integer("linger", "l", &p.Linger, "Captures per sweep step without a signal",
		func(d, s *Options) { d.Linger = s.Linger })
	f.str("db", "", &p.DB, "SQLite database to record signals to",
		func(d, s *Options) { d.DB = s.DB })

	f.str("log-file", "", &p.LogFile, "Log file, logs are discarded when empty",
		func(d, s *Options) { d.LogFile = s.LogFile })
	f.str("log-level", "", &p.LogLevel, "Log level: debug, info, warn or error",
		func(d, s *Options) { d.LogLevel = s.LogLevel })

	return &f
}

func (f *Flags) bind(name, alias string, b binding) {
	f.bindings[name] = b
	if alias != "" {
		f.bindings[alias] = b
	}
}

func (f *Flags) hz(name, alias string, p *int64, usage string, b binding) {
	f.fs.Var(hzValue{p}, name, usage)
	if alias != "" {
		f.fs.Var(hzValue{p}, alias, "Alias for -"+name)
	}
	f.bind(name, alias, b)
}

func (f *Flags) str(name, alias string, p *string, usage string, b binding) {
	f.fs.StringVar(p, name, *p, usage)
	if alias != "" {
		f.fs.StringVar(p, alias, *p, "Alias for -"+name)
	}
	f.bind(name, alias, b)
}

func (f *Flags) integer(name, alias string, p *int, usage string, b binding) {
	f.fs.IntVar(p, name, *p, usage)
	if alias != "" {
		f.fs.IntVar(p, alias, *p, "Alias for -"+name)
	}
	f.bind(name, alias, b)
}

func (f *Flags) float(name, alias string, p *float64, usage string, b binding) {
	f.fs.Float64Var(p, name, *p, usage)
	if alias != "" {
		f.fs.Float64Var(p, alias, *p, "Alias for -"+name)
	}
	f.bind(name, alias, b)
}

// Parse parses args and returns normalised, validated Options: defaults,
// then the config file given with -c, then explicitly set flags.
func (f *Flags) Parse(args []string) (Options, error) {
	if err := f.fs.Parse(args); err != nil {
		return Options{}, err
	}

	opts := f.defaults
	opts.Visualizers = append([]string(nil), f.defaults.Visualizers...)

	if f.configPath != "" {
		if err := Load(f.configPath, &opts); err != nil {
			return Options{}, err
		}
	}

	f.fs.Visit(func(fl *flag.Flag) {
		if b, ok := f.bindings[fl.Name]; ok {
			b(&opts, &f.parsed)
		}
	})

	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
