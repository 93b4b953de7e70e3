package visualizer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roman-kulish/sigscan/internal/dsp"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/style"
	"github.com/roman-kulish/sigscan/internal/tui"
)

var (
	// ErrUnknownVisualizer is returned by New for unregistered names
	ErrUnknownVisualizer = errors.New("unknown visualizer")
)

// Visualizer consumes one sample per cycle and renders it into its region
type Visualizer interface {
	// Layout assigns the region to draw into and (re)builds sub-regions
	Layout(region tui.Region)
	UpdateSample(sample radio.Sample) error
	// UpdateRadio reports a retune or bandwidth change
	UpdateRadio(state radio.State)
	Draw()
}

// Options configure every visualizer
type Options struct {
	SegmentSize int
	Window      string
	MinDbfs     float64
	MaxDbfs     float64
	DbfsOffset  float64

	// Seek only
	FStart int64
	FStop  int64

	Theme    style.Theme
	Analyzer *dsp.Analyzer
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Window == "" {
		o.Window = "hann"
	}
	if o.Analyzer == nil {
		o.Analyzer = dsp.NewAnalyzer()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Theme.Glyphs == nil {
		o.Theme, _ = style.Lookup(style.DefaultTheme)
	}
	return o
}

var factories = map[string]func(radio.Radio, Options) Visualizer{
	"psd":           func(r radio.Radio, o Options) Visualizer { return NewPSD(r, o) },
	"waterfall":     func(r radio.Radio, o Options) Visualizer { return NewWaterfall(r, o) },
	"constellation": func(r radio.Radio, o Options) Visualizer { return NewConstellation(r, o) },
	"seek":          func(r radio.Radio, o Options) Visualizer { return NewSeek(r, o) },
}

var aliases = map[string]string{
	"p": "psd",
	"f": "waterfall",
	"c": "constellation",
}

// Canonical resolves a visualizer name or its one-letter alias
func Canonical(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if full, ok := aliases[name]; ok {
		name = full
	}
	if _, ok := factories[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVisualizer, name)
	}
	return name, nil
}

// New creates the named visualizer
func New(name string, r radio.Radio, opts Options) (Visualizer, error) {
	name, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	return factories[name](r, opts), nil
}

// spectrum computes the dBFS spectrum of sample at the radio's current bandwidth
func spectrum(o Options, r radio.Radio, sample radio.Sample) (dsp.DbfsSpectrum, error) {
	p, err := o.Analyzer.ComputeSpectrum(sample, o.Window, o.SegmentSize, float64(r.Bandwidth()))
	if err != nil {
		return nil, fmt.Errorf("computing spectrum: %w", err)
	}
	return dsp.ToDbfs(p, o.DbfsOffset), nil
}

// axes is the common header / y-axis / plot / x-axis arrangement
type axes struct {
	header tui.Region
	yaxis  tui.Region
	plot   tui.Region
	corner tui.Region
	xaxis  tui.Region
}

func newAxes(region tui.Region, theme style.Theme, ywidth int) axes {
	var a axes

	var body, upper, bottom tui.Region
	a.header, body = region.SplitTop(1)
	upper, bottom = body.SplitBottom(1)
	a.yaxis, a.plot = upper.SplitLeft(ywidth)
	a.corner, a.xaxis = bottom.SplitLeft(ywidth)

	a.header.SetStyle(theme.Header.Style())
	a.plot.SetStyle(theme.Plot.Style())
	for _, r := range []tui.Region{a.yaxis, a.corner, a.xaxis} {
		r.SetStyle(theme.Label.Style())
	}

	return a
}

func (a axes) regions() []tui.Region {
	return []tui.Region{a.header, a.yaxis, a.plot, a.corner, a.xaxis}
}

// draw paints every region that has been laid out
func draw(regions []tui.Region) {
	for _, r := range regions {
		if r != nil {
			r.Draw()
		}
	}
}
