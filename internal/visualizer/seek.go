package visualizer

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/roman-kulish/sigscan/internal/dsp"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/tui"
)

// Signal is a spectrum bin at or above the detection floor
type Signal struct {
	Bin       int
	Frequency int64 // Absolute frequency of the bin in Hz
	Dbfs      float64
}

// Recorder receives every max-hold update made by Seek
type Recorder interface {
	Record(signals []Signal) error
}

// RecorderFunc adapts a function to Recorder
type RecorderFunc func(signals []Signal) error

func (f RecorderFunc) Record(signals []Signal) error { return f(signals) }

// WithRecorder persists max-hold updates
func WithRecorder(r Recorder) func(*Seek) {
	return func(s *Seek) {
		s.recorder = r
	}
}

type detection struct {
	first     *complex128
	length    int
	frequency int64
	bandwidth int64
	signals   []Signal
}

// Seek accumulates the strongest level ever seen per frequency across a
// sweep of [FStart, FStop] and plots the composite map
type Seek struct {
	radio   radio.Radio
	opts    Options
	logger  *slog.Logger
	fstart  int64
	fstop   int64
	mindbfs float64
	maxdbfs float64

	signals  *SignalMap
	recorder Recorder
	last     detection

	container tui.Region
	ywidth    int
	axes      axes
	regions   []tui.Region
}

func NewSeek(r radio.Radio, opts Options, options ...func(*Seek)) *Seek {
	opts = opts.withDefaults()

	s := Seek{
		radio:   r,
		opts:    opts,
		logger:  opts.Logger.With(slog.String("visualizer", "seek")),
		fstart:  opts.FStart,
		fstop:   opts.FStop,
		mindbfs: opts.MinDbfs,
		maxdbfs: opts.MaxDbfs,
		signals: NewSignalMap(),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Signals returns the accumulated max-hold map
func (s *Seek) Signals() *SignalMap { return s.signals }

// MaxDbfs is the current y-axis ceiling, it only grows
func (s *Seek) MaxDbfs() float64 { return s.maxdbfs }

// FindSignals returns every bin of sample at or above the detection floor,
// tagged with its absolute frequency at the radio's current tuning
func (s *Seek) FindSignals(sample radio.Sample) ([]Signal, error) {
	frequency, bandwidth := s.radio.Frequency(), s.radio.Bandwidth()

	// captures are never refilled, so the backing array identifies a sample
	if len(sample) > 0 && s.last.first == &sample[0] && s.last.length == len(sample) &&
		s.last.frequency == frequency && s.last.bandwidth == bandwidth {
		return s.last.signals, nil
	}

	dbfs, err := spectrum(s.opts, s.radio, sample)
	if err != nil {
		return nil, err
	}

	var signals []Signal
	for i, v := range dbfs {
		if v >= s.mindbfs {
			signals = append(signals, Signal{
				Bin:       i,
				Frequency: dsp.BinFrequency(frequency, bandwidth, i, len(dbfs)),
				Dbfs:      v,
			})
		}
	}

	if len(sample) > 0 {
		s.last = detection{&sample[0], len(sample), frequency, bandwidth, signals}
	}
	return signals, nil
}

// HasSignal reports whether any bin of sample reaches the detection floor
func (s *Seek) HasSignal(sample radio.Sample) bool {
	signals, err := s.FindSignals(sample)
	if err != nil {
		s.logger.Error("detecting signals", slog.Any("error", err))
		return false
	}
	return len(signals) > 0
}

// UpdateSample folds the detected signals into the max-hold map. Nothing is
// re-rendered unless the map changed.
func (s *Seek) UpdateSample(sample radio.Sample) error {
	signals, err := s.FindSignals(sample)
	if err != nil {
		return err
	}

	var updates []Signal
	for _, sig := range signals {
		if !s.signals.Update(sig.Frequency, sig.Dbfs) {
			continue
		}
		updates = append(updates, sig)
		if sig.Dbfs > s.maxdbfs {
			s.maxdbfs = max(s.maxdbfs, math.Round(sig.Dbfs))
		}
	}

	if len(updates) == 0 {
		return nil
	}

	s.render()

	if s.recorder != nil {
		if err = s.recorder.Record(updates); err != nil {
			return fmt.Errorf("recording signals: %w", err)
		}
	}
	return nil
}

func (s *Seek) render() {
	if s.container == nil {
		return
	}
	if tui.DbLabelWidth(s.mindbfs, s.maxdbfs) != s.ywidth {
		s.Layout(s.container)
		return
	}
	s.updateHeader()
	s.updateYAxis()
	s.updatePlot()
}

func (s *Seek) Layout(region tui.Region) {
	s.container = region
	s.ywidth = tui.DbLabelWidth(s.mindbfs, s.maxdbfs)
	s.axes = newAxes(region, s.opts.Theme, s.ywidth)
	s.regions = s.axes.regions()

	s.updateHeader()
	s.updateYAxis()
	s.updateXAxis()
	s.updatePlot()
}

func (s *Seek) updateHeader() {
	if s.axes.header == nil {
		return
	}

	peak := "none"
	if freq, dbfs, ok := s.signals.Peak(); ok {
		peak = fmt.Sprintf("%s (%d)", tui.FormatFrequency(float64(freq)), int(math.Round(dbfs)))
	}

	s.axes.header.SetContent(fmt.Sprintf("now:%s | peak:%s",
		tui.FormatFrequency(float64(s.radio.Frequency())), peak))
}

func (s *Seek) updateYAxis() {
	y := s.axes.yaxis
	y.SetContent(tui.DbLabels(y.Width(), y.Height(), s.mindbfs, s.maxdbfs))
}

func (s *Seek) updateXAxis() {
	x := s.axes.xaxis
	x.SetContent(tui.FrequencyLabels(x.Width(), float64(s.fstart), float64(s.fstop)))
}

func (s *Seek) updatePlot() {
	plot := tui.NewPlot(s.axes.plot.Width(), s.axes.plot.Height(),
		float64(s.fstart), s.mindbfs, float64(s.fstop), s.maxdbfs)

	// frequencies never seen stay blank
	s.signals.Range(func(freq int64, dbfs float64) bool {
		plot.Point(float64(freq), dbfs)
		return true
	})

	s.axes.plot.SetContent(plot.Draw())
}

// UpdateRadio refreshes the "now" frequency in the header
func (s *Seek) UpdateRadio(radio.State) {
	s.updateHeader()
}

func (s *Seek) Draw() {
	draw(s.regions)
}
