package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roman-kulish/sigscan/internal/dsp"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/style"
	"github.com/roman-kulish/sigscan/internal/visualizer"
)

// simTones populate the simulated spectrum with a few familiar carriers
var simTones = []radio.Tone{
	{Frequency: 99_700_000, Amplitude: 0.2},
	{Frequency: 100_300_000, Amplitude: 0.4},
	{Frequency: 101_100_000, Amplitude: 0.1},
	{Frequency: 433_920_000, Amplitude: 0.3},
	{Frequency: 868_300_000, Amplitude: 0.05},
}

// NewLogger builds the text logger of a tool. The terminal belongs to the
// screen, so logs go to LogFile and are discarded when it is empty. The
// returned closer releases the log file.
func NewLogger(o Options) (*slog.Logger, io.Closer, error) {
	level, err := o.Level()
	if err != nil {
		return nil, nil, &ConfigError{Field: "logLevel", Err: err}
	}

	var w io.WriteCloser = nopCloser{io.Discard}
	if o.LogFile != "" {
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, w, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// OpenRadio creates the configured radio and applies the tuning, buffer
// size and gain options to it
func OpenRadio(ctx context.Context, o Options, logger *slog.Logger) (radio.Radio, error) {
	gain, err := radio.ParseGain(o.Gain)
	if err != nil {
		return nil, &ConfigError{Field: "gain", Err: err}
	}

	var r radio.Radio
	switch o.Radio {
	case RadioSim:
		r = radio.NewSim(radio.WithTones(simTones...))

	case RadioRTLTCP:
		if r, err = radio.DialRTLTCP(ctx, o.RTLTCPAddr, radio.WithLogger(logger)); err != nil {
			return nil, err
		}

	default:
		return nil, invalid("radio", "%q", o.Radio)
	}

	steps := []struct {
		msg string
		fn  func() error
	}{
		{msg: "setting buffer size", fn: func() error { return r.SetBufferSize(o.FFTSize) }},
		{msg: "setting bandwidth", fn: func() error { return r.UpdateBandwidth(o.Rate) }},
		{msg: "tuning", fn: func() error { return r.Retune(o.Frequency) }},
		{msg: "setting gain", fn: func() error { return r.SetGain(gain) }},
	}
	for _, s := range steps {
		if err = s.fn(); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("%s: %w", s.msg, err)
		}
	}

	logger.Info("radio ready",
		slog.String("radio", o.Radio),
		slog.Int64("frequency", r.Frequency()),
		slog.Int64("bandwidth", r.Bandwidth()),
		slog.String("gain", gain.String()))

	return r, nil
}

// VisualizerOptions maps Options onto the visualizer settings. One analyzer
// is shared by every visualizer of a tool.
func VisualizerOptions(o Options, logger *slog.Logger) (visualizer.Options, error) {
	theme, err := style.Lookup(o.Style)
	if err != nil {
		return visualizer.Options{}, &ConfigError{Field: "style", Err: err}
	}

	return visualizer.Options{
		SegmentSize: o.SegmentSize,
		Window:      o.Window,
		MinDbfs:     o.MinDbfs,
		MaxDbfs:     o.MaxDbfs,
		DbfsOffset:  o.DbfsOffset,
		Theme:       theme,
		Analyzer:    dsp.NewAnalyzer(),
		Logger:      logger,
	}, nil
}
