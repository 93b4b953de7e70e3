package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roman-kulish/sigscan/internal/radio"
)

// DefaultLinger is the number of captures taken per step when no signal shows up
const DefaultLinger = 40

// Detector decides when a step has seen a signal and absorbs it
type Detector interface {
	HasSignal(sample radio.Sample) bool
	UpdateSample(sample radio.Sample) error
	UpdateRadio(state radio.State)
	Draw()
}

// Step reports the outcome of one tuned position
type Step struct {
	Pass      int
	Frequency int64
	Captures  int
	Detected  bool
}

// Steps returns fstart, fstart+step, ... while below fstop+step, so fstop is
// visited when it is aligned to the step
func Steps(fstart, fstop, step int64) []int64 {
	if fstop < fstart {
		return nil
	}
	if step <= 0 {
		return []int64{fstart}
	}

	steps := make([]int64, 0, (fstop-fstart)/step+1)
	for f := fstart; f < fstop+step; f += step {
		steps = append(steps, f)
	}
	return steps
}

// WithStep sets the retune increment, defaults to the radio bandwidth
func WithStep(step int64) func(*Sweeper) {
	return func(s *Sweeper) {
		s.step = step
	}
}

// WithLinger sets the maximum captures per step
func WithLinger(linger int) func(*Sweeper) {
	return func(s *Sweeper) {
		s.linger = linger
	}
}

// WithLogger sets the logger for the sweeper
func WithLogger(logger *slog.Logger) func(*Sweeper) {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithStepHook is called after every step, typically to flush the screen.
// A hook error stops the sweep.
func WithStepHook(fn func(Step) error) func(*Sweeper) {
	return func(s *Sweeper) {
		s.onStep = fn
	}
}

// Sweeper retunes a radio across [fstart, fstop] and feeds the first sample
// with a signal at every step to a Detector
type Sweeper struct {
	radio    radio.Radio
	detector Detector

	fstart, fstop int64
	step          int64
	linger        int
	pass          int

	onStep func(Step) error
	logger *slog.Logger
}

// New creates a Sweeper. The range is clamped to what the radio can tune.
func New(r radio.Radio, d Detector, fstart, fstop int64, options ...func(*Sweeper)) *Sweeper {
	s := Sweeper{
		radio:    r,
		detector: d,
		fstart:   radio.Clamp(fstart, r.MinFrequency(), r.MaxFrequency()),
		fstop:    radio.Clamp(fstop, r.MinFrequency(), r.MaxFrequency()),
		step:     r.Bandwidth(),
		linger:   DefaultLinger,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	s.linger = max(s.linger, 1)
	return &s
}

// Steps returns the frequencies visited by every pass
func (s *Sweeper) Steps() []int64 {
	return Steps(s.fstart, s.fstop, s.step)
}

// Pass visits every step once. Capture errors are returned as is, wrapped
// with the frequency they happened at.
func (s *Sweeper) Pass(ctx context.Context) error {
	s.pass++
	logger := s.logger.With(slog.Int("pass", s.pass))

	for _, f := range s.Steps() {
		if err := ctx.Err(); err != nil {
			return err
		}

		// the radio applies the new tuning before returning, so the next
		// capture is attributed to f
		if err := s.radio.Retune(f); err != nil {
			return fmt.Errorf("retuning to %d Hz: %w", f, err)
		}
		s.detector.UpdateRadio(radio.StateOf(s.radio))

		step := Step{Pass: s.pass, Frequency: s.radio.Frequency()}
		for step.Captures < s.linger {
			sample, err := s.radio.Capture(ctx)
			if err != nil {
				return fmt.Errorf("capturing at %d Hz: %w", f, err)
			}
			step.Captures++

			if s.detector.HasSignal(sample) {
				if err = s.detector.UpdateSample(sample); err != nil {
					return fmt.Errorf("absorbing sample at %d Hz: %w", f, err)
				}
				step.Detected = true
				break
			}
		}

		if step.Detected {
			logger.Debug("signal detected", slog.Int64("frequency", step.Frequency), slog.Int("captures", step.Captures))
		}

		s.detector.Draw()
		if s.onStep != nil {
			if err := s.onStep(step); err != nil {
				return err
			}
		}
	}

	return nil
}

// Run repeats passes until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("sweeping",
		slog.Int64("fstart", s.fstart),
		slog.Int64("fstop", s.fstop),
		slog.Int64("step", s.step),
		slog.Int("linger", s.linger))

	for {
		if err := s.Pass(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}
