package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/roman-kulish/sigscan/internal/config"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/tui"
	"github.com/roman-kulish/sigscan/internal/visualizer"
)

// errQuit stops the loop without an error
var errQuit = errors.New("quit")

// WithLogger sets the logger for the scan console
func WithLogger(logger *slog.Logger) func(*App) {
	return func(a *App) {
		a.logger = logger
	}
}

// App is the live scan console: it captures one sample per cycle and feeds it
// to the visualizers on screen
type App struct {
	screen   tcell.Screen
	radio    radio.Radio
	controls *Controls
	frame    time.Duration // 0 when not throttled

	logger *slog.Logger
}

// New creates the console on an initialised screen and lays out the
// visualizers named in opts
func New(screen tcell.Screen, r radio.Radio, opts config.Options, options ...func(*App)) (*App, error) {
	a := App{
		screen: screen,
		radio:  r,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&a)
	}

	if opts.FPS > 0 {
		a.frame = time.Second / time.Duration(opts.FPS)
	}

	vopts, err := config.VisualizerOptions(opts, a.logger)
	if err != nil {
		return nil, err
	}

	selected := make([]visualizer.Visualizer, 0, len(opts.Visualizers))
	for _, name := range opts.Visualizers {
		// seek plots a sweep range, the console has a single tuning
		if canonical, _ := visualizer.Canonical(name); canonical == "seek" {
			return nil, &config.ConfigError{Field: "visualizers", Err: fmt.Errorf("%q needs a sweep range, use the seek tool", name)}
		}
		v, err := visualizer.New(name, r, vopts)
		if err != nil {
			return nil, fmt.Errorf("creating visualizer: %w", err)
		}
		selected = append(selected, v)
	}

	if a.controls, err = NewControls(r, selected, vopts, a.logger); err != nil {
		return nil, err
	}
	if err = a.controls.Layout(tui.Fullscreen(screen)); err != nil {
		return nil, err
	}

	return &a, nil
}

// Run opens the radio and the terminal screen and runs the console until ctx
// is cancelled or the user quits
func Run(ctx context.Context, opts config.Options, logger *slog.Logger) error {
	r, err := config.OpenRadio(ctx, opts, logger)
	if err != nil {
		return fmt.Errorf("opening radio: %w", err)
	}
	defer r.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	a, err := New(screen, r, opts, WithLogger(logger))
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// Run loops until ctx is cancelled or a quit key is pressed. Key presses are
// applied between cycles, so a retune completes before the next capture.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	a.logger.Info("scanning", slog.Duration("frame", a.frame))

	for {
		start := time.Now()

		if err := a.drain(ctx, events); err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := a.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if a.frame > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(a.frame - time.Since(start)):
			}
		}
	}
}

// drain applies every pending event without blocking
func (a *App) drain(ctx context.Context, events <-chan tcell.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return errQuit
			}
			if err := a.HandleEvent(ev); err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// HandleEvent applies a single terminal event
func (a *App) HandleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		return a.relayout()

	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return errQuit
		}

		reshaped, err := a.controls.OnKey(ev)
		if err != nil {
			return err
		}
		if reshaped {
			a.screen.Clear()
		}
	}
	return nil
}

func (a *App) relayout() error {
	a.screen.Clear()
	return a.controls.Layout(tui.Fullscreen(a.screen))
}

// Cycle captures one sample, renders it on every active visualizer and
// flushes the screen
func (a *App) Cycle(ctx context.Context) error {
	sample, err := a.radio.Capture(ctx)
	if err != nil {
		return fmt.Errorf("capturing: %w", err)
	}

	for _, v := range a.controls.Active() {
		if err = v.UpdateSample(sample); err != nil {
			return fmt.Errorf("updating visualizer: %w", err)
		}
		v.Draw()
	}

	a.screen.Show()
	return nil
}
