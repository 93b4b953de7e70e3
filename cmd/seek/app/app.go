package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/roman-kulish/sigscan/internal/config"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/storage"
	"github.com/roman-kulish/sigscan/internal/sweep"
	"github.com/roman-kulish/sigscan/internal/tui"
	"github.com/roman-kulish/sigscan/internal/visualizer"
)

var errQuit = errors.New("quit")

// WithLogger sets the logger for the seek console
func WithLogger(logger *slog.Logger) func(*App) {
	return func(a *App) {
		a.logger = logger
	}
}

// WithStore records every max-hold update into a new session of store
func WithStore(store storage.Store) func(*App) {
	return func(a *App) {
		a.store = store
	}
}

// App sweeps the radio across a frequency range and plots the strongest
// level seen per frequency
type App struct {
	screen  tcell.Screen
	radio   radio.Radio
	seek    *visualizer.Seek
	sweeper *sweep.Sweeper
	events  chan tcell.Event

	store     storage.Store
	sessionID int64

	logger *slog.Logger
}

// New creates the console on an initialised screen. With a store, a session
// is created for the sweep before it starts.
func New(ctx context.Context, screen tcell.Screen, r radio.Radio, opts config.Options, options ...func(*App)) (*App, error) {
	a := App{
		screen: screen,
		radio:  r,
		events: make(chan tcell.Event, 16),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&a)
	}

	fstart, fstop := r.MinFrequency(), r.MaxFrequency()
	if opts.FRange != "" {
		var err error
		if fstart, fstop, err = config.ParseRange(opts.FRange, fstart, fstop); err != nil {
			return nil, &config.ConfigError{Field: "frange", Err: err}
		}
	}

	vopts, err := config.VisualizerOptions(opts, a.logger)
	if err != nil {
		return nil, err
	}
	vopts.FStart, vopts.FStop = fstart, fstop

	var seekOptions []func(*visualizer.Seek)
	if a.store != nil {
		if a.sessionID, err = a.store.CreateSession(ctx, opts.Radio, fstart, fstop, r.Bandwidth(), opts); err != nil {
			return nil, fmt.Errorf("creating session: %w", err)
		}
		seekOptions = append(seekOptions, visualizer.WithRecorder(NewRecorder(ctx, a.store, a.sessionID)))

		a.logger.Info("recording", slog.Int64("session", a.sessionID))
	}

	a.seek = visualizer.NewSeek(r, vopts, seekOptions...)
	a.seek.Layout(tui.Fullscreen(screen))

	a.sweeper = sweep.New(r, a.seek, fstart, fstop,
		sweep.WithLinger(opts.Linger),
		sweep.WithLogger(a.logger),
		sweep.WithStepHook(a.onStep))

	return &a, nil
}

// SessionID is the recorded session, 0 without a store
func (a *App) SessionID() int64 {
	return a.sessionID
}

// Seek returns the visualizer accumulating the sweep
func (a *App) Seek() *visualizer.Seek {
	return a.seek
}

// Run opens the radio, the optional store and the terminal screen and
// sweeps until ctx is cancelled or the user quits
func Run(ctx context.Context, opts config.Options, logger *slog.Logger) error {
	r, err := config.OpenRadio(ctx, opts, logger)
	if err != nil {
		return fmt.Errorf("opening radio: %w", err)
	}
	defer r.Close()

	options := []func(*App){WithLogger(logger)}
	if opts.DB != "" {
		store := storage.NewSqliteStore(opts.DB)
		defer store.Close()

		options = append(options, WithStore(store))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	a, err := New(ctx, screen, r, opts, options...)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// Run sweeps pass after pass. Keys are polled after every step.
func (a *App) Run(ctx context.Context) error {
	quit := make(chan struct{})
	go a.screen.ChannelEvents(a.events, quit)
	defer close(quit)

	if err := a.sweeper.Run(ctx); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// onStep flushes the screen and applies pending events
func (a *App) onStep(step sweep.Step) error {
	a.screen.Show()

	for {
		select {
		case ev, ok := <-a.events:
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
		a.screen.Clear()
		a.seek.Layout(tui.Fullscreen(a.screen))

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
			return errQuit
		}
	}
	return nil
}
