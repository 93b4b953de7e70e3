package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/roman-kulish/sigscan/internal/config"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/spectrum"
	"github.com/roman-kulish/sigscan/internal/storage"
	"github.com/roman-kulish/sigscan/internal/visualizer"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)
	return screen
}

func seekOptions(t *testing.T) config.Options {
	t.Helper()
	opts := config.SeekDefaults()
	opts.FRange = "100M:102M"
	opts.Linger = 5
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return opts
}

func newSim() *radio.Sim {
	return radio.NewSim(radio.WithTones(
		radio.Tone{Frequency: 100_100_000, Amplitude: 0.5},
		radio.Tone{Frequency: 101_200_000, Amplitude: 0.5},
	))
}

func TestApp_PassRecordsSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewSqliteStore(filepath.Join(t.TempDir(), "seek.db"))
	defer store.Close()

	screen := newScreen(t)
	a, err := New(ctx, screen, newSim(), seekOptions(t), WithStore(store))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.SessionID() == 0 {
		t.Fatal("expected a session to be created")
	}

	if err = a.sweeper.Pass(ctx); err != nil {
		t.Fatalf("Pass: %v", err)
	}

	session, err := store.Session(ctx, a.SessionID())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if session.FStart != 100_000_000 || session.FStop != 102_000_000 || session.Radio != config.RadioSim {
		t.Errorf("unexpected session %+v", session)
	}
	if session.Config == nil || !strings.Contains(*session.Config, "100M:102M") {
		t.Errorf("expected the options stored with the session, got %v", session.Config)
	}

	span, err := store.ReadSignalMap(ctx, a.SessionID())
	if err != nil {
		t.Fatalf("ReadSignalMap: %v", err)
	}
	if len(span.Points) != a.Seek().Signals().Len() {
		t.Errorf("expected the stored map to match the in-memory one: %d vs %d", len(span.Points), a.Seek().Signals().Len())
	}
	for _, p := range span.Points {
		if held, ok := a.Seek().Signals().Get(p.Frequency); !ok || held != p.Dbfs {
			t.Errorf("frequency %d: stored %f, held %f", p.Frequency, p.Dbfs, held)
		}
	}

	var text strings.Builder
	for x := 0; x < 100; x++ {
		r, _, _, _ := screen.GetContent(x, 0)
		text.WriteRune(r)
	}
	if !strings.Contains(text.String(), "peak:") {
		t.Errorf("expected the seek header on screen, got %q", text.String())
	}
}

func TestApp_WithoutStore(t *testing.T) {
	a, err := New(context.Background(), newScreen(t), newSim(), seekOptions(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.SessionID() != 0 {
		t.Errorf("expected no session, got %d", a.SessionID())
	}
	if err = a.sweeper.Pass(context.Background()); err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if a.Seek().Signals().Len() == 0 {
		t.Error("expected signals without a store")
	}
}

func TestApp_QuitKey(t *testing.T) {
	a, err := New(context.Background(), newScreen(t), newSim(), seekOptions(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a.events <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	if err = a.Run(context.Background()); err != nil {
		t.Errorf("expected a clean stop, got %v", err)
	}
}

func TestApp_BadRange(t *testing.T) {
	opts := seekOptions(t)
	opts.FRange = "200M:100M"

	_, err := New(context.Background(), newScreen(t), newSim(), opts)
	if !config.IsConfigError(err) || !errors.Is(err, config.ErrBadRange) {
		t.Errorf("expected a range config error, got %v", err)
	}
}

type failingStore struct {
	storage.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) RecordSignals(context.Context, int64, time.Time, []spectrum.SignalPoint) error {
	return errDiskFull
}

func (failingStore) CreateSession(context.Context, string, int64, int64, int64, any) (int64, error) {
	return 7, nil
}

func TestApp_RecordingErrorStopsSweep(t *testing.T) {
	a, err := New(context.Background(), newScreen(t), newSim(), seekOptions(t), WithStore(failingStore{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err = a.Run(context.Background()); !errors.Is(err, errDiskFull) {
		t.Errorf("expected the recording error, got %v", err)
	}
}

func TestRecorder(t *testing.T) {
	store := storage.NewSqliteStore(filepath.Join(t.TempDir(), "seek.db"))
	defer store.Close()

	ctx := context.Background()
	id, err := store.CreateSession(ctx, "sim", 1, 2, 1, nil)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	r := NewRecorder(ctx, store, id)
	if err = r.Record([]visualizer.Signal{{Bin: 3, Frequency: 433_920_000, Dbfs: 12.5}}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	span, err := store.ReadSignalMap(ctx, id)
	if err != nil {
		t.Fatalf("ReadSignalMap: %v", err)
	}
	if len(span.Points) != 1 || span.Points[0].Frequency != 433_920_000 || span.Points[0].Dbfs != 12.5 {
		t.Errorf("unexpected points %+v", span.Points)
	}
}
