package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/roman-kulish/sigscan/internal/config"
	"github.com/roman-kulish/sigscan/internal/spectrum"
	"github.com/roman-kulish/sigscan/internal/storage"
	"github.com/roman-kulish/sigscan/internal/style"
	"github.com/roman-kulish/sigscan/internal/tui"
)

// SessionReader is the part of the store a snapshot reads from
type SessionReader interface {
	Session(ctx context.Context, id int64) (*spectrum.ScanSession, error)
	ReadSignalMap(ctx context.Context, sessionID int64, opts ...storage.ReaderOption) (*spectrum.SignalSpan, error)
}

// Run exports one session of the database to an image file
func Run(ctx context.Context, cfg *Config, logger *slog.Logger) (err error) {
	if _, err = os.Stat(cfg.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", cfg.DBPath, err)
	}

	store := storage.NewSqliteStore(cfg.DBPath)
	defer store.Close()

	img, err := Render(ctx, store, cfg, logger)
	if err != nil {
		return err
	}

	out, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", closeErr)
		}
	}()

	if err = Encode(out, img, cfg.Format); err != nil {
		return fmt.Errorf("encoding %s: %w", cfg.Format, err)
	}

	logger.Info("snapshot written", slog.String("destination", cfg.OutputFile))
	return nil
}

// Render reads a session's max-hold map and draws it
func Render(ctx context.Context, store SessionReader, cfg *Config, logger *slog.Logger) (*image.RGBA, error) {
	session, err := store.Session(ctx, cfg.SessionID)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	fstart, fstop := session.FStart, session.FStop
	if cfg.FRange != "" {
		if fstart, fstop, err = config.ParseRange(cfg.FRange, fstart, fstop); err != nil {
			return nil, fmt.Errorf("invalid frange: %w", err)
		}
	}

	logger.Info("reading signal map",
		slog.Int64("session", session.ID),
		slog.String("radio", session.Radio),
		slog.String("started", session.StartTime.Local().Format(time.DateTime)),
		slog.String("fstart", tui.FormatFrequency(float64(fstart))),
		slog.String("fstop", tui.FormatFrequency(float64(fstop))))

	data := NewSignalMapData(session, fstart, fstop, cfg.Width)

	span, err := store.ReadSignalMap(ctx, session.ID, storage.WithFreqRange(fstart, fstop))
	switch {
	case errors.Is(err, storage.ErrNoData):
		logger.Warn("no readings in range")
	case err != nil:
		return nil, fmt.Errorf("reading signal map: %w", err)
	default:
		data.UpdateSpan(span)
		if peak, ok := span.Peak(); ok {
			logger.Debug("strongest reading",
				slog.String("frequency", tui.FormatFrequency(float64(peak.Frequency))),
				slog.Float64("dbfs", peak.Dbfs))
		}
	}

	theme, err := style.Lookup(cfg.Style)
	if err != nil {
		return nil, err
	}

	bounds := data.Bounds(cfg.MinDbfs, cfg.MaxDbfs)
	logger.Info("rendering signal map",
		slog.Int("readings", data.Points),
		slog.Float64("minDbfs", bounds.Min),
		slog.Float64("maxDbfs", bounds.Max),
		slog.Group("image",
			slog.String("format", string(cfg.Format)),
			slog.String("style", cfg.Style),
			slog.Int("width", cfg.Width),
			slog.Int("height", cfg.Height)))

	renderer, err := NewSignalMapRenderer(RenderConfig{
		Height:        cfg.Height,
		Theme:         theme,
		Bounds:        bounds,
		NoAnnotations: cfg.NoAnnotations,
	})
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	img, err := renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("rendering signal map: %w", err)
	}
	return img, nil
}

func Encode(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case ImagePNG:
		return png.Encode(w, img)
	case ImageJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 98})
	}
	return fmt.Errorf("invalid image format: %s", format)
}
