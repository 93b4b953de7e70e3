package app

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/roman-kulish/sigscan/internal/config"
	"github.com/roman-kulish/sigscan/internal/style"
)

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"

	defaultWidth  = 1600
	defaultHeight = 600
)

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

// Config selects the session to export and how it is drawn
type Config struct {
	DBPath        string
	SessionID     int64
	OutputFile    string
	Format        ImageFormat
	Width, Height int // plot area in pixels, borders excluded
	FRange        string
	MinDbfs       *float64 // nil to fit the data
	MaxDbfs       *float64
	Style         string
	NoAnnotations bool
	LogLevel      string
}

func NewConfig() *Config {
	return &Config{
		Format:   ImagePNG,
		Width:    defaultWidth,
		Height:   defaultHeight,
		Style:    style.DefaultTheme,
		LogLevel: "info",
	}
}

// NewConfigFromArgs parses args with fs. An extension matching the format
// is appended to the output file unless it already has one.
func NewConfigFromArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	c := NewConfig()

	var imageFormat string
	var minDbfs, maxDbfs float64
	fs.StringVar(&c.DBPath, "db", "", "Path to the database file")
	fs.Int64Var(&c.SessionID, "s", 1, "Session ID")
	fs.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	fs.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	fs.IntVar(&c.Width, "width", c.Width, "Width of the plot in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "Height of the plot in pixels")
	fs.StringVar(&c.FRange, "frange", "", "Frequency range to export, e.g. 88M:108M. Defaults to the session range")
	fs.Float64Var(&minDbfs, "min-dbfs", 0, "Manual bottom of the dBFS scale")
	fs.Float64Var(&maxDbfs, "max-dbfs", 0, "Manual top of the dBFS scale")
	fs.StringVar(&c.Style, "style", c.Style, fmt.Sprintf("Colour theme. %v", style.Names()))
	fs.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable annotations such as frequency and dBFS scales")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level. [debug, info, warn, error]")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-dbfs":
			c.MinDbfs = &minDbfs
		case "max-dbfs":
			c.MaxDbfs = &maxDbfs
		}
	})

	c.Format = ImageFormat(strings.ToLower(strings.TrimSpace(imageFormat)))
	if c.Format == "jpg" {
		c.Format = ImageJPEG
	}
	c.Style = strings.ToLower(strings.TrimSpace(c.Style))

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if filepath.Ext(c.OutputFile) == "" {
		c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return errors.New("db path is required")
	case c.SessionID <= 0:
		return errors.New("session id is required")
	case c.OutputFile == "":
		return errors.New("output file is required")
	case c.Width < 2 || c.Height < 2:
		return fmt.Errorf("image size %dx%d is too small", c.Width, c.Height)
	case c.MinDbfs != nil && c.MaxDbfs != nil && *c.MinDbfs >= *c.MaxDbfs:
		return fmt.Errorf("min-dbfs %g must be below max-dbfs %g", *c.MinDbfs, *c.MaxDbfs)
	case !style.Valid(c.Style):
		return fmt.Errorf("%w: %q, expected one of %v", style.ErrUnknownStyle, c.Style, style.Names())
	}

	if _, ok := validImageFormats[c.Format]; !ok {
		return fmt.Errorf("invalid image format: %s", c.Format)
	}
	if c.FRange != "" {
		if _, _, err := config.ParseRange(c.FRange, 0, 1<<62); err != nil {
			return fmt.Errorf("invalid frange: %w", err)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}
