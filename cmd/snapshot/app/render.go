package app

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/roman-kulish/sigscan/internal/style"
)

const (
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 60
	defaultRightBorder  = 40
)

// BorderConfig defines the sizes of space around the plot
type BorderConfig struct {
	Top    int // Space for frequency scale
	Left   int // Space for dBFS scale
	Bottom int // Space for information bar
	Right  int
}

// RenderConfig holds all configuration options of a snapshot
type RenderConfig struct {
	Height        int // plot height in pixels
	Theme         style.Theme
	Bounds        DbfsBounds
	FontSize      float64
	NoAnnotations bool
	BorderConfig  BorderConfig
}

// SignalMapRenderer draws a signal map as a bar per pixel column, coloured
// by the theme ramp
type SignalMapRenderer struct {
	config RenderConfig
}

func NewSignalMapRenderer(config RenderConfig) (*SignalMapRenderer, error) {
	if config.Height < 1 {
		return nil, fmt.Errorf("invalid plot height %d", config.Height)
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}

	switch {
	case config.NoAnnotations:
		config.BorderConfig = BorderConfig{}
	case config.BorderConfig == (BorderConfig{}):
		config.BorderConfig = BorderConfig{
			Top:    defaultTopBorder,
			Left:   defaultLeftBorder,
			Bottom: defaultBottomBorder,
			Right:  defaultRightBorder,
		}
	}

	return &SignalMapRenderer{config: config}, nil
}

// PlotArea returns the rectangle of the plot inside an image rendered from d
func (r *SignalMapRenderer) PlotArea(d *SignalMapData) image.Rectangle {
	b := r.config.BorderConfig
	return image.Rect(b.Left, b.Top, b.Left+d.Width, b.Top+r.config.Height)
}

// Render creates an image of the signal map with annotations
func (r *SignalMapRenderer) Render(d *SignalMapData) (*image.RGBA, error) {
	b := r.config.BorderConfig
	img := image.NewRGBA(image.Rect(0, 0, d.Width+b.Left+b.Right, r.config.Height+b.Top+b.Bottom))
	area := r.PlotArea(d)

	draw.Draw(img, img.Bounds(), image.NewUniform(r.config.Theme.Header.Bg), image.Point{}, draw.Src)
	draw.Draw(img, area, image.NewUniform(r.config.Theme.Plot.Bg), image.Point{}, draw.Src)

	if !r.config.NoAnnotations {
		ann, err := newAnnotator(annotatorConfig{
			FontSize: r.config.FontSize,
			Borders:  b,
			Theme:    r.config.Theme,
			Bounds:   r.config.Bounds,
		})
		if err != nil {
			return nil, fmt.Errorf("creating annotator: %w", err)
		}
		defer ann.Close()

		if err = ann.annotate(img, area, d); err != nil {
			return nil, fmt.Errorf("drawing annotations: %w", err)
		}
	}

	r.renderBars(img, area, d)
	return img, nil
}

// renderBars draws one bar per column from the bottom of area. A column
// with data is at least one pixel high.
func (r *SignalMapRenderer) renderBars(img *image.RGBA, area image.Rectangle, d *SignalMapData) {
	bounds := r.config.Bounds
	for x, dbfs := range d.Columns {
		if dbfs == nil {
			continue
		}

		c := r.config.Theme.Ramp.At(bounds.Level(*dbfs))
		height := max(int(math.Round(bounds.Fraction(*dbfs)*float64(area.Dy()))), 1)
		for y := area.Max.Y - height; y < area.Max.Y; y++ {
			img.Set(area.Min.X+x, y, c)
		}
	}
}
