package app

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roman-kulish/sigscan/internal/style"
	"github.com/roman-kulish/sigscan/internal/tui"
)

const (
	dpi            = 96.0
	fontSize       = 10.0
	tickMarkLength = 5
	pixelsPerLabel = 150.0
	pixelsPerDb    = 40.0
	lineSpacing    = 1.4
)

type annotatorConfig struct {
	FontSize float64
	Borders  BorderConfig
	Theme    style.Theme
	Bounds   DbfsBounds
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
	ink      color.Color
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.NewUniform(config.Theme.Header.Fg))

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
		ink: config.Theme.Label.Fg,
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, area image.Rectangle, d *SignalMapData) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawFrequencyScale(img, area, d); err != nil {
		return fmt.Errorf("drawing frequency scale: %w", err)
	}
	if err := a.drawDbfsScale(img, area); err != nil {
		return fmt.Errorf("drawing dBFS scale: %w", err)
	}
	if err := a.drawInfoBar(img, area, d); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}
	return nil
}

func (a *annotator) fontHeight() int {
	metrics := a.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round()
}

func (a *annotator) drawFrequencyScale(img *image.RGBA, area image.Rectangle, d *SignalMapData) error {
	span := float64(d.FStop - d.FStart)
	if span <= 0 {
		return a.drawFrequencyLabel(img, area.Min.X, float64(d.FStart))
	}

	step := niceStep(span / max(float64(d.Width)/pixelsPerLabel, 1))
	for freq := math.Ceil(float64(d.FStart)/step) * step; freq <= float64(d.FStop); freq += step {
		x := area.Min.X + int((freq-float64(d.FStart))/span*float64(d.Width))
		if err := a.drawFrequencyLabel(img, x, freq); err != nil {
			return err
		}
	}
	return nil
}

func (a *annotator) drawFrequencyLabel(img *image.RGBA, x int, freq float64) error {
	top := a.config.Borders.Top
	for y := top - tickMarkLength; y < top; y++ {
		img.Set(x, y, a.ink)
	}

	label := tui.FormatFrequency(freq)
	width := font.MeasureString(a.fontFace, label).Round()
	pt := freetype.Pt(x-width/2, top-tickMarkLength-a.fontHeight()/2)
	if _, err := a.context.DrawString(label, pt); err != nil {
		return fmt.Errorf("drawing frequency label: %w", err)
	}
	return nil
}

func (a *annotator) drawDbfsScale(img *image.RGBA, area image.Rectangle) error {
	bounds := a.config.Bounds
	step := niceStep((bounds.Max - bounds.Min) / max(float64(area.Dy())/pixelsPerDb, 1))
	descent := a.fontFace.Metrics().Descent.Round()

	for db := math.Ceil(bounds.Min/step) * step; db <= bounds.Max; db += step {
		y := area.Max.Y - int(math.Round(bounds.Fraction(db)*float64(area.Dy())))

		for x := area.Min.X - tickMarkLength; x < area.Min.X; x++ {
			img.Set(x, y, a.ink)
		}

		label := humanize.FtoaWithDigits(db, 1) + " dB"
		width := font.MeasureString(a.fontFace, label).Round()
		pt := freetype.Pt(area.Min.X-tickMarkLength-3-width, y+a.fontHeight()/2-descent)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing dBFS label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawInfoBar(img *image.RGBA, area image.Rectangle, d *SignalMapData) error {
	var lines []string

	var sb strings.Builder
	if s := d.Session; s != nil {
		fmt.Fprintf(&sb, "Session %d (%s), %s; ", s.ID, s.Radio, s.StartTime.UTC().Format(time.DateTime))
	}
	fmt.Fprintf(&sb, "Freq: %s - %s; 1px = %s",
		tui.FormatFrequency(float64(d.FStart)),
		tui.FormatFrequency(float64(d.FStop)),
		tui.FormatHz(d.HzPerPixel()))
	lines = append(lines, sb.String())

	if d.Points > 0 {
		lines = append(lines, fmt.Sprintf("Peak: %s at %s dBFS; %s readings",
			tui.FormatFrequency(float64(d.Peak.Frequency)),
			humanize.FtoaWithDigits(d.Peak.Dbfs, 1),
			humanize.Comma(int64(d.Points))))
	} else {
		lines = append(lines, "No readings in range")
	}

	pt := freetype.Pt(area.Min.X, area.Max.Y+a.fontHeight()+tickMarkLength)
	for _, line := range lines {
		if _, err := a.context.DrawString(line, pt); err != nil {
			return fmt.Errorf("drawing info text: %w", err)
		}
		pt.Y += a.context.PointToFixed(a.config.FontSize * lineSpacing)
	}
	return nil
}

// niceStep rounds target up to the next 1, 2 or 5 times a power of ten
func niceStep(target float64) float64 {
	if target <= 0 || math.IsInf(target, 0) || math.IsNaN(target) {
		return 1
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(target)))
	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * magnitude; step >= target {
			return step
		}
	}
	return 10 * magnitude
}
