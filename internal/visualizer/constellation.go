package visualizer

import (
	"fmt"

	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/tui"
)

// Constellation scatters raw I/Q pairs over [-fullScale, fullScale]² with
// crosshair axes through the origin
type Constellation struct {
	radio     radio.Radio
	opts      Options
	fullScale float64

	header  tui.Region
	plot    tui.Region
	regions []tui.Region
}

func NewConstellation(r radio.Radio, opts Options) *Constellation {
	return &Constellation{
		radio:     r,
		opts:      opts.withDefaults(),
		fullScale: r.FullScale(),
	}
}

func (v *Constellation) Layout(region tui.Region) {
	v.header, v.plot = region.SplitTop(1)
	v.regions = []tui.Region{v.header, v.plot}

	v.header.SetStyle(v.opts.Theme.Header.Style())
	v.plot.SetStyle(v.opts.Theme.Plot.Style())

	v.header.SetContent(fmt.Sprintf("iq | full scale:±%g", v.fullScale))
	v.plot.SetContent(v.render(nil).Draw())
}

func (v *Constellation) render(sample radio.Sample) *tui.Plot {
	fs := v.fullScale
	plot := tui.NewPlot(v.plot.Width(), v.plot.Height(), -fs, -fs, fs, fs)

	plot.LineRune(-fs, 0, fs, 0, '─')
	plot.LineRune(0, -fs, 0, fs, '│')
	plot.PointRune(0, 0, '┼')

	for _, s := range sample {
		plot.Point(real(s), imag(s))
	}
	return plot
}

func (v *Constellation) UpdateSample(sample radio.Sample) error {
	if v.plot == nil {
		return nil
	}
	v.plot.SetContent(v.render(sample).Draw())
	return nil
}

// UpdateRadio is a no-op, the constellation does not depend on tuning
func (v *Constellation) UpdateRadio(radio.State) {}

func (v *Constellation) Draw() {
	draw(v.regions)
}
