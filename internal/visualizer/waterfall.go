package visualizer

import (
	"github.com/roman-kulish/sigscan/internal/dsp"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/style"
	"github.com/roman-kulish/sigscan/internal/tui"
)

// Level normalises dbfs into a ramp index: 0 at or below mindbfs, 255 at or
// above maxdbfs, linear in between
func Level(dbfs, mindbfs, maxdbfs float64) uint8 {
	switch {
	case dbfs <= mindbfs:
		return 0
	case dbfs >= maxdbfs:
		return style.RampSize - 1
	}
	return uint8((dbfs - mindbfs) / (maxdbfs - mindbfs) * (style.RampSize - 1))
}

// Waterfall scrolls one row of colour-mapped spectrum per sample
type Waterfall struct {
	radio radio.Radio
	opts  Options
	state radio.State

	xaxis   tui.Region
	plot    tui.Region
	regions []tui.Region
}

func NewWaterfall(r radio.Radio, opts Options) *Waterfall {
	return &Waterfall{
		radio: r,
		opts:  opts.withDefaults(),
		state: radio.StateOf(r),
	}
}

func (v *Waterfall) Layout(region tui.Region) {
	v.xaxis, v.plot = region.SplitTop(1)
	v.regions = []tui.Region{v.xaxis, v.plot}

	v.xaxis.SetStyle(v.opts.Theme.Label.Style())
	v.plot.SetStyle(v.opts.Theme.Plot.Style())
	v.updateXAxis()
}

func (v *Waterfall) updateXAxis() {
	if v.xaxis == nil {
		return
	}
	half := float64(v.state.Bandwidth) / 2
	v.xaxis.SetContent(tui.FrequencyLabels(v.xaxis.Width(),
		float64(v.state.Frequency)-half, float64(v.state.Frequency)+half))
}

// Row maps a dBFS spectrum onto width coloured cells
func (v *Waterfall) Row(dbfs dsp.DbfsSpectrum, width int) []tui.Cell {
	theme := v.opts.Theme
	bg := theme.Plot.Style()

	values := dsp.Resample(dbfs, width)
	row := make([]tui.Cell, len(values))
	for i, value := range values {
		level := Level(value, v.opts.MinDbfs, v.opts.MaxDbfs)
		row[i] = tui.Cell{
			Rune:  theme.Glyphs.Glyph(level),
			Style: bg.Foreground(theme.Ramp.Color(level)),
		}
	}
	return row
}

func (v *Waterfall) UpdateSample(sample radio.Sample) error {
	dbfs, err := spectrum(v.opts, v.radio, sample)
	if err != nil {
		return err
	}
	if v.plot == nil {
		return nil
	}

	v.plot.AppendRow(v.Row(dbfs, v.plot.Width()))
	return nil
}

func (v *Waterfall) UpdateRadio(state radio.State) {
	if state == v.state {
		return
	}
	v.state = state
	v.updateXAxis()
}

func (v *Waterfall) Draw() {
	draw(v.regions)
}
