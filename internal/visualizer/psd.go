package visualizer

import (
	"fmt"

	"github.com/roman-kulish/sigscan/internal/dsp"
	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/tui"
)

// PSD plots the instantaneous spectrum as a line of dBFS against frequency
type PSD struct {
	radio radio.Radio
	opts  Options
	state radio.State

	axes    axes
	regions []tui.Region
}

func NewPSD(r radio.Radio, opts Options) *PSD {
	return &PSD{
		radio: r,
		opts:  opts.withDefaults(),
		state: radio.StateOf(r),
	}
}

func (v *PSD) Layout(region tui.Region) {
	v.axes = newAxes(region, v.opts.Theme, tui.DbLabelWidth(v.opts.MinDbfs, v.opts.MaxDbfs))
	v.regions = v.axes.regions()

	v.axes.yaxis.SetContent(tui.DbLabels(v.axes.yaxis.Width(), v.axes.yaxis.Height(), v.opts.MinDbfs, v.opts.MaxDbfs))
	v.updateXAxis()
	v.updateHeader(0, 0, false)
}

func (v *PSD) span() (float64, float64) {
	half := float64(v.state.Bandwidth) / 2
	return float64(v.state.Frequency) - half, float64(v.state.Frequency) + half
}

func (v *PSD) updateXAxis() {
	if v.axes.xaxis == nil {
		return
	}
	start, end := v.span()
	v.axes.xaxis.SetContent(tui.FrequencyLabels(v.axes.xaxis.Width(), start, end))
}

func (v *PSD) updateHeader(peakHz int64, peakDbfs float64, ok bool) {
	if v.axes.header == nil {
		return
	}

	text := fmt.Sprintf("freq:%s | bw:%s",
		tui.FormatFrequency(float64(v.state.Frequency)),
		tui.FormatHz(float64(v.state.Bandwidth)))

	if ok {
		text += fmt.Sprintf(" | peak:%s (%.1f dBFS)", tui.FormatFrequency(float64(peakHz)), peakDbfs)
	}

	v.axes.header.SetContent(text)
}

func (v *PSD) UpdateSample(sample radio.Sample) error {
	dbfs, err := spectrum(v.opts, v.radio, sample)
	if err != nil {
		return err
	}
	if len(dbfs) == 0 {
		return nil
	}

	idx, peak := dsp.Peak(dbfs)
	v.updateHeader(dsp.BinFrequency(v.state.Frequency, v.state.Bandwidth, idx, len(dbfs)), peak, true)

	if v.axes.plot == nil {
		return nil
	}

	start, end := v.span()
	plot := tui.NewPlot(v.axes.plot.Width(), v.axes.plot.Height(), start, v.opts.MinDbfs, end, v.opts.MaxDbfs)

	x := func(i int) float64 {
		return float64(dsp.BinFrequency(v.state.Frequency, v.state.Bandwidth, i, len(dbfs)))
	}
	for i := 1; i < len(dbfs); i++ {
		plot.Line(x(i-1), dbfs[i-1], x(i), dbfs[i])
	}
	if len(dbfs) == 1 {
		plot.Point(x(0), dbfs[0])
	}

	v.axes.plot.SetContent(plot.Draw())
	return nil
}

func (v *PSD) UpdateRadio(state radio.State) {
	if state == v.state {
		return
	}
	v.state = state
	v.updateXAxis()
	v.updateHeader(0, 0, false)
}

func (v *PSD) Draw() {
	draw(v.regions)
}
