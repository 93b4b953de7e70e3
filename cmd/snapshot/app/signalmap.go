package app

import (
	"math"

	"github.com/roman-kulish/sigscan/internal/spectrum"
)

const (
	defaultMinDbfs = 0.0
	defaultMaxDbfs = 50.0
)

// DbfsBounds is the vertical scale of the plot
type DbfsBounds struct {
	Min, Max float64
}

// Level maps dbfs to a ramp level, clamping outside the bounds
func (b DbfsBounds) Level(dbfs float64) uint8 {
	return uint8(math.Round(b.Fraction(dbfs) * 255))
}

// Fraction is the relative height of dbfs in [0, 1]
func (b DbfsBounds) Fraction(dbfs float64) float64 {
	if b.Max <= b.Min {
		return 0
	}
	return min(max((dbfs-b.Min)/(b.Max-b.Min), 0), 1)
}

// SignalMapData is a session's max-hold map binned into pixel columns. Each
// column keeps the strongest reading among the frequencies it covers.
type SignalMapData struct {
	Session   *spectrum.ScanSession
	FStart    int64
	FStop     int64
	Width     int
	Columns   []*float64
	Points    int
	Peak      spectrum.SignalPoint
	low, high float64
}

func NewSignalMapData(session *spectrum.ScanSession, fstart, fstop int64, width int) *SignalMapData {
	return &SignalMapData{
		Session: session,
		FStart:  fstart,
		FStop:   fstop,
		Width:   width,
		Columns: make([]*float64, width),
		low:     math.Inf(1),
		high:    math.Inf(-1),
	}
}

// Column returns the pixel column of freq, or false when it is outside
// [FStart, FStop]
func (d *SignalMapData) Column(freq int64) (int, bool) {
	if freq < d.FStart || freq > d.FStop || d.Width == 0 {
		return 0, false
	}
	if d.FStop == d.FStart {
		return 0, true
	}
	x := int(float64(freq-d.FStart) * float64(d.Width) / float64(d.FStop-d.FStart))
	return min(x, d.Width-1), true
}

// HzPerPixel is the frequency span covered by one column
func (d *SignalMapData) HzPerPixel() float64 {
	return float64(d.FStop-d.FStart) / float64(d.Width)
}

func (d *SignalMapData) Update(p spectrum.SignalPoint) {
	x, ok := d.Column(p.Frequency)
	if !ok {
		return
	}

	if c := d.Columns[x]; c == nil || p.Dbfs > *c {
		v := p.Dbfs
		d.Columns[x] = &v
	}

	if d.Points == 0 || p.Dbfs > d.Peak.Dbfs {
		d.Peak = p
	}
	d.Points++
	d.low = min(d.low, p.Dbfs)
	d.high = max(d.high, p.Dbfs)
}

// UpdateSpan adds every point of span
func (d *SignalMapData) UpdateSpan(span *spectrum.SignalSpan) {
	for _, p := range span.Points {
		d.Update(p)
	}
}

// Bounds fits the scale to the data rounded out to whole decibels. Manual
// limits replace the fitted ones.
func (d *SignalMapData) Bounds(manualMin, manualMax *float64) DbfsBounds {
	b := DbfsBounds{Min: defaultMinDbfs, Max: defaultMaxDbfs}
	if d.Points > 0 {
		b = DbfsBounds{Min: math.Floor(d.low), Max: math.Ceil(d.high)}
	}

	if manualMin != nil {
		b.Min = *manualMin
	}
	if manualMax != nil {
		b.Max = *manualMax
	}
	if b.Max <= b.Min {
		b.Max = b.Min + 1
	}
	return b
}
