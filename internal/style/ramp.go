package style

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// RampSize is the number of entries in a colour ramp
const RampSize = 256

// Ramp maps a level in [0, 255] to a colour
type Ramp [RampSize]colorful.Color

// NewRamp spreads the stops evenly over the ramp and blends between
// neighbours in Lab space
func NewRamp(stops ...colorful.Color) Ramp {
	var r Ramp

	switch len(stops) {
	case 0:
		return r
	case 1:
		for i := range r {
			r[i] = stops[0]
		}
		return r
	}

	segments := float64(len(stops) - 1)
	for i := range r {
		t := float64(i) / float64(RampSize-1) * segments

		seg := min(int(t), len(stops)-2)
		r[i] = stops[seg].BlendLab(stops[seg+1], t-float64(seg)).Clamped()
	}

	return r
}

// At returns the colour for level
func (r *Ramp) At(level uint8) colorful.Color {
	return r[level]
}

// Color returns the terminal colour for level
func (r *Ramp) Color(level uint8) tcell.Color {
	return terminalColor(r[level])
}

func terminalColor(c colorful.Color) tcell.Color {
	red, green, blue := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(red), int32(green), int32(blue))
}

// Colors is a foreground/background pair
type Colors struct {
	Fg, Bg colorful.Color
}

// Style converts the pair to a terminal style
func (c Colors) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(terminalColor(c.Fg)).Background(terminalColor(c.Bg))
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
