package style

import (
	"math/rand"
)

// GlyphPicker chooses the character drawn for a cell at a given level
type GlyphPicker interface {
	Glyph(level uint8) rune
}

// FixedGlyph draws the same character at every level
type FixedGlyph rune

func (g FixedGlyph) Glyph(uint8) rune { return rune(g) }

// ShadeGlyph picks denser characters for higher levels. Runes are ordered
// from lightest to densest.
type ShadeGlyph []rune

// DefaultShades runs from blank to a full block
var DefaultShades = ShadeGlyph(" ░▒▓█")

func (g ShadeGlyph) Glyph(level uint8) rune {
	if len(g) == 0 {
		return ' '
	}
	return g[int(level)*len(g)/RampSize]
}

// RandomGlyph draws a random character from its set for every cell
type RandomGlyph struct {
	runes []rune
	rnd   *rand.Rand
}

// NewRandomGlyph creates a picker drawing from charset with rnd
func NewRandomGlyph(rnd *rand.Rand, charset string) *RandomGlyph {
	return &RandomGlyph{runes: []rune(charset), rnd: rnd}
}

func (g *RandomGlyph) Glyph(uint8) rune {
	if len(g.runes) == 0 {
		return ' '
	}
	return g.runes[g.rnd.Intn(len(g.runes))]
}
