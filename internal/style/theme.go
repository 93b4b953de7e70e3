package style

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTheme is used when no style is configured
const DefaultTheme = "tokyonight"

var (
	// ErrUnknownStyle is returned when a theme name is not registered
	ErrUnknownStyle = errors.New("unknown style")
)

const matrixCharset = "ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉ0123456789"

// Theme is the palette and glyph policy of the visualizers
type Theme struct {
	Name   string
	Header Colors
	Plot   Colors
	Label  Colors
	Ramp   Ramp
	Glyphs GlyphPicker
}

type lookupOptions struct {
	rnd *rand.Rand
}

// WithRand sets the random source of themes with random glyphs
func WithRand(rnd *rand.Rand) func(*lookupOptions) {
	return func(o *lookupOptions) {
		o.rnd = rnd
	}
}

var themes = map[string]func(o lookupOptions) Theme{
	// https://github.com/enkia/tokyo-night-vscode-theme
	"tokyonight": func(lookupOptions) Theme {
		plot := mustHex("#24283b")
		return Theme{
			Header: Colors{Fg: mustHex("#a9b1d6"), Bg: mustHex("#1a1b26")},
			Plot:   Colors{Fg: mustHex("#7aa2f7"), Bg: plot},
			Label:  Colors{Fg: mustHex("#565f89"), Bg: plot},
			Ramp: NewRamp(
				plot,
				mustHex("#3d59a1"),
				mustHex("#7aa2f7"),
				mustHex("#bb9af7"),
				mustHex("#f7768e"),
				mustHex("#ff9e64"),
			),
			Glyphs: FixedGlyph('█'),
		}
	},

	"cyberpunk": func(lookupOptions) Theme {
		plot := mustHex("#091833")
		return Theme{
			Header: Colors{Fg: mustHex("#0abdc6"), Bg: mustHex("#000b1e")},
			Plot:   Colors{Fg: mustHex("#ea00d9"), Bg: plot},
			Label:  Colors{Fg: mustHex("#133e7c"), Bg: plot},
			Ramp: NewRamp(
				plot,
				mustHex("#133e7c"),
				mustHex("#0abdc6"),
				mustHex("#ea00d9"),
				mustHex("#ff003c"),
			),
			Glyphs: DefaultShades,
		}
	},

	"matrix": func(o lookupOptions) Theme {
		black := colorful.Color{}
		return Theme{
			Header: Colors{Fg: mustHex("#00ff41"), Bg: black},
			Plot:   Colors{Fg: mustHex("#00ff41"), Bg: black},
			Label:  Colors{Fg: mustHex("#008f11"), Bg: black},
			Ramp: NewRamp(
				black,
				mustHex("#003b00"),
				mustHex("#008f11"),
				mustHex("#00ff41"),
				mustHex("#d0ffd0"),
			),
			Glyphs: NewRandomGlyph(o.rnd, matrixCharset),
		}
	},
}

// Names lists the registered themes
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Valid reports whether name is a registered theme
func Valid(name string) bool {
	_, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Lookup builds the named theme
func Lookup(name string, options ...func(*lookupOptions)) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	build, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q, expected one of %s", ErrUnknownStyle, name, strings.Join(Names(), ", "))
	}

	o := lookupOptions{}
	for _, option := range options {
		option(&o)
	}
	if o.rnd == nil {
		o.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	theme := build(o)
	theme.Name = name
	return theme, nil
}
