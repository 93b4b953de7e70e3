package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Cell is a single styled character
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Region is a rectangular render surface that can be split into smaller
// regions. Content is only pushed to the terminal by Draw.
type Region interface {
	Width() int
	Height() int

	// SplitTop returns a region of the top n rows and the rest below it
	SplitTop(n int) (Region, Region)
	// SplitBottom returns the rest above and a region of the bottom n rows
	SplitBottom(n int) (Region, Region)
	// SplitLeft returns a region of the left n columns and the rest right of it
	SplitLeft(n int) (Region, Region)
	// SplitRows stacks regions of the given fractions of the height; the
	// remainder goes to one extra region at the bottom
	SplitRows(fractions ...float64) []Region

	SetStyle(style tcell.Style)
	SetContent(text string)
	SetCells(rows [][]Cell)
	// AppendRow adds a row at the bottom, scrolling the oldest row off the top
	AppendRow(row []Cell)

	Draw()
}

// Window is a Region backed by a tcell screen
type Window struct {
	screen        tcell.Screen
	x, y          int
	width, height int

	style tcell.Style
	rows  [][]Cell
	text  []string
}

// NewWindow creates a window covering the given screen rectangle
func NewWindow(screen tcell.Screen, x, y, width, height int) *Window {
	return &Window{
		screen: screen,
		x:      x,
		y:      y,
		width:  max(width, 0),
		height: max(height, 0),
		style:  tcell.StyleDefault,
	}
}

// Fullscreen creates a window covering the whole screen
func Fullscreen(screen tcell.Screen) *Window {
	w, h := screen.Size()
	return NewWindow(screen, 0, 0, w, h)
}

func (w *Window) Width() int  { return w.width }
func (w *Window) Height() int { return w.height }

func (w *Window) child(x, y, width, height int) *Window {
	c := NewWindow(w.screen, x, y, width, height)
	c.style = w.style
	return c
}

func (w *Window) SplitTop(n int) (Region, Region) {
	n = min(max(n, 0), w.height)
	return w.child(w.x, w.y, w.width, n), w.child(w.x, w.y+n, w.width, w.height-n)
}

func (w *Window) SplitBottom(n int) (Region, Region) {
	n = min(max(n, 0), w.height)
	return w.child(w.x, w.y, w.width, w.height-n), w.child(w.x, w.y+w.height-n, w.width, n)
}

func (w *Window) SplitLeft(n int) (Region, Region) {
	n = min(max(n, 0), w.width)
	return w.child(w.x, w.y, n, w.height), w.child(w.x+n, w.y, w.width-n, w.height)
}

func (w *Window) SplitRows(fractions ...float64) []Region {
	regions := make([]Region, 0, len(fractions)+1)

	y, left := w.y, w.height
	for _, f := range fractions {
		h := min(max(int(f*float64(w.height)), 0), left)
		regions = append(regions, w.child(w.x, y, w.width, h))
		y += h
		left -= h
	}

	return append(regions, w.child(w.x, y, w.width, left))
}

func (w *Window) SetStyle(style tcell.Style) {
	w.style = style
}

// SetContent replaces the window content with plain text in the window style
func (w *Window) SetContent(text string) {
	w.rows = nil
	w.text = strings.Split(text, "\n")
}

// SetCells replaces the window content with styled cells
func (w *Window) SetCells(rows [][]Cell) {
	w.text = nil
	w.rows = rows
}

func (w *Window) AppendRow(row []Cell) {
	w.text = nil
	w.rows = append(w.rows, row)
	if extra := len(w.rows) - w.height; extra > 0 {
		w.rows = append(w.rows[:0], w.rows[extra:]...)
	}
}

// Draw paints the window onto its screen, clipped to the window bounds
func (w *Window) Draw() {
	for row := 0; row < w.height; row++ {
		for col := 0; col < w.width; col++ {
			w.screen.SetContent(w.x+col, w.y+row, ' ', nil, w.style)
		}
	}

	for row, line := range w.text {
		if row >= w.height {
			break
		}
		col := 0
		for _, r := range line {
			if col >= w.width {
				break
			}
			w.screen.SetContent(w.x+col, w.y+row, r, nil, w.style)
			col++
		}
	}

	for row, cells := range w.rows {
		if row >= w.height {
			break
		}
		for col, c := range cells {
			if col >= w.width {
				break
			}
			w.screen.SetContent(w.x+col, w.y+row, c.Rune, nil, c.Style)
		}
	}
}
