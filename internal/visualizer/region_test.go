package visualizer

import (
	"github.com/gdamore/tcell/v2"

	"github.com/roman-kulish/sigscan/internal/tui"
)

// fakeRegion records what visualizers push into it
type fakeRegion struct {
	width, height int

	style    tcell.Style
	content  string
	rows     [][]tui.Cell
	contents int // SetContent calls
	draws    int
}

func newFakeRegion(width, height int) *fakeRegion {
	return &fakeRegion{width: width, height: height}
}

func (r *fakeRegion) Width() int  { return r.width }
func (r *fakeRegion) Height() int { return r.height }

func (r *fakeRegion) SplitTop(n int) (tui.Region, tui.Region) {
	n = min(max(n, 0), r.height)
	return newFakeRegion(r.width, n), newFakeRegion(r.width, r.height-n)
}

func (r *fakeRegion) SplitBottom(n int) (tui.Region, tui.Region) {
	n = min(max(n, 0), r.height)
	return newFakeRegion(r.width, r.height-n), newFakeRegion(r.width, n)
}

func (r *fakeRegion) SplitLeft(n int) (tui.Region, tui.Region) {
	n = min(max(n, 0), r.width)
	return newFakeRegion(n, r.height), newFakeRegion(r.width-n, r.height)
}

func (r *fakeRegion) SplitRows(fractions ...float64) []tui.Region {
	var regions []tui.Region
	left := r.height
	for _, f := range fractions {
		h := min(int(f*float64(r.height)), left)
		regions = append(regions, newFakeRegion(r.width, h))
		left -= h
	}
	return append(regions, newFakeRegion(r.width, left))
}

func (r *fakeRegion) SetStyle(style tcell.Style) { r.style = style }

func (r *fakeRegion) SetContent(text string) {
	r.content = text
	r.contents++
}

func (r *fakeRegion) SetCells(rows [][]tui.Cell) { r.rows = rows }

func (r *fakeRegion) AppendRow(row []tui.Cell) {
	r.rows = append(r.rows, row)
	if extra := len(r.rows) - r.height; extra > 0 {
		r.rows = r.rows[extra:]
	}
}

func (r *fakeRegion) Draw() { r.draws++ }

// marks counts non-blank cells in the region content
func (r *fakeRegion) marks() int {
	n := 0
	for _, c := range r.content {
		if c != ' ' && c != '\n' {
			n++
		}
	}
	return n
}
