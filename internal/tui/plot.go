package tui

import (
	"math"
	"strings"
)

// DefaultPointRune marks a plotted point
const DefaultPointRune = '•'

// Plot rasterises data-space points and segments onto a fixed character grid.
// The y axis grows upwards: ymax is the top row.
type Plot struct {
	width, height int
	xmin, ymin    float64
	xmax, ymax    float64
	cells         [][]rune
}

// NewPlot creates an empty plot mapping [xmin, xmax] × [ymin, ymax] onto a
// width × height grid
func NewPlot(width, height int, xmin, ymin, xmax, ymax float64) *Plot {
	width, height = max(width, 0), max(height, 0)

	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", width))
	}

	return &Plot{
		width:  width,
		height: height,
		xmin:   xmin,
		ymin:   ymin,
		xmax:   xmax,
		ymax:   ymax,
		cells:  cells,
	}
}

func (p *Plot) Width() int  { return p.width }
func (p *Plot) Height() int { return p.height }

func scale(v, lo, hi float64, cells int) int {
	if hi == lo || cells <= 1 {
		return 0
	}
	return int(math.Round((v - lo) / (hi - lo) * float64(cells-1)))
}

// cell maps a data-space point to grid coordinates, which may be off-grid
func (p *Plot) cell(x, y float64) (int, int) {
	col := scale(x, p.xmin, p.xmax, p.width)
	row := p.height - 1 - scale(y, p.ymin, p.ymax, p.height)
	return col, row
}

func (p *Plot) set(col, row int, r rune) {
	if col < 0 || col >= p.width || row < 0 || row >= p.height {
		return
	}
	p.cells[row][col] = r
}

// Point marks the cell nearest to (x, y). Later writes overwrite earlier ones.
func (p *Plot) Point(x, y float64) {
	p.PointRune(x, y, DefaultPointRune)
}

// PointRune is Point with a custom marker
func (p *Plot) PointRune(x, y float64, r rune) {
	col, row := p.cell(x, y)
	p.set(col, row, r)
}

// Line draws a segment between two data-space points, visiting every
// intermediate cell. Cells outside the grid are clipped.
func (p *Plot) Line(x1, y1, x2, y2 float64) {
	p.LineRune(x1, y1, x2, y2, DefaultPointRune)
}

// LineRune is Line with a custom marker
func (p *Plot) LineRune(x1, y1, x2, y2 float64, r rune) {
	c1, r1 := p.cell(x1, y1)
	c2, r2 := p.cell(x2, y2)

	// Bresenham
	dc, dr := abs(c2-c1), -abs(r2-r1)
	sc, sr := sign(c2-c1), sign(r2-r1)
	e := dc + dr

	for {
		p.set(c1, r1, r)
		if c1 == c2 && r1 == r2 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c1 += sc
		}
		if e2 <= dc {
			e += dc
			r1 += sr
		}
	}
}

// Cells returns the grid rows, top row first
func (p *Plot) Cells() [][]rune {
	return p.cells
}

// Draw renders the grid as text, rows joined by newlines
func (p *Plot) Draw() string {
	rows := make([]string, len(p.cells))
	for i, row := range p.cells {
		rows[i] = string(row)
	}
	return strings.Join(rows, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
