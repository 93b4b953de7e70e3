package tui

import (
	"strings"
	"testing"
)

func TestPlot_Point(t *testing.T) {
	p := NewPlot(5, 3, 0, 0, 4, 2)

	p.Point(0, 0)
	p.PointRune(4, 2, 'x')
	p.PointRune(2.4, 1.2, 'o')

	expected := strings.Join([]string{
		"    x",
		"  o  ",
		"•    ",
	}, "\n")
	if got := p.Draw(); got != expected {
		t.Errorf("unexpected plot:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestPlot_PointOverwrites(t *testing.T) {
	p := NewPlot(3, 1, 0, 0, 2, 1)
	p.PointRune(1, 0, 'a')
	p.PointRune(1.2, 0, 'b')

	if got := p.Cells()[0][1]; got != 'b' {
		t.Errorf("expected later write to win, got %q", got)
	}
}

func TestPlot_Clipping(t *testing.T) {
	p := NewPlot(4, 4, 0, 0, 3, 3)

	p.Point(-10, 1)
	p.Point(1, 100)
	p.Point(7, -7)

	if got := p.Draw(); strings.TrimSpace(strings.ReplaceAll(got, "\n", "")) != "" {
		t.Errorf("expected off-grid points to be clipped, got:\n%s", got)
	}
}

func TestPlot_LineNoGaps(t *testing.T) {
	testCases := []struct {
		name           string
		x1, y1, x2, y2 float64
	}{
		{"flat", 0, 5, 19, 5},
		{"rising", 0, 0, 19, 9},
		{"falling", 0, 9, 19, 0},
		{"gentle", 0, 2, 19, 4},
		{"reversed", 19, 3, 0, 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlot(20, 10, 0, 0, 19, 9)
			p.Line(tc.x1, tc.y1, tc.x2, tc.y2)

			cells := p.Cells()
			for col := 0; col < 20; col++ {
				found := false
				for row := range cells {
					if cells[row][col] != ' ' {
						found = true
					}
				}
				if !found {
					t.Errorf("column %d has no cell set:\n%s", col, p.Draw())
				}
			}
		})
	}
}

func TestPlot_LineSteep(t *testing.T) {
	p := NewPlot(3, 10, 0, 0, 2, 9)
	p.Line(0, 0, 2, 9)

	for row, cells := range p.Cells() {
		if strings.TrimSpace(string(cells)) == "" {
			t.Errorf("row %d has no cell set:\n%s", row, p.Draw())
		}
	}
}

func TestPlot_LineClipped(t *testing.T) {
	p := NewPlot(10, 1, 0, 0, 9, 0)
	p.Line(-5, 0, 15, 0)

	if got := p.Draw(); got != strings.Repeat(string(DefaultPointRune), 10) {
		t.Errorf("unexpected line %q", got)
	}
}

func TestPlot_Degenerate(t *testing.T) {
	p := NewPlot(0, 0, 0, 0, 1, 1)
	p.Point(0.5, 0.5)
	p.Line(0, 0, 1, 1)

	if got := p.Draw(); got != "" {
		t.Errorf("expected empty plot, got %q", got)
	}

	p = NewPlot(3, 2, 5, 5, 5, 5)
	p.Point(5, 5)
	if got := p.Cells()[1][0]; got != DefaultPointRune {
		t.Errorf("expected zero-span axes to map to the origin cell")
	}
}
