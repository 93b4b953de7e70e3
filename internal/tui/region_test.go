package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("initialising screen: %v", err)
	}
	screen.SetSize(width, height)
	t.Cleanup(screen.Fini)

	return screen
}

func row(screen tcell.Screen, y, width int) string {
	r := make([]rune, width)
	for x := range r {
		r[x], _, _, _ = screen.GetContent(x, y)
	}
	return string(r)
}

func TestWindow_Splits(t *testing.T) {
	screen := newScreen(t, 20, 10)
	w := Fullscreen(screen)

	if w.Width() != 20 || w.Height() != 10 {
		t.Fatalf("unexpected size %dx%d", w.Width(), w.Height())
	}

	top, rest := w.SplitTop(1)
	if top.Height() != 1 || rest.Height() != 9 {
		t.Errorf("SplitTop: got %d and %d rows", top.Height(), rest.Height())
	}

	body, bottom := rest.SplitBottom(2)
	if body.Height() != 7 || bottom.Height() != 2 {
		t.Errorf("SplitBottom: got %d and %d rows", body.Height(), bottom.Height())
	}

	left, right := body.SplitLeft(4)
	if left.Width() != 4 || right.Width() != 16 || left.Height() != 7 {
		t.Errorf("SplitLeft: got %dx%d and %dx%d", left.Width(), left.Height(), right.Width(), right.Height())
	}

	if _, r := w.SplitTop(50); r.Height() != 0 {
		t.Errorf("expected oversized split to be clamped, got %d rows left", r.Height())
	}
}

func TestWindow_SplitRows(t *testing.T) {
	screen := newScreen(t, 10, 100)
	w := Fullscreen(screen)

	regions := w.SplitRows(0.25)
	if len(regions) != 2 || regions[0].Height() != 25 || regions[1].Height() != 75 {
		t.Errorf("unexpected two-way split")
	}

	regions = w.SplitRows(0.25, 0.5)
	total := 0
	for _, r := range regions {
		total += r.Height()
	}
	if len(regions) != 3 || total != 100 || regions[2].Height() != 25 {
		t.Errorf("unexpected three-way split, total %d", total)
	}

	if regions = w.SplitRows(); len(regions) != 1 || regions[0].Height() != 100 {
		t.Errorf("expected a single full region")
	}
}

func TestWindow_DrawContent(t *testing.T) {
	screen := newScreen(t, 12, 4)
	top, bottom := Fullscreen(screen).SplitTop(1)

	top.SetContent("header text that overflows")
	bottom.SetContent("a\nbc")
	top.Draw()
	bottom.Draw()

	expected := []string{
		"header text ",
		"a           ",
		"bc          ",
		"            ",
	}
	for y, line := range expected {
		if got := row(screen, y, 12); got != line {
			t.Errorf("row %d: expected %q, got %q", y, line, got)
		}
	}
}

func TestWindow_Style(t *testing.T) {
	screen := newScreen(t, 4, 1)
	w := Fullscreen(screen)

	style := tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlue)
	w.SetStyle(style)
	w.SetContent("ab")
	w.Draw()

	for x := 0; x < 4; x++ {
		if _, _, got, _ := screen.GetContent(x, 0); got != style {
			t.Errorf("cell %d: unexpected style %v", x, got)
		}
	}
}

func TestWindow_AppendRowTrims(t *testing.T) {
	screen := newScreen(t, 3, 2)
	w := Fullscreen(screen)

	for _, r := range "abcd" {
		w.AppendRow([]Cell{{Rune: r, Style: tcell.StyleDefault}})
	}
	w.Draw()

	if got := row(screen, 0, 1) + row(screen, 1, 1); got != "cd" {
		t.Errorf("expected the newest two rows, got %q", got)
	}
}

func TestWindow_SetCells(t *testing.T) {
	screen := newScreen(t, 3, 3)
	_, w := Fullscreen(screen).SplitLeft(1)

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	w.SetCells([][]Cell{
		{{'x', style}, {'y', style}, {'z', style}},
		{{'1', style}},
	})
	w.Draw()

	if got := row(screen, 0, 3); got != " xy" {
		t.Errorf("expected cells clipped to the window, got %q", got)
	}
	if got := row(screen, 1, 3); got != " 1 " {
		t.Errorf("unexpected second row %q", got)
	}
}
