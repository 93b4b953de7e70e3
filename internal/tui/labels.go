package tui

import (
	"fmt"
	"math"
	"strings"
)

// labelBudget is the room reserved per frequency tick. It is doubled because
// labels flip their anchoring at the midpoint.
var labelBudget = 2 * len("|999.9999 MHz ")

// FrequencyLabels lays out tick labels across a width-cell axis spanning
// [start, end] Hz. The tick count is odd so one label always sits on the
// midpoint; labels left of it are anchored on their tick with a leading "|",
// labels right of it end on their tick with a trailing "|". No label runs
// past either edge.
func FrequencyLabels(width int, start, end float64) string {
	if width <= 0 {
		return ""
	}

	n := int(math.Ceil(float64(width) / float64(labelBudget)))
	if n%2 == 0 {
		n--
	}
	mid := n / 2

	line := []rune(strings.Repeat(" ", width))
	for i := 0; i < n; i++ {
		var tick, hz float64
		if n == 1 {
			tick, hz = float64(width)/2, (start+end)/2
		} else {
			tick = float64(i) * float64(width) / float64(n-1)
			hz = start + float64(i)*(end-start)/float64(n-1)
		}

		text := FormatFrequency(hz)
		var x int
		switch {
		case i < mid:
			text = "|" + text
			x = int(tick)
		case i > mid:
			text += "|"
			x = int(tick) - len(text)
		default:
			x = int(tick) - len(text)/2
		}

		place(line, x, text)
	}

	return string(line)
}

// place writes text into line at x, shifted and truncated to stay inside it
func place(line []rune, x int, text string) {
	r := []rune(text)
	if len(r) > len(line) {
		r = r[:len(line)]
	}
	x = min(max(x, 0), len(line)-len(r))
	copy(line[x:], r)
}

// DbLabels renders a width × height y axis with height/2 values spaced
// linearly from maxdb down to mindb, one on every second row, right justified.
func DbLabels(width, height int, mindb, maxdb float64) string {
	if height <= 0 {
		return ""
	}

	rows := make([]string, height)
	for i := range rows {
		rows[i] = strings.Repeat(" ", max(width, 0))
	}

	count := height / 2
	for i := 0; i < count; i++ {
		v := maxdb
		if count > 1 {
			v = maxdb - float64(i)*(maxdb-mindb)/float64(count-1)
		}
		rows[i*2] = fmt.Sprintf("%*d", width, int(math.Round(v)))
	}

	return strings.Join(rows, "\n")
}

// DbLabelWidth is the number of cells needed for any label in [mindb, maxdb]
func DbLabelWidth(mindb, maxdb float64) int {
	return max(
		len(fmt.Sprint(int(math.Round(mindb)))),
		len(fmt.Sprint(int(math.Round(maxdb)))),
	)
}
