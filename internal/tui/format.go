package tui

import (
	"github.com/dustin/go-humanize"
)

// FormatFrequency renders hz in MHz below 1 GHz and in GHz above, with up to
// four decimals and no trailing zeros
func FormatFrequency(hz float64) string {
	if hz >= 1e9 {
		return humanize.FtoaWithDigits(hz/1e9, 4) + " GHz"
	}
	return humanize.FtoaWithDigits(hz/1e6, 4) + " MHz"
}

// FormatHz renders hz with an SI prefix, e.g. "2.4 MHz"
func FormatHz(hz float64) string {
	return humanize.SIWithDigits(hz, 3, "Hz")
}
