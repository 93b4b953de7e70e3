package dsp

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	dspwindow "github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/window"
)

// ErrUnknownWindow is returned when a window function name is not registered
var ErrUnknownWindow = errors.New("unknown window function")

type windowFunc func(n int) []float64

// windowFuncs maps the window names accepted on the command line (scipy naming)
// to their coefficient generators.
var windowFuncs = map[string]windowFunc{
	"boxcar":          dspwindow.Rectangular,
	"rectangular":     dspwindow.Rectangular,
	"hann":            dspwindow.Hann,
	"hanning":         dspwindow.Hann,
	"hamming":         dspwindow.Hamming,
	"blackman":        dspwindow.Blackman,
	"bartlett":        dspwindow.Bartlett,
	"flattop":         dspwindow.FlatTop,
	"blackmanharris":  gonumWindow(window.BlackmanHarris),
	"blackmannuttall": gonumWindow(window.BlackmanNuttall),
	"nuttall":         gonumWindow(window.Nuttall),
	"sine":            gonumWindow(window.Sine),
}

// gonumWindow adapts an in-place gonum window to a coefficient generator.
func gonumWindow(fn func(seq []float64) []float64) windowFunc {
	return func(n int) []float64 {
		seq := make([]float64, n)
		for i := range seq {
			seq[i] = 1
		}
		return fn(seq)
	}
}

func normalizeWindowName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidWindow reports whether name is a known window function
func ValidWindow(name string) bool {
	_, ok := windowFuncs[normalizeWindowName(name)]
	return ok
}

// WindowNames returns all accepted window names in alphabetical order
func WindowNames() []string {
	names := make([]string, 0, len(windowFuncs))
	for name := range windowFuncs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Window returns n coefficients of the named window function in its periodic
// form: the symmetric window of n+1 points without the last coefficient.
func Window(name string, n int) ([]float64, error) {
	fn, ok := windowFuncs[normalizeWindowName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, name)
	}
	if n <= 0 {
		return nil, fmt.Errorf("window length must be positive: %d", n)
	}
	if n == 1 {
		return []float64{1}, nil
	}
	return fn(n + 1)[:n], nil
}
