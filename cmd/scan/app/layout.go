package app

import (
	"fmt"

	"github.com/roman-kulish/sigscan/internal/tui"
	"github.com/roman-kulish/sigscan/internal/visualizer"
)

// rowSplits are the fractions the container is split at for two and three
// stacked visualizers
var rowSplits = map[int][]float64{
	2: {0.35},
	3: {0.33, 0.33},
}

// Layout stacks one to three visualizers vertically in container
func Layout(container tui.Region, visualizers []visualizer.Visualizer) error {
	switch len(visualizers) {
	case 1:
		visualizers[0].Layout(container)

	case 2, 3:
		for i, region := range container.SplitRows(rowSplits[len(visualizers)]...) {
			visualizers[i].Layout(region)
		}

	default:
		return fmt.Errorf("invalid layout: %d visualizers", len(visualizers))
	}
	return nil
}
