package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/roman-kulish/sigscan/internal/radio"
	"github.com/roman-kulish/sigscan/internal/tui"
	"github.com/roman-kulish/sigscan/internal/visualizer"
)

const (
	fineStep   = 1_000
	mediumStep = 100_000
	coarseStep = 10_000_000
)

// fullscreenKeys toggle a fullscreen visualizer in place of the selected ones
var fullscreenKeys = map[rune]string{
	'c': "constellation",
	'f': "waterfall",
	'p': "psd",
}

// Controls maps key presses to radio and display changes
type Controls struct {
	radio      radio.Radio
	selected   []visualizer.Visualizer
	fullscreen map[string]visualizer.Visualizer
	showing    string // fullscreen visualizer name, empty for the selected ones

	logger *slog.Logger
}

// NewControls creates a fullscreen instance of every toggleable visualizer
func NewControls(r radio.Radio, selected []visualizer.Visualizer, opts visualizer.Options, logger *slog.Logger) (*Controls, error) {
	c := Controls{
		radio:      r,
		selected:   selected,
		fullscreen: make(map[string]visualizer.Visualizer, len(fullscreenKeys)),
		logger:     logger,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for _, name := range fullscreenKeys {
		v, err := visualizer.New(name, r, opts)
		if err != nil {
			return nil, fmt.Errorf("creating fullscreen %s: %w", name, err)
		}
		c.fullscreen[name] = v
	}
	return &c, nil
}

// Active returns the visualizers on screen
func (c *Controls) Active() []visualizer.Visualizer {
	if c.showing != "" {
		return []visualizer.Visualizer{c.fullscreen[c.showing]}
	}
	return c.selected
}

// Showing returns the fullscreen visualizer name, empty when the selected
// visualizers are shown
func (c *Controls) Showing() string {
	return c.showing
}

// Layout assigns container to every visualizer, so that toggling does not
// need a new layout
func (c *Controls) Layout(container tui.Region) error {
	if err := Layout(container, c.selected); err != nil {
		return err
	}
	for _, v := range c.fullscreen {
		v.Layout(container)
	}
	return nil
}

// OnKey applies a key press. It reports whether the display changed shape
// and needs a full redraw.
func (c *Controls) OnKey(ev *tcell.EventKey) (bool, error) {
	if ev.Key() != tcell.KeyRune {
		return false, nil
	}

	key := ev.Rune()
	if name, ok := fullscreenKeys[key]; ok {
		c.toggle(name)
		return true, nil
	}

	switch key {
	case '[':
		return false, c.retune(-fineStep)
	case ']':
		return false, c.retune(fineStep)
	case 'a':
		return false, c.retune(-mediumStep)
	case 'd':
		return false, c.retune(mediumStep)
	case 'A':
		return false, c.retune(-coarseStep)
	case 'D':
		return false, c.retune(coarseStep)
	case 'w':
		return false, c.resize(-mediumStep)
	case 's':
		return false, c.resize(mediumStep)
	case 'W':
		return false, c.resize(-coarseStep)
	case 'S':
		return false, c.resize(coarseStep)
	}
	return false, nil
}

func (c *Controls) toggle(name string) {
	if c.showing == name {
		c.showing = ""
	} else {
		c.showing = name
	}
	c.logger.Debug("toggled fullscreen", slog.String("showing", c.showing))
}

func (c *Controls) retune(delta int64) error {
	if err := c.radio.Retune(c.radio.Frequency() + delta); err != nil {
		return fmt.Errorf("retuning: %w", err)
	}
	c.notify()
	return nil
}

func (c *Controls) resize(delta int64) error {
	if err := c.radio.UpdateBandwidth(c.radio.Bandwidth() + delta); err != nil {
		return fmt.Errorf("updating bandwidth: %w", err)
	}
	c.notify()
	return nil
}

// notify reports the new radio state to every visualizer, hidden ones included
func (c *Controls) notify() {
	state := radio.StateOf(c.radio)
	for _, v := range c.selected {
		v.UpdateRadio(state)
	}
	for _, v := range c.fullscreen {
		v.UpdateRadio(state)
	}
	c.logger.Debug("radio updated", slog.Int64("frequency", state.Frequency), slog.Int64("bandwidth", state.Bandwidth))
}
