// Package status provides the footer of the rebuild progress view.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/accords-library/search-sync/internal/adapters/driving/tui/keymap"
	"github.com/accords-library/search-sync/internal/adapters/driving/tui/styles"
)

// State is the outcome shown in the footer.
type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Bar displays the run state and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	runID    string
	elapsed  time.Duration
	fullHelp bool
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateRunning,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderLeft() string {
	parts := []string{s.renderState()}
	if s.runID != "" {
		parts = append(parts, "run "+shortID(s.runID))
	}
	if s.elapsed > 0 {
		parts = append(parts, s.elapsed.Round(time.Second).String())
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

func (s *Bar) renderState() string {
	switch s.state {
	case StateSucceeded:
		return s.styles.Success.Render("Succeeded")
	case StateFailed:
		return s.styles.Error.Render("Failed")
	case StateCancelled:
		return s.styles.Warning.Render("Cancelled")
	default:
		return s.styles.Active.Render("Running")
	}
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.fullHelp {
		bindings = s.keymap.FullHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetState sets the displayed outcome.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the displayed outcome.
func (s *Bar) State() State {
	return s.state
}

// SetRunID sets the run identifier.
func (s *Bar) SetRunID(id string) {
	s.runID = id
}

// SetElapsed sets the time spent so far.
func (s *Bar) SetElapsed(d time.Duration) {
	s.elapsed = d
}

// ToggleHelp switches between short and full key hints.
func (s *Bar) ToggleHelp() {
	s.fullHelp = !s.fullHelp
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
