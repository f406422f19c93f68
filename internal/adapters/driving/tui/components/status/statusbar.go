// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
)

// Bar displays the session, backend mode and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	hints   []key.Binding
	state   State
	message string
	session string
	backend string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, hints []key.Binding) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Bar{
		styles: s,
		hints:  hints,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateThinking:
		return b.styles.Warning.Render("Thinking...")
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Error.Render("Error")
	case StateReady:
	}

	parts := make([]string, 0, 3)
	if b.message != "" {
		parts = append(parts, b.message)
	}
	if b.session != "" {
		parts = append(parts, "session "+shortID(b.session))
	}
	if b.backend != "" {
		parts = append(parts, b.backend)
	}
	if len(parts) == 0 {
		return b.styles.Muted.Render("Ready")
	}
	return b.styles.Normal.Render(strings.Join(parts, " · "))
}

func (b *Bar) renderRight() string {
	hints := make([]string, 0, len(b.hints))
	for _, binding := range b.hints {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets a transient message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetSession sets the session shown in the bar.
func (b *Bar) SetSession(id string) {
	b.session = id
}

// SetBackend sets the backend description, e.g. "openai gpt-4o-mini".
func (b *Bar) SetBackend(backend string) {
	b.backend = backend
}

// SetHints replaces the keybinding hints.
func (b *Bar) SetHints(hints []key.Binding) {
	b.hints = hints
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// Clear resets the state and message.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
}
