// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Send submits the typed question.
	Send key.Binding

	// Clear forgets the conversation history.
	Clear key.Binding

	// SwitchView toggles between chat and documents.
	SwitchView key.Binding

	// Back returns to the chat view.
	Back key.Binding

	// Up navigates up in a list or scrolls the transcript.
	Up key.Binding

	// Down navigates down in a list or scrolls the transcript.
	Down key.Binding

	// Delete removes the selected document.
	Delete key.Binding

	// Reload refreshes the document list.
	Reload key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "new conversation"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "documents"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "pgup"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "pgdown"),
			key.WithHelp("↓", "down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// ChatHelp returns keybindings shown in the chat view.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Send, k.Clear, k.SwitchView, k.Quit}
}

// DocumentsHelp returns keybindings shown in the documents view.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.Reload, k.Back}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
