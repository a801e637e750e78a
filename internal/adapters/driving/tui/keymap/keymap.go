// Package keymap defines keybindings for the rebuild progress view.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings.
type KeyMap struct {
	// Quit cancels a running rebuild or leaves a finished one.
	Quit key.Binding

	// Help toggles the full help line.
	Help key.Binding

	// Details toggles the per-category breakdown.
	Details key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// FullHelp returns every binding.
func (k *KeyMap) FullHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Details, k.Help}
}
