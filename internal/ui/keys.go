package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the watch view's keyboard bindings.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Rescan     key.Binding
	State      key.Binding
	Disconnect key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Rescan networks"),
		),
		State: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Check connection"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Disconnect"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rescan, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Rescan, k.State, k.Disconnect},
		{k.Help, k.Quit},
	}
}
