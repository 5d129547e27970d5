package display

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the terminal menu's bindings. Printable keys feed the filter,
// so navigation sticks to arrows and control chords.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Open    key.Binding
	Back    key.Binding
	Erase   key.Binding
	Escape  key.Binding
	Dismiss key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "tab"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Open: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "open submenu"),
		),
		Back: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "back"),
		),
		Erase: key.NewBinding(
			key.WithKeys("backspace"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Escape}
}
