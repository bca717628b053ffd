package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Focus  key.Binding
	Submit key.Binding
	Toggle key.Binding
	Load   key.Binding
	Ack    key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "expand"),
		),
		Load: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "load more employee data"),
		),
		Ack: key.NewBinding(
			key.WithKeys("enter", "esc", "o"),
			key.WithHelp("enter", "ok"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpKeys adapts the key map to the bindings relevant in the current focus.
type helpKeys struct {
	keys  keyMap
	focus focus
	modal bool
}

func (h helpKeys) ShortHelp() []key.Binding {
	switch {
	case h.modal:
		return []key.Binding{h.keys.Ack, h.keys.Quit}
	case h.focus == focusRecords:
		return []key.Binding{h.keys.Up, h.keys.Down, h.keys.Toggle, h.keys.Load, h.keys.Focus, h.keys.Quit}
	default:
		return []key.Binding{h.keys.Up, h.keys.Down, h.keys.Submit, h.keys.Focus, h.keys.Quit}
	}
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
