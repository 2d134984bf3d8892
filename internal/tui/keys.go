package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Less     key.Binding
	More     key.Binding
	Add      key.Binding
	Analyze  key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Less:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "less important")),
		More:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "more important")),
		Add:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Analyze:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "analyze")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page")),
		Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Add, k.Analyze, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Less, k.More},
		{k.Add, k.Analyze, k.PageUp, k.PageDown, k.Quit},
	}
}
