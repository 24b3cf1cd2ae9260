package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Metric    key.Binding
	Speed     key.Binding
	Mirror    key.Binding
	Clickable key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Metric:    key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "metric")),
		Speed:     key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "speed")),
		Mirror:    key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "mirror")),
		Clickable: key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "clickable")),
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Metric, k.Speed, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Metric, k.Speed, k.Mirror, k.Clickable},
		{k.Help, k.Quit},
	}
}
