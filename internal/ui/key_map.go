package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	search   key.Binding
	generate key.Binding
	export   key.Binding
	back     key.Binding
	yes      key.Binding
	no       key.Binding
	restart  key.Binding
	login    key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		search:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		generate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate playlist")),
		export:   key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "export to spotify")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new search")),
		login:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign in to spotify")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.search, k.generate},
		{k.export, k.back, k.yes, k.no},
		{k.restart, k.login, k.quit},
	}
}
