package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePause key.Binding
	skip        key.Binding
	end         key.Binding
	quit        key.Binding
}

var defaultKeymap = keymap{
	togglePause: key.NewBinding(
		key.WithKeys("p", " ", "space"),
		key.WithHelp("space", "pause/resume"),
	),
	skip: key.NewBinding(
		key.WithKeys("s", "n"),
		key.WithHelp("s", "new photo"),
	),
	end: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "end session"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
