package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the player controls. It implements help.KeyMap.
type keyMap struct {
	Play   key.Binding
	Back   key.Binding
	Next   key.Binding
	Start  key.Binding
	End    key.Binding
	Reset  key.Binding
	Faster key.Binding
	Slower key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Play:   key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space", "play/pause")),
	Back:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "step back")),
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "step")),
	Start:  key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first step")),
	End:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last step")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Faster: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
	Slower: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Back, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Back, k.Next},
		{k.Start, k.End, k.Reset},
		{k.Faster, k.Slower, k.Help, k.Quit},
	}
}
