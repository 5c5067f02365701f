package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play   key.Binding
	Back   key.Binding
	Ahead  key.Binding
	Faster key.Binding
	Slower key.Binding
	Stop   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Play:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Back:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "back 3")),
		Ahead:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "ahead 3")),
		Faster: key.NewBinding(key.WithKeys("up", "+", "="), key.WithHelp("↑", "faster")),
		Slower: key.NewBinding(key.WithKeys("down", "-"), key.WithHelp("↓", "slower")),
		Stop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next paper")),
		Prev:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous paper")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Back, k.Ahead, k.Faster, k.Slower, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Stop},
		{k.Back, k.Ahead},
		{k.Faster, k.Slower},
		{k.Next, k.Prev},
		{k.Help, k.Quit},
	}
}
