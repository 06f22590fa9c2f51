package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Back        key.Binding
	Refresh     key.Binding
	Tickers     key.Binding
	Train       key.Binding
	CycleBench  key.Binding
	CyclePeriod key.Binding
}

var keys = keyMap{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Tickers:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tickers")),
	Train:       key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "train")),
	CycleBench:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "benchmark")),
	CyclePeriod: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "period")),
}
