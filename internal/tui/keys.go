package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/rapidread/internal/model"
	"github.com/verte-zerg/rapidread/internal/reader"
)

type keyMap struct {
	Submit  key.Binding
	Resume  key.Binding
	Dismiss key.Binding

	Toggle   key.Binding
	Prev     key.Binding
	Next     key.Binding
	PrevMany key.Binding
	NextMany key.Binding
	Faster   key.Binding
	Slower   key.Binding
	Restart  key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "read")),
		Resume:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "resume")),
		Dismiss:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "dismiss")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		Prev:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev word")),
		Next:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next word")),
		PrevMany: key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "back 10")),
		NextMany: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "ahead 10")),
		Faster:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "faster")),
		Slower:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "slower")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Prev, k.Next, k.Faster, k.Slower, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Restart, k.Back},
		{k.Prev, k.Next, k.PrevMany, k.NextMany},
		{k.Faster, k.Slower},
		{k.Help, k.Quit},
	}
}

func (k keyMap) inputHelp(offer bool) []key.Binding {
	if offer {
		return []key.Binding{k.Submit, k.Resume, k.Dismiss, k.Quit}
	}
	return []key.Binding{k.Submit, k.Quit}
}

// triggerFor maps a key on the reading screens to an engine trigger.
func (k keyMap) triggerFor(msg tea.KeyMsg) (reader.Trigger, bool) {
	switch {
	case key.Matches(msg, k.Toggle):
		return reader.Toggle{}, true
	case key.Matches(msg, k.Prev):
		return reader.Seek{Delta: -model.SeekSmall}, true
	case key.Matches(msg, k.Next):
		return reader.Seek{Delta: model.SeekSmall}, true
	case key.Matches(msg, k.PrevMany):
		return reader.Seek{Delta: -model.SeekLarge}, true
	case key.Matches(msg, k.NextMany):
		return reader.Seek{Delta: model.SeekLarge}, true
	case key.Matches(msg, k.Faster):
		return reader.ChangeWPM{Delta: model.WPMStep}, true
	case key.Matches(msg, k.Slower):
		return reader.ChangeWPM{Delta: -model.WPMStep}, true
	case key.Matches(msg, k.Restart):
		return reader.Restart{}, true
	case key.Matches(msg, k.Back):
		return reader.Back{}, true
	default:
		return nil, false
	}
}
