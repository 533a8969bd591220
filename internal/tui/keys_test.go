package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/rapidread/internal/reader"
)

func TestTriggerFor(t *testing.T) {
	keys := defaultKeyMap()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want reader.Trigger
	}{
		{"space toggles", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, reader.Toggle{}},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, reader.Seek{Delta: -1}},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, reader.Seek{Delta: 1}},
		{"shift left", tea.KeyMsg{Type: tea.KeyShiftLeft}, reader.Seek{Delta: -10}},
		{"shift right", tea.KeyMsg{Type: tea.KeyShiftRight}, reader.Seek{Delta: 10}},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, reader.ChangeWPM{Delta: 25}},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, reader.ChangeWPM{Delta: -25}},
		{"restart", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, reader.Restart{}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, reader.Back{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keys.triggerFor(tt.msg)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := keys.triggerFor(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.False(t, ok)
}

func TestInputHelp(t *testing.T) {
	keys := defaultKeyMap()
	assert.Len(t, keys.inputHelp(false), 2)
	assert.Len(t, keys.inputHelp(true), 4)
}
