// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/rapidread/internal/reader"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	maxInputWidth = 100
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	wordStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pivotStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	guideStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	countdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	offerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Options wires a Model to its engine.
type Options struct {
	Engine *reader.Engine
	Bridge *Bridge
	Logger *slog.Logger
	// Initial is submitted as soon as the program starts.
	Initial string
}

type submitMsg struct {
	input string
}

// Model implements the Bubble Tea reading UI.
type Model struct {
	engine  *reader.Engine
	bridge  *Bridge
	logger  *slog.Logger
	initial string

	keys     keyMap
	help     help.Model
	input    textarea.Model
	progress progress.Model

	width  int
	height int
}

// NewModel constructs a reading TUI model.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	input := textarea.New()
	input.Placeholder = "Paste text, or enter a file path or URL…"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()

	m := &Model{
		engine:   opts.Engine,
		bridge:   opts.Bridge,
		logger:   logger,
		initial:  opts.Initial,
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    input,
		progress: progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage()),
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.bridge.Listen()}
	if m.initial != "" {
		input := m.initial
		cmds = append(cmds, func() tea.Msg {
			return submitMsg{input: input}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case dispatchMsg:
		prev := m.engine.State()
		msg.fn()
		return m, tea.Batch(m.bridge.Listen(), m.refocus(prev))
	case submitMsg:
		m.input.SetValue(msg.input)
		return m, m.dispatch(reader.Submit{Input: msg.input})
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	if m.engine.State() == reader.StateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}
	switch m.engine.State() {
	case reader.StateInput:
		return m.handleInputKey(msg)
	case reader.StateLoading:
		return nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	if trigger, ok := m.keys.triggerFor(msg); ok {
		return m.dispatch(trigger)
	}
	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.dispatch(reader.Submit{Input: m.input.Value()})
	case key.Matches(msg, m.keys.Resume):
		return m.dispatch(reader.AcceptResume{})
	case key.Matches(msg, m.keys.Dismiss):
		return m.dispatch(reader.DeclineResume{})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) dispatch(t reader.Trigger) tea.Cmd {
	prev := m.engine.State()
	if err := m.engine.Dispatch(t); err != nil {
		m.logger.Debug("key ignored", "error", err)
	}
	return m.refocus(prev)
}

// refocus restarts the cursor blink when the engine returns to input.
func (m *Model) refocus(prev reader.State) tea.Cmd {
	if prev == reader.StateInput || m.engine.State() != reader.StateInput {
		return nil
	}
	m.input.Focus()
	return textarea.Blink
}

func (m *Model) quit() tea.Cmd {
	m.engine.Close()
	m.bridge.Close()
	return tea.Quit
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height
	contentWidth := m.contentWidth()
	m.input.SetWidth(contentWidth)
	inputHeight := height / 3
	if inputHeight < 3 {
		inputHeight = 3
	}
	m.input.SetHeight(inputHeight)
	m.progress.Width = contentWidth
	m.help.Width = width
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w > maxInputWidth {
		w = maxInputWidth
	}
	if w < 1 {
		w = 1
	}
	return w
}
