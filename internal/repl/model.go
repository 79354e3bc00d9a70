package repl

import (
	"strings"

	"github.com/InsulaLabs/blisp/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.0.1"
	Banner  = "Blisp " + Version

	exitCommand = "exit"
)

type styles struct {
	banner lipgloss.Style
	output lipgloss.Style
	err    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		banner: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		output: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

type Model struct {
	session    *session.Session
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	styles     styles
	height     int
	quitting   bool
}

type ReplConfig struct {
	SessionConfig session.SessionConfig
}

func New(config ReplConfig) (Model, error) {
	s, err := session.NewSession(config.SessionConfig)
	if err != nil {
		return Model{}, err
	}
	return NewWithSession(s), nil
}

// NewWithSession builds a REPL around an existing session, keeping its
// environment and history.
func NewWithSession(s *session.Session) Model {
	ti := textinput.New()
	ti.Prompt = s.GetPrompt()
	ti.Focus()

	// Start with minimal defaults - proper sizing will happen on WindowSizeMsg
	vp := viewport.New(80, 20)

	m := Model{
		session:  s,
		input:    ti,
		viewport: vp,
		styles:   defaultStyles(),
	}
	m.transcript = []string{
		m.styles.banner.Render(Banner),
		"Type 'exit' or press Ctrl+C/Ctrl+D to quit.",
		"",
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 1 // one line for the input
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 1
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp:
			m.session.StartHistoryNavigation(m.input.Value())
			m.setInput(m.session.NavigateHistory(true))
			return m, nil
		case tea.KeyDown:
			if m.session.IsInHistoryMode() {
				m.setInput(m.session.NavigateHistory(false))
			}
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}
	if line == exitCommand {
		m.quitting = true
		return m, tea.Quit
	}

	log.Info("Command received", "command", line, "session", m.session.ID())

	m.transcript = append(m.transcript, m.session.GetPrompt()+line)
	res, err := m.session.Submit(line)
	switch {
	case err != nil:
		m.transcript = append(m.transcript, m.styles.err.Render(err.Error()))
	case res.IsError:
		m.transcript = append(m.transcript, m.styles.err.Render(res.Output))
	default:
		m.transcript = append(m.transcript, m.styles.output.Render(res.Output))
	}
	m.refresh()
	return m, nil
}

func (m *Model) setInput(line string) {
	m.input.SetValue(line)
	m.input.CursorEnd()
}

func (m *Model) refresh() {
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(strings.Join(m.transcript, "\n")))
	m.viewport.GotoBottom()
}

// Transcript returns every line shown so far, banner included.
func (m Model) Transcript() []string {
	return m.transcript
}

func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		m.input.View(),
	)
	if m.height > 0 {
		return lipgloss.NewStyle().Height(m.height).Render(content)
	}
	return content
}
