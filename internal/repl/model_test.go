package repl

import (
	"strings"
	"testing"

	"github.com/InsulaLabs/blisp/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := New(ReplConfig{SessionConfig: session.SessionConfig{Prompt: "blisp> "}})
	require.NoError(t, err)
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func enter(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	return send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func lastLine(m Model) string {
	lines := m.Transcript()
	return lines[len(lines)-1]
}

func TestModel_Banner(t *testing.T) {
	m := newTestModel(t)
	require.NotEmpty(t, m.Transcript())
	assert.Contains(t, m.Transcript()[0], "Blisp 0.0.1")
	assert.Contains(t, m.View(), "Blisp 0.0.1")
	assert.NotNil(t, m.Init())
}

func TestModel_Evaluates(t *testing.T) {
	m := newTestModel(t)

	m, cmd := enter(t, m, "+ 1 2")
	assert.Nil(t, cmd)
	assert.Contains(t, lastLine(m), "3")
	assert.Contains(t, strings.Join(m.Transcript(), "\n"), "blisp> + 1 2")
	assert.Empty(t, m.input.Value())

	m, _ = enter(t, m, "head {}")
	assert.Contains(t, lastLine(m), "Error: Function called on empty list")

	m, _ = enter(t, m, "(+ 1")
	assert.Contains(t, lastLine(m), "parse error at position")
}

func TestModel_BlankLineIsIgnored(t *testing.T) {
	m := newTestModel(t)
	before := len(m.Transcript())
	m, cmd := enter(t, m, "   ")
	assert.Nil(t, cmd)
	assert.Len(t, m.Transcript(), before)
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD} {
		m := newTestModel(t)
		m, cmd := send(t, m, tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.Quitting())
		assert.Equal(t, "Goodbye!\n", m.View())
	}

	m := newTestModel(t)
	m, cmd := enter(t, m, "exit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Quitting())
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	m, _ = enter(t, m, "list 1")
	m, _ = enter(t, m, "list 2")

	m.input.SetValue("draft")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "list 2", m.input.Value())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "list 1", m.input.Value())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "list 2", m.input.Value())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "draft", m.input.Value())
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Equal(t, 40, m.viewport.Width)
	assert.Equal(t, 9, m.viewport.Height)

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 1})
	assert.Equal(t, 1, m.viewport.Height)
}

func TestModel_TypingReachesInput(t *testing.T) {
	m := newTestModel(t)
	for _, r := range "len {1}" {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "len {1}", m.input.Value())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, lastLine(m), "1")
}
