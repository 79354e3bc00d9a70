package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/InsulaLabs/blisp/config"
	"github.com/InsulaLabs/blisp/internal/session"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvalSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.NewSession(session.SessionConfig{Prompt: config.DefaultPrompt})
	require.NoError(t, err)
	return s
}

func TestEvalLines(t *testing.T) {
	color.NoColor = true
	var out, errOut bytes.Buffer

	failed := evalLines(newEvalSession(t), []string{
		"+ 1 2",
		"",
		"list 1 2 3",
		"(/ 1 0)",
		"{1 2",
		"max 3 9 4",
	}, &out, &errOut)

	assert.Equal(t, 2, failed)
	assert.Equal(t, "3\n{1 2 3}\nError: Division By Zero!\n9\n", out.String())
	assert.Contains(t, errOut.String(), "Error: parse error at position 4")
}

func TestEvalReader(t *testing.T) {
	color.NoColor = true
	var out, errOut bytes.Buffer

	failed, err := evalReader(newEvalSession(t), strings.NewReader("join {1} {2}\nlen {1 2 3}\n"), &out, &errOut)
	require.NoError(t, err)
	assert.Zero(t, failed)
	assert.Equal(t, "{1 2}\n3\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestEvalCommand(t *testing.T) {
	color.NoColor = true
	var out, errOut bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"eval", "* 6 7", "cons 1 {2}"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "42\n{1 2}\n", out.String())

	out.Reset()
	rootCmd.SetArgs([]string{"eval", "head {}"})
	assert.Error(t, rootCmd.Execute())
	assert.Equal(t, "Error: Function called on empty list\n", out.String())
}

func TestLoadConfigFlag(t *testing.T) {
	configPath = ""
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPrompt, cfg.Prompt)

	configPath = "/nonexistent/blisp.yaml"
	defer func() { configPath = "" }()
	_, err = loadConfig()
	assert.ErrorIs(t, err, config.ErrConfigFileUnreadable)
}
