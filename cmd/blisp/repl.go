package main

import (
	"github.com/InsulaLabs/blisp/internal/repl"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive REPL",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, closeLog, err := logOutput(true)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := newLogger(cfg, out)

	store, err := openHistory(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	sc, cache := newLocalSession(cfg, logger, store)
	defer cache.Stop()

	model, err := repl.New(repl.ReplConfig{SessionConfig: sc})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout())).Run()
	return err
}
