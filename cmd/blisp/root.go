package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/InsulaLabs/blisp/config"
	"github.com/InsulaLabs/blisp/internal/history"
	"github.com/InsulaLabs/blisp/internal/session"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logFile    string
)

// rootCmd starts the interactive REPL when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:          "blisp",
	Short:        "A small lisp with quoted expressions",
	Long:         `blisp evaluates arithmetic and list expressions interactively, from the command line, or over SSH.`,
	SilenceUsage: true,
	RunE:         runRepl,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Write logs to this file instead of stderr")
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(configPath)
}

// newLogger returns a slog.Logger backed by charmbracelet/log. The same
// logger is installed as the charm default so package level log calls
// share its output and level.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "blisp",
		ReportTimestamp: true,
	})
	log.SetDefault(handler)
	return slog.New(handler)
}

// logOutput picks where logs go. Interactive front ends pass quiet so log
// lines do not tear the terminal UI.
func logOutput(quiet bool) (io.Writer, func(), error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}
	if quiet {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

func openHistory(cfg *config.Config, logger *slog.Logger) (history.Store, error) {
	if cfg.History.Dir == "" {
		return nil, nil
	}
	return history.New(history.Config{
		Logger:    logger,
		Directory: cfg.History.Dir,
	})
}

func localUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "local"
}

func newLocalSession(cfg *config.Config, logger *slog.Logger, store history.Store) (session.SessionConfig, *session.ProgramCache) {
	cache := session.NewProgramCache(cfg.Cache.ProgramTTL)
	sc := session.SessionConfig{
		Logger:       logger,
		UserID:       localUser(),
		Prompt:       cfg.Prompt,
		Cache:        cache,
		HistoryLimit: cfg.History.Limit,
	}
	if store != nil {
		sc.History = store
	}
	return sc, cache
}
