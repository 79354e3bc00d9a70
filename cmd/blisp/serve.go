package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/InsulaLabs/blisp/internal/session"
	"github.com/InsulaLabs/blisp/internal/sshd"
	"github.com/spf13/cobra"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REPL over SSH",
	Long: `Serve the REPL over SSH to the public keys listed in the config.
Each connection evaluates in its own environment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddress != "" {
			cfg.SSH.Address = serveAddress
		}
		if err := cfg.ValidateServe(); err != nil {
			return err
		}

		out, closeLog, err := logOutput(false)
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

		cache := session.NewProgramCache(cfg.Cache.ProgramTTL)
		defer cache.Stop()

		srv, err := sshd.New(sshd.Config{
			Logger:         logger,
			Address:        cfg.SSH.Address,
			HostKeyPath:    cfg.SSH.HostKeyPath,
			AuthorizedKeys: cfg.SSH.AuthorizedKeys,
			Prompt:         cfg.Prompt,
			RateLimit:      cfg.SSH.RateLimit,
			Cache:          cache,
			History:        store,
			HistoryLimit:   cfg.History.Limit,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "",
		"Listen address, overriding ssh.address from the config")
}
