package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/InsulaLabs/blisp/internal/session"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval [expression...]",
	Short: "Evaluate expressions and print their values",
	Long: `Evaluate each argument as one line of input. With no arguments,
every line read from stdin is evaluated in turn. All lines share one
environment. The exit status is non-zero if any line fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, closeLog, err := logOutput(false)
		if err != nil {
			return err
		}
		defer closeLog()
		logger := newLogger(cfg, out)

		sc, cache := newLocalSession(cfg, logger, nil)
		defer cache.Stop()
		s, err := session.NewSession(sc)
		if err != nil {
			return err
		}

		var failed int
		if len(args) > 0 {
			failed = evalLines(s, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		} else {
			failed, err = evalReader(s, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of the evaluated lines failed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

// evalLines prints one result per non-blank line and returns how many lines
// failed to parse or evaluated to an error.
func evalLines(s *session.Session, lines []string, out, errOut io.Writer) int {
	failed := 0
	for _, line := range lines {
		res, err := s.Submit(line)
		switch {
		case err != nil:
			fmt.Fprintf(errOut, "%s %s\n", color.RedString("Error:"), err)
			failed++
		case res.Input == "":
		case res.IsError:
			fmt.Fprintln(out, color.RedString(res.Output))
			failed++
		default:
			fmt.Fprintln(out, res.Output)
		}
	}
	return failed
}

func evalReader(s *session.Session, r io.Reader, out, errOut io.Writer) (int, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return evalLines(s, lines, out, errOut), nil
}
