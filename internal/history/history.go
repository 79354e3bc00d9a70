// Package history keeps the lines each REPL user submitted, ordered by
// arrival, in a badger database.
package history

import (
	"log/slog"
)

type Config struct {
	Logger         *slog.Logger
	BadgerLogLevel slog.Level
	Directory      string // empty opens an in-memory store
}

type Store interface {
	// Append records line as the newest entry for user.
	Append(user string, line string) error

	// Recent returns up to limit of the newest lines for user, oldest first.
	// A limit of zero or less returns everything.
	Recent(user string, limit int) ([]string, error)

	// Clear drops every line recorded for user.
	Clear(user string) error

	Close() error
}
