package history

import (
	"encoding/binary"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

const keyPrefix = "history/"

type store struct {
	logger *slog.Logger
	db     *badger.DB
	mu     sync.Mutex // serializes appends so sequence numbers never collide
}

var _ Store = &store{}

func New(config Config) (Store, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if config.BadgerLogLevel == 0 {
		config.BadgerLogLevel = slog.LevelWarn
	}

	var opts badger.Options
	if config.Directory == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(config.Directory, 0755); err != nil {
			return nil, &ErrInternal{Err: err}
		}
		opts = badger.DefaultOptions(config.Directory)
	}
	opts = opts.WithLogger(newLogger(logger.WithGroup("badger"), config.BadgerLogLevel))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &ErrInternal{Err: err}
	}

	s := &store{
		logger: logger.WithGroup("history"),
		db:     db,
	}
	s.logger.Debug("history store opened", "directory", config.Directory, "in_memory", config.Directory == "")
	return s, nil
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("error closing history db", "error", err)
		return &ErrInternal{Err: err}
	}
	return nil
}

func userPrefix(user string) ([]byte, error) {
	if user == "" || strings.Contains(user, "/") {
		return nil, &ErrInvalidUser{User: user}
	}
	return []byte(keyPrefix + user + "/"), nil
}

func entryKey(prefix []byte, seq uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], seq)
	return key
}

// lastSeq returns the sequence number of the newest entry under prefix, or
// zero when there is none.
func lastSeq(txn *badger.Txn, prefix []byte) uint64 {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := append(append([]byte{}, prefix...), 0xFF)
	it.Seek(seek)
	if !it.ValidForPrefix(prefix) {
		return 0
	}
	key := it.Item().Key()
	if len(key) != len(prefix)+8 {
		return 0
	}
	return binary.BigEndian.Uint64(key[len(prefix):])
}

func (s *store) Append(user string, line string) error {
	prefix, err := userPrefix(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(txn *badger.Txn) error {
		seq := lastSeq(txn, prefix) + 1
		if err := txn.Set(entryKey(prefix, seq), []byte(line)); err != nil {
			return &ErrInternal{Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("history appended", "user", user)
	return nil
}

func (s *store) Recent(user string, limit int) ([]string, error) {
	prefix, err := userPrefix(user)
	if err != nil {
		return nil, err
	}

	var lines []string
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(lines) >= limit {
				break
			}
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return &ErrInternal{Err: err}
			}
			lines = append(lines, string(val))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// collected newest first
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

func (s *store) Clear(user string) error {
	prefix, err := userPrefix(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return &ErrInternal{Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("history cleared", "user", user)
	return nil
}
