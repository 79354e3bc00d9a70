package session

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/InsulaLabs/blisp/internal/history"
	"github.com/InsulaLabs/blisp/pkg/blisp"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("rate limit exceeded, slow down")

type Session struct {
	sessionID string

	history       []string
	historyIndex  int
	currentBuffer string
	inHistoryMode bool

	config         SessionConfig
	logger         *slog.Logger
	env            *blisp.Env
	startTimestamp time.Time
}

type SessionConfig struct {
	Logger       *slog.Logger
	UserID       string
	Prompt       string
	Cache        *ProgramCache // optional, shared between sessions
	Limiter      *rate.Limiter // optional
	History      history.Store // optional, persists submitted lines
	HistoryLimit int           // lines restored from History on start
}

// Result is the outcome of one submitted line. Language errors are values,
// so they arrive here with IsError set rather than as a Go error.
type Result struct {
	Input   string
	Output  string
	IsError bool
}

func NewSession(config SessionConfig) (*Session, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.UserID == "" {
		config.UserID = "local"
	}

	s := &Session{
		sessionID:      uuid.New().String(),
		history:        []string{},
		historyIndex:   -1,
		config:         config,
		startTimestamp: time.Now(),
	}
	s.logger = config.Logger.WithGroup("session").With("session_id", s.sessionID, "user", config.UserID)
	s.env = blisp.NewDefaultEnv(config.Logger)

	if config.History != nil {
		lines, err := config.History.Recent(config.UserID, config.HistoryLimit)
		if err != nil {
			return nil, err
		}
		s.history = append(s.history, lines...)
		s.historyIndex = len(s.history)
	}

	s.logger.Debug("session started", "restored_history", len(s.history))
	return s, nil
}

// Submit reads and evaluates one line against the session environment.
// Blank input yields an empty Result. A line that fails to parse returns
// the parse error.
func (s *Session) Submit(line string) (Result, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{}, nil
	}

	if s.config.Limiter != nil && !s.config.Limiter.Allow() {
		s.logger.Warn("evaluation rate limited")
		return Result{Input: line}, ErrRateLimited
	}

	s.AddToHistory(line)
	if s.config.History != nil {
		if err := s.config.History.Append(s.config.UserID, line); err != nil {
			s.logger.Error("could not persist history", "error", err)
		}
	}

	program, err := s.read(line)
	if err != nil {
		return Result{Input: line}, err
	}

	out := s.env.Eval(program)
	return Result{
		Input:   line,
		Output:  out.String(),
		IsError: out.Type == blisp.TypeErr,
	}, nil
}

func (s *Session) read(line string) (*blisp.Value, error) {
	if s.config.Cache != nil {
		if program, ok := s.config.Cache.Get(line); ok {
			s.logger.Debug("program cache hit")
			return program, nil
		}
	}
	program, err := blisp.ReadString(line)
	if err != nil {
		return nil, err
	}
	if s.config.Cache != nil {
		s.config.Cache.Set(line, program)
	}
	return program, nil
}

func (s *Session) AddToHistory(cmd string) {
	if cmd == "" {
		return
	}
	s.history = append(s.history, cmd)
	s.historyIndex = len(s.history)
	s.inHistoryMode = false
}

// StartHistoryNavigation remembers the unsent buffer so that stepping past
// the newest entry restores it.
func (s *Session) StartHistoryNavigation(currentBuffer string) {
	if s.inHistoryMode {
		return
	}
	s.currentBuffer = currentBuffer
	s.inHistoryMode = true
	s.historyIndex = len(s.history)
}

func (s *Session) IsInHistoryMode() bool {
	return s.inHistoryMode
}

func (s *Session) NavigateHistory(up bool) string {
	if len(s.history) == 0 {
		return s.currentBuffer
	}

	if up {
		if s.historyIndex > 0 {
			s.historyIndex--
		}
		return s.history[s.historyIndex]
	}

	if s.historyIndex < len(s.history)-1 {
		s.historyIndex++
		return s.history[s.historyIndex]
	}
	s.historyIndex = len(s.history)
	s.inHistoryMode = false
	return s.currentBuffer
}

func (s *Session) GetHistory() []string {
	return s.history
}

func (s *Session) Env() *blisp.Env {
	return s.env
}

func (s *Session) ID() string {
	return s.sessionID
}

func (s *Session) GetUserID() string {
	return s.config.UserID
}

func (s *Session) GetPrompt() string {
	return s.config.Prompt
}

func (s *Session) Uptime() time.Duration {
	return time.Since(s.startTimestamp)
}
