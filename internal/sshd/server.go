// Package sshd serves the REPL over SSH. Every connection gets a fresh
// session, so bindings never leak between users.
package sshd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/InsulaLabs/blisp/config"
	"github.com/InsulaLabs/blisp/internal/history"
	"github.com/InsulaLabs/blisp/internal/repl"
	"github.com/InsulaLabs/blisp/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/pkg/errors"
	gossh "golang.org/x/crypto/ssh"
	"golang.org/x/time/rate"
)

const sshUserKey = "blisp_ssh_user"

var ErrNoAuthorizedKeys = errors.New("no authorized keys configured")

type Config struct {
	Logger         *slog.Logger
	Address        string
	HostKeyPath    string
	AuthorizedKeys []string
	Prompt         string
	RateLimit      config.RateLimiterConfig
	Cache          *session.ProgramCache
	History        history.Store
	HistoryLimit   int
}

type Server struct {
	logger     *slog.Logger
	cfg        Config
	authorized map[string]string // marshalled public key -> user
	srv        *ssh.Server
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	authorized, err := parseAuthorizedKeys(cfg.AuthorizedKeys)
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger:     cfg.Logger.WithGroup("sshd"),
		cfg:        cfg,
		authorized: authorized,
	}

	srv, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			return s.authenticate(ctx, key)
		}),

		ssh.AllocatePty(),

		wish.WithMiddleware(
			bubbletea.Middleware(func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
				s.logger.Info("New session", "remote_addr", sess.RemoteAddr())
				return s.newSession(sess)
			}),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		s.logger.Error("Could not create server", "error", err)
		return nil, errors.Wrap(err, "could not create ssh server")
	}
	s.srv = srv
	return s, nil
}

// parseAuthorizedKeys maps each key, in its canonical authorized_keys form,
// to a user name taken from the key comment.
func parseAuthorizedKeys(lines []string) (map[string]string, error) {
	authorized := make(map[string]string, len(lines))
	for i, line := range lines {
		pub, comment, _, _, err := gossh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			return nil, errors.Wrapf(err, "authorized key %d", i)
		}
		authorized[marshalKey(pub)] = userName(comment, i)
	}
	if len(authorized) == 0 {
		return nil, ErrNoAuthorizedKeys
	}
	return authorized, nil
}

func marshalKey(key gossh.PublicKey) string {
	return strings.TrimSpace(string(gossh.MarshalAuthorizedKey(key)))
}

func userName(comment string, index int) string {
	name := strings.TrimSpace(comment)
	if name == "" {
		return fmt.Sprintf("key-%d", index)
	}
	return strings.ReplaceAll(name, "/", "_")
}

func (s *Server) authorize(key gossh.PublicKey) (string, bool) {
	user, ok := s.authorized[marshalKey(key)]
	return user, ok
}

func (s *Server) authenticate(ctx ssh.Context, key ssh.PublicKey) bool {
	user, ok := s.authorize(key)
	if !ok {
		s.logger.Debug("SSH authentication failed: unknown public key", "remote_addr", ctx.RemoteAddr())
		return false
	}
	ctx.SetValue(sshUserKey, user)
	s.logger.Info("SSH user authenticated", "user", user)
	return true
}

func (s *Server) newSessionConfig(user string) session.SessionConfig {
	var limiter *rate.Limiter
	if s.cfg.RateLimit.Limit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit.Limit), s.cfg.RateLimit.Burst)
	}
	return session.SessionConfig{
		Logger:       s.cfg.Logger.WithGroup("ssh").WithGroup(user),
		UserID:       user,
		Prompt:       user + "@" + s.cfg.Prompt,
		Cache:        s.cfg.Cache,
		Limiter:      limiter,
		History:      s.cfg.History,
		HistoryLimit: s.cfg.HistoryLimit,
	}
}

func (s *Server) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	user, ok := sess.Context().Value(sshUserKey).(string)
	if !ok {
		s.logger.Error("Failed to get user from SSH context in newSession")
		return nil, nil
	}

	model, err := repl.New(repl.ReplConfig{SessionConfig: s.newSessionConfig(user)})
	if err != nil {
		s.logger.Error("Failed to start session", "user", user, "error", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// Serve blocks until ctx is cancelled or the listener fails, then shuts the
// server down.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting SSH server", "address", s.cfg.Address)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("Could not start server", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Stopping SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}
