package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/starfall/internal/core"
	"github.com/vovakirdan/starfall/internal/metrics"
	"github.com/vovakirdan/starfall/internal/storage"
)

// SessionObserver receives session lifecycle and step timing events.
type SessionObserver interface {
	StepObserver
	SessionStarted()
	SessionEnded()
	RecordRejected(reason string)
}

type noopObserver struct{}

func (noopObserver) ObserveStep(time.Duration) {}
func (noopObserver) SessionStarted()           {}
func (noopObserver) SessionEnded()             {}
func (noopObserver) RecordRejected(string)     {}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.starfall/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	GameID     string
	TickRate   int
	Difficulty string
	HoldWindow time.Duration
	Admission  AdmissionConfig

	Store    *storage.Store  // Optional; the caller owns it
	Setup    GameSetup       // Optional per-game hook
	Observer SessionObserver // Optional
	Logger   *log.Logger     // Optional; defaults to stderr
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Admission:   DefaultAdmissionConfig,
	}
}

// SSHServer wraps a Wish SSH server that gives every session its own game.
type SSHServer struct {
	config    SSHServerConfig
	server    *ssh.Server
	admission *Admission
	observer  SessionObserver
	logger    *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "starfall-ssh",
		})
	}
	observer := cfg.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".starfall", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	srv := &SSHServer{
		config:    cfg,
		admission: NewAdmission(cfg.Admission),
		observer:  observer,
		logger:    logger,
	}

	// The last middleware runs first.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.admissionMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.admission.Stop()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a session model for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		s.observer.RecordRejected(metrics.ReasonNoPTY)
		return nil, nil
	}

	model := NewSessionModel(SessionConfig{
		GameID: s.config.GameID,
		Store:  s.config.Store,
		Runtime: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.config.TickRate,
		},
		Player:     sess.User(),
		Difficulty: s.config.Difficulty,
		HoldWindow: s.config.HoldWindow,
		Setup:      s.config.Setup,
		Observer:   s.observer,
		Logger:     s.logger.With("user", sess.User()),
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// admissionMiddleware turns away sessions over the rate or capacity limits.
func (s *SSHServer) admissionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		ip := remoteIP(sess.RemoteAddr())
		if err := s.admission.Admit(ip); err != nil {
			reason := metrics.ReasonRateLimit
			if errors.Is(err, ErrAtCapacity) {
				reason = metrics.ReasonCapacity
			}
			s.logger.Warn("session rejected", "user", sess.User(), "ip", ip, "reason", reason)
			s.observer.RecordRejected(reason)
			wish.Fatalln(sess, err)
			return
		}
		defer s.admission.Release()

		s.observer.SessionStarted()
		defer s.observer.SessionEnded()
		next(sess)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe serves until ctx is cancelled or the listener fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.admission.Stop()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.admission.Stop()
	if err := s.server.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

var (
	_ SessionObserver = (*metrics.Collectors)(nil)
	_ SessionObserver = noopObserver{}
)
