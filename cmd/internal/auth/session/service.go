package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"bombay/cmd/identity"
	"bombay/cmd/security/password"
	"bombay/cmd/security/token"
)

// Users is the read-only user lookup the session core depends on.
// identity.Store satisfies it.
type Users interface {
	GetByName(ctx context.Context, name string) (identity.User, error)
	GetByID(ctx context.Context, id int64) (identity.User, error)
}

// Service implements login, verification, refresh, logout and the
// stale-session sweep. Every operation takes an explicit now.
type Service struct {
	cfg       Config
	store     Store
	users     Users
	codec     TokenCodec
	hash      token.Hasher
	passwords password.Config
	log       *slog.Logger
	metrics   *Metrics

	sweeping atomic.Bool
	bg       sync.WaitGroup
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics enables operation counters.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithHasher sets the at-rest token digest (default SHA-256).
func WithHasher(h token.Hasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hash = h
		}
	}
}

// WithPasswords sets the password verification parameters.
func WithPasswords(cfg password.Config) Option {
	return func(s *Service) { s.passwords = cfg }
}

// NewService wires a Service. store, users and codec are required.
func NewService(cfg Config, store Store, users Users, codec TokenCodec, opts ...Option) (*Service, error) {
	if store == nil || users == nil || codec == nil {
		return nil, fmt.Errorf("%w: nil dependency", ErrConfig)
	}
	def := DefaultConfig()
	if cfg.TokenBytes <= 0 {
		cfg.TokenBytes = def.TokenBytes
	}
	if cfg.SweepCeiling <= 0 {
		cfg.SweepCeiling = def.SweepCeiling
	}
	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = def.SweepBatch
	}

	s := &Service{
		cfg:       cfg,
		store:     store,
		users:     users,
		codec:     codec,
		hash:      token.HashSHA256Hex,
		passwords: password.DefaultConfig(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Config returns the effective configuration.
func (s *Service) Config() Config { return s.cfg }

// Issued is the result of a login or refresh.
type Issued struct {
	Token     string
	User      Identity
	SessionID int64
}

// Outcome describes an authenticated (or not) caller.
type Outcome struct {
	LoggedIn bool
	Token    string
	User     Identity
	Session  Row
}

func identityOf(u identity.User) Identity {
	return Identity{ID: u.ID, Name: u.Name, Admin: u.Admin}
}

// newToken returns a plain opaque token and its at-rest digest.
func (s *Service) newToken() (plain, digest string, err error) {
	plain, err = token.NewSessionToken(s.cfg.TokenBytes)
	if err != nil {
		return "", "", err
	}
	return plain, s.hash(plain), nil
}

// authenticate runs the full request check: header presence, signature,
// then VerifySession.
func (s *Service) authenticate(ctx context.Context, raw string, now time.Time) (Payload, Row, identity.User, error) {
	if raw == "" {
		return Payload{}, Row{}, identity.User{}, fail(ErrNoAuthorizationFound, nil)
	}
	p, err := s.codec.Decode(raw)
	if err != nil {
		var se *Error
		if !errors.As(err, &se) {
			err = invalidToken(err)
		}
		return Payload{}, Row{}, identity.User{}, err
	}
	row, u, err := s.verify(ctx, p, now)
	if err != nil {
		return Payload{}, Row{}, identity.User{}, err
	}
	return p, row, u, nil
}

// IsLoggedIn reports whether raw is a valid token for a live session.
func (s *Service) IsLoggedIn(ctx context.Context, raw string, now time.Time) (Outcome, error) {
	p, row, _, err := s.authenticate(ctx, raw, now)
	s.metrics.observe("check", err)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{LoggedIn: true, Token: raw, User: p.User, Session: row}, nil
}

// Logout ends the caller's session. Callers that are not logged in, or
// whose session is already gone, still succeed with LoggedIn false.
func (s *Service) Logout(ctx context.Context, raw string, now time.Time) (Outcome, error) {
	p, row, _, err := s.authenticate(ctx, raw, now)
	if err != nil {
		s.log.DebugContext(ctx, "session.logout.noop", slog.String("reason", CodeOf(err)))
		s.metrics.observe("logout", nil)
		return Outcome{}, nil
	}
	if err := s.store.Delete(ctx, row.ID); err != nil {
		err = fail(ErrStoreWriteFailure, err)
		s.metrics.observe("logout", err)
		return Outcome{}, err
	}
	s.metrics.observe("logout", nil)
	return Outcome{LoggedIn: true, Token: raw, User: p.User, Session: row}, nil
}

// Wait blocks until background sweeps started by SweepInBackground finish.
func (s *Service) Wait() { s.bg.Wait() }
