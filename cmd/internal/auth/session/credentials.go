package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bombay/cmd/identity"
)

const maxTokenAttempts = 3

// Login verifies credentials, creates a session and returns its signed token.
// Unknown users and wrong passwords fail identically with InvalidCredentials.
func (s *Service) Login(ctx context.Context, username, pw string, now time.Time) (Issued, error) {
	out, err := s.login(ctx, username, pw, now)
	s.metrics.observe("login", err)
	return out, err
}

func (s *Service) login(ctx context.Context, username, pw string, now time.Time) (Issued, error) {
	u, err := s.checkCredentials(ctx, username, pw)
	if err != nil {
		return Issued{}, err
	}

	var (
		plain string
		row   Row
	)
	for attempt := 0; ; attempt++ {
		var digest string
		plain, digest, err = s.newToken()
		if err != nil {
			return Issued{}, err
		}
		row, err = s.store.Create(ctx, digest, now, u.ID)
		if err == nil {
			break
		}
		if !errors.Is(err, errDuplicateToken) || attempt+1 >= maxTokenAttempts {
			return Issued{}, fail(ErrStoreWriteFailure, err)
		}
	}

	id := identityOf(u)
	signed, err := s.codec.MakeToken(Payload{Subject: plain, User: id}, now)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, User: id, SessionID: row.ID}, nil
}

func (s *Service) checkCredentials(ctx context.Context, username, pw string) (identity.User, error) {
	u, err := s.users.GetByName(ctx, username)
	if err != nil {
		if identity.IsNotFound(err) {
			identity.BurnPasswordCheck(s.passwords, pw)
			return identity.User{}, fail(ErrInvalidCredentials, nil)
		}
		return identity.User{}, fail(ErrStoreUnavailable, err)
	}

	ok, err := identity.VerifyPassword(s.passwords, u, pw)
	if err != nil {
		s.log.WarnContext(ctx, "auth.login.bad_hash", slog.Int64("user_id", u.ID), slog.Any("err", err))
		return identity.User{}, fail(ErrInvalidCredentials, nil)
	}
	if !ok {
		return identity.User{}, fail(ErrInvalidCredentials, nil)
	}
	return u, nil
}
