package session

import (
	"context"
	"errors"
	"time"

	"bombay/cmd/identity"
)

// VerifySession cross-checks a decoded payload against its session row and
// owning user. Checks run in order and stop at the first failure:
// session exists, session belongs to payload.user, user exists, token is
// within the user's session_expires window. It never writes.
func (s *Service) VerifySession(ctx context.Context, p Payload, now time.Time) (Identity, Row, error) {
	row, _, err := s.verify(ctx, p, now)
	if err != nil {
		return Identity{}, Row{}, err
	}
	return p.User, row, nil
}

func (s *Service) verify(ctx context.Context, p Payload, now time.Time) (Row, identity.User, error) {
	row, err := s.store.GetByToken(ctx, s.hash(p.Subject))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Row{}, identity.User{}, fail(ErrSessionNotFound, nil)
		}
		return Row{}, identity.User{}, fail(ErrStoreUnavailable, err)
	}

	if row.UserID != p.User.ID {
		return Row{}, identity.User{}, fail(ErrSessionUserMismatch, nil)
	}

	u, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		if identity.IsNotFound(err) {
			return Row{}, identity.User{}, fail(ErrNoSuchUser, nil)
		}
		return Row{}, identity.User{}, fail(ErrStoreUnavailable, err)
	}

	if Expired(u.SessionExpires, p.IssuedAt, now) {
		return Row{}, identity.User{}, fail(ErrSessionExpired, nil)
	}
	return row, u, nil
}

// Expired reports whether a token issued at iat has outlived a window of
// minutes, in whole unix seconds: now - minutes*60 > iat.
// A window of zero or less expires every token issued before the current second.
func Expired(minutes int, iat, now time.Time) bool {
	return now.Unix()-int64(minutes)*60 > iat.Unix()
}
