package session

import (
	"context"
	"errors"
	"time"
)

// RefreshToken rotates the caller's session token in place and returns a
// newly signed token with a fresh iat and user snapshot.
//
// The row is only rewritten while it still holds the presented token, so
// of two concurrent refreshes exactly one wins and the other gets
// SessionNotFound. A signing failure after the write is not rolled back.
func (s *Service) RefreshToken(ctx context.Context, raw string, now time.Time) (Issued, error) {
	out, err := s.refresh(ctx, raw, now)
	s.metrics.observe("refresh", err)
	return out, err
}

func (s *Service) refresh(ctx context.Context, raw string, now time.Time) (Issued, error) {
	p, row, u, err := s.authenticate(ctx, raw, now)
	if err != nil {
		return Issued{}, err
	}

	var plain string
	for attempt := 0; ; attempt++ {
		var digest string
		plain, digest, err = s.newToken()
		if err != nil {
			return Issued{}, err
		}
		err = s.store.UpdateToken(ctx, row.ID, s.hash(p.Subject), digest, now)
		if err == nil {
			break
		}
		if errors.Is(err, ErrSessionNotFound) {
			return Issued{}, fail(ErrSessionNotFound, nil)
		}
		if !errors.Is(err, errDuplicateToken) || attempt+1 >= maxTokenAttempts {
			return Issued{}, fail(ErrStoreWriteFailure, err)
		}
	}

	next := Payload{Subject: plain, User: identityOf(u)}
	signed, err := s.codec.MakeToken(next, now)
	if err != nil {
		return Issued{}, err
	}
	s.log.DebugContext(ctx, "session.refresh", "session_id", row.ID, "user_id", p.User.ID)
	return Issued{Token: signed, User: next.User, SessionID: row.ID}, nil
}
