package session

import (
	"context"
	"time"
)

// Row mirrors the sessions table. TokenHash is the digest of the opaque token.
type Row struct {
	ID        int64
	TokenHash string
	Start     time.Time
	UserID    int64
}

// Store abstracts persistence for session rows. Missing rows are reported
// as ErrSessionNotFound.
type Store interface {
	// Create inserts a new session row.
	Create(ctx context.Context, tokenHash string, start time.Time, userID int64) (Row, error)

	// GetByToken loads a session by token digest.
	GetByToken(ctx context.Context, tokenHash string) (Row, error)

	// UpdateToken replaces the token and start of row id, but only while the
	// row still holds oldHash. Otherwise it returns ErrSessionNotFound.
	UpdateToken(ctx context.Context, id int64, oldHash, newHash string, start time.Time) error

	// Delete removes a session. Deleting a missing row is not an error.
	Delete(ctx context.Context, id int64) error

	// DeleteStartedBefore removes up to limit sessions started before
	// cutoff, oldest first, and returns how many were removed.
	DeleteStartedBefore(ctx context.Context, cutoff time.Time, limit int) (int, error)
}
