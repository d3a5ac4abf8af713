package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bombay/cmd/internal/pgschema"
)

var errDuplicateToken = errors.New("session: duplicate token")

// PostgresStore implements Store using PostgreSQL (<schema>.sessions).
// The pool is owned by the caller.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore creates a Postgres-backed session store in schema.
func NewPostgresStore(pool *pgxpool.Pool, schema string) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("session: nil pool")
	}
	schema, err := pgschema.Normalize(schema)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool, table: pgschema.Table(schema, "sessions")}, nil
}

// Create inserts a new session row and returns it with its id.
func (s *PostgresStore) Create(ctx context.Context, tokenHash string, start time.Time, userID int64) (Row, error) {
	row := Row{TokenHash: tokenHash, Start: start, UserID: userID}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO `+s.table+` (session_token, session_start, user_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, tokenHash, start, userID).Scan(&row.ID)
	if err != nil {
		if _, ok := pgschema.IsUniqueViolation(err); ok {
			return Row{}, errDuplicateToken
		}
		return Row{}, err
	}
	return row, nil
}

// GetByToken loads a session row by token digest.
func (s *PostgresStore) GetByToken(ctx context.Context, tokenHash string) (Row, error) {
	var row Row

	err := s.pool.QueryRow(ctx, `
		SELECT id, session_token, session_start, user_id
		FROM `+s.table+`
		WHERE session_token = $1
	`, tokenHash).Scan(&row.ID, &row.TokenHash, &row.Start, &row.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, ErrSessionNotFound
	}
	if err != nil {
		return Row{}, err
	}
	return row, nil
}

// UpdateToken rotates the token of row id if it still holds oldHash.
func (s *PostgresStore) UpdateToken(ctx context.Context, id int64, oldHash, newHash string, start time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE `+s.table+`
		SET session_token = $3, session_start = $4
		WHERE id = $1 AND session_token = $2
	`, id, oldHash, newHash, start)
	if err != nil {
		if _, ok := pgschema.IsUniqueViolation(err); ok {
			return errDuplicateToken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session row.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE id = $1`, id)
	return err
}

// DeleteStartedBefore removes up to limit sessions older than cutoff, oldest first.
func (s *PostgresStore) DeleteStartedBefore(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM `+s.table+`
		WHERE id IN (
			SELECT id FROM `+s.table+`
			WHERE session_start < $1
			ORDER BY session_start, id
			LIMIT $2
		)
	`, cutoff, limit)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
