package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bombay/cmd/internal/pgschema"
	"bombay/cmd/security/password"
)

// PostgresStore implements Store over PostgreSQL.
// The pgx pool is owned by the caller; the store never closes it.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
	hasher password.Config
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the Postgres schema (default "bombay").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgschema.Valid(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// WithPasswordConfig overrides the hashing parameters used by CreateUser.
func WithPasswordConfig(cfg password.Config) PostgresOption {
	return func(s *PostgresStore) error {
		s.hasher = cfg
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: pgschema.Default,
		hasher: password.DefaultConfig(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

// CreateUser hashes the password and inserts the user.
func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	in, err := in.normalized(op)
	if err != nil {
		return User{}, err
	}
	if err := s.hasher.Validate(in.Password); err != nil {
		return User{}, invalid(op, err.Error())
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("%s: hash: %w", op, err)
	}

	q := fmt.Sprintf(`
INSERT INTO %s (name, name_norm, full_name, email, password_hash, system_admin, session_expires)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`, pgschema.Table(s.schema, "users"))

	u := User{
		Name:           strings.TrimSpace(in.Name),
		FullName:       strings.TrimSpace(in.FullName),
		Email:          strings.TrimSpace(in.Email),
		Admin:          in.Admin,
		PasswordHash:   hash,
		SessionExpires: in.SessionExpires,
	}
	err = s.pool.QueryRow(ctx, q,
		u.Name, NormalizeName(u.Name), u.FullName, u.Email, u.PasswordHash, u.Admin, u.SessionExpires,
	).Scan(&u.ID)
	if err != nil {
		if _, ok := pgschema.IsUniqueViolation(err); ok {
			return User{}, ConflictError{Op: op, Field: "name"}
		}
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetByName loads a user by case-insensitive name.
func (s *PostgresStore) GetByName(ctx context.Context, name string) (User, error) {
	const op = "identity.GetByName"
	norm := NormalizeName(name)
	if norm == "" {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return s.getOne(ctx, op, "name_norm = $1", norm)
}

// GetByID loads a user by id.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (User, error) {
	return s.getOne(ctx, "identity.GetByID", "id = $1", id)
}

func (s *PostgresStore) getOne(ctx context.Context, op, where string, arg any) (User, error) {
	q := fmt.Sprintf(`
SELECT id, name, full_name, email, password_hash, system_admin, session_expires
FROM %s
WHERE %s`, pgschema.Table(s.schema, "users"), where)

	var u User
	err := s.pool.QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.Name, &u.FullName, &u.Email, &u.PasswordHash, &u.Admin, &u.SessionExpires,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Resource: "user"}
		}
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
