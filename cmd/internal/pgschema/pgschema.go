// Package pgschema holds bombay's PostgreSQL schema and identifier helpers
// shared by the Postgres-backed stores.
package pgschema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Default is the schema used when none is configured.
const Default = "bombay"

//go:embed schema.sql
var schemaSQL string

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ErrInvalidSchema is returned for schema names that are not plain identifiers.
var ErrInvalidSchema = errors.New("pgschema: invalid schema identifier")

// Valid reports whether s is a legal unquoted PostgreSQL identifier.
func Valid(s string) bool { return identRe.MatchString(s) }

// Normalize trims s, applies Default when empty and validates the result.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default, nil
	}
	if !Valid(s) {
		return "", ErrInvalidSchema
	}
	return s, nil
}

// Table quotes a schema-qualified table name: "schema"."name".
func Table(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

// SQL returns the schema DDL rendered for the given schema.
func SQL(schema string) string {
	return strings.ReplaceAll(schemaSQL, "{{schema}}", pgx.Identifier{schema}.Sanitize())
}

// Apply creates every bombay table in schema. It is idempotent.
func Apply(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if !Valid(schema) {
		return ErrInvalidSchema
	}
	if _, err := pool.Exec(ctx, SQL(schema)); err != nil {
		return fmt.Errorf("pgschema: apply %s: %w", schema, err)
	}
	return nil
}

// IsUniqueViolation reports a unique_violation and returns the constraint name.
func IsUniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// IsForeignKeyViolation reports a foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
