package authapi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bombay/cmd/internal/pgschema"
)

// Event is one audit trail entry.
type Event struct {
	At        time.Time
	Action    string
	UserID    *int64
	SessionID *int64
	IP        string
	UserAgent string
	RequestID string
	Detail    string
}

// Auditor records auth events. Implementations must not fail the request.
type Auditor interface {
	Record(ctx context.Context, ev Event)
}

// LogAuditor writes events to a slog logger.
type LogAuditor struct {
	log *slog.Logger
}

func NewLogAuditor(log *slog.Logger) *LogAuditor {
	if log == nil {
		log = slog.Default()
	}
	return &LogAuditor{log: log}
}

func (a *LogAuditor) Record(ctx context.Context, ev Event) {
	attrs := []slog.Attr{
		slog.String("ip", ev.IP),
		slog.String("request_id", ev.RequestID),
	}
	if ev.UserID != nil {
		attrs = append(attrs, slog.Int64("user_id", *ev.UserID))
	}
	if ev.SessionID != nil {
		attrs = append(attrs, slog.Int64("session_id", *ev.SessionID))
	}
	if ev.Detail != "" {
		attrs = append(attrs, slog.String("detail", ev.Detail))
	}
	a.log.LogAttrs(ctx, slog.LevelInfo, ev.Action, attrs...)
}

// PostgresAuditor inserts events into <schema>.audit_log.
type PostgresAuditor struct {
	pool  *pgxpool.Pool
	table string
	log   *slog.Logger
}

// NewPostgresAuditor builds an auditor writing to schema's audit_log.
func NewPostgresAuditor(pool *pgxpool.Pool, schema string, log *slog.Logger) (*PostgresAuditor, error) {
	if pool == nil {
		return nil, fmt.Errorf("authapi: nil pool")
	}
	schema, err := pgschema.Normalize(schema)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresAuditor{pool: pool, table: pgschema.Table(schema, "audit_log"), log: log}, nil
}

func (a *PostgresAuditor) Record(ctx context.Context, ev Event) {
	action := strings.TrimSpace(ev.Action)
	if action == "" {
		return
	}
	_, err := a.pool.Exec(ctx, `
		INSERT INTO `+a.table+` (
			at, event, user_id, session_id, ip, user_agent, request_id, detail
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, ev.At, action, ev.UserID, ev.SessionID, ev.IP, ev.UserAgent, ev.RequestID, ev.Detail)
	if err != nil {
		a.log.ErrorContext(ctx, "auth.audit.insert.fail", "err", err, "action", action)
	}
}

// MultiAuditor fans events out to several auditors.
type MultiAuditor []Auditor

func (m MultiAuditor) Record(ctx context.Context, ev Event) {
	for _, a := range m {
		if a != nil {
			a.Record(ctx, ev)
		}
	}
}
