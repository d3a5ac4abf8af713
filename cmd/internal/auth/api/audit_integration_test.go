package authapi

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"bombay/cmd/internal/pgschema"
	"bombay/cmd/internal/pgschema/pgtest"
)

func TestPostgresAuditor_Record(t *testing.T) {
	pool := pgtest.Open(t)
	schema := pgtest.Schema(t, pool)

	a, err := NewPostgresAuditor(pool, schema, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewPostgresAuditor: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uid := int64(7)
	a.Record(ctx, Event{At: t0, Action: "auth.login.success", UserID: &uid, IP: "10.0.0.1", RequestID: "01TEST"})
	a.Record(ctx, Event{At: t0, Action: "  "})

	var n int
	var event string
	if err := pool.QueryRow(ctx, `SELECT count(*), max(event) FROM `+pgschema.Table(schema, "audit_log")).Scan(&n, &event); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 || event != "auth.login.success" {
		t.Fatalf("rows=%d event=%q", n, event)
	}
}
