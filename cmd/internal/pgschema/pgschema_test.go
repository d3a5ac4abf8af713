package pgschema

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", Default, false},
		{"  ", Default, false},
		{"bombay_it_01", "bombay_it_01", false},
		{"public", "public", false},
		{"1abc", "", true},
		{`x"; DROP TABLE users; --`, "", true},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidSchema) {
				t.Fatalf("Normalize(%q) err=%v, want ErrInvalidSchema", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("Normalize(%q)=%q,%v want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestSQL_RendersQuotedSchema(t *testing.T) {
	sql := SQL("bombay_test")
	if strings.Contains(sql, "{{schema}}") {
		t.Fatalf("placeholder left in rendered SQL")
	}
	for _, want := range []string{`"bombay_test".users`, `"bombay_test".sessions`, `"bombay_test".song`} {
		if !strings.Contains(sql, want) {
			t.Fatalf("rendered SQL missing %s", want)
		}
	}
}

func TestTable(t *testing.T) {
	if got := Table("bombay", "sessions"); got != `"bombay"."sessions"` {
		t.Fatalf("Table=%s", got)
	}
}

func TestViolationClassifiers(t *testing.T) {
	uv := &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_name_norm"}
	if c, ok := IsUniqueViolation(uv); !ok || c != "uq_users_name_norm" {
		t.Fatalf("IsUniqueViolation=%q,%v", c, ok)
	}
	if _, ok := IsUniqueViolation(errors.New("boom")); ok {
		t.Fatalf("plain error classified as unique violation")
	}
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("expected fk violation")
	}
}
