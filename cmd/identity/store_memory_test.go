package identity

import (
	"context"
	"testing"

	"bombay/cmd/security/password"
)

func cheapPasswords() password.Config {
	cfg := password.DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(cheapPasswords())

	u, err := s.CreateUser(ctx, CreateUserInput{Name: "  Jon ", FullName: "Jon Doe", Password: "long enough secret"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 || u.Name != "Jon" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.SessionExpires != DefaultSessionExpires {
		t.Fatalf("SessionExpires=%d want default %d", u.SessionExpires, DefaultSessionExpires)
	}

	got, err := s.GetByName(ctx, "JON")
	if err != nil || got.ID != u.ID {
		t.Fatalf("GetByName case-insensitive: %+v %v", got, err)
	}
	got, err = s.GetByID(ctx, u.ID)
	if err != nil || got.Name != "Jon" {
		t.Fatalf("GetByID: %+v %v", got, err)
	}

	ok, err := VerifyPassword(cheapPasswords(), got, "long enough secret")
	if err != nil || !ok {
		t.Fatalf("VerifyPassword ok=%v err=%v", ok, err)
	}
	ok, _ = VerifyPassword(cheapPasswords(), got, "another secret!!")
	if ok {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestMemoryStore_Conflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(cheapPasswords())

	if _, err := s.CreateUser(ctx, CreateUserInput{Name: "navid", Password: "long enough secret"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	_, err := s.CreateUser(ctx, CreateUserInput{Name: "NAVID", Password: "long enough secret"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMemoryStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(cheapPasswords())

	cases := []CreateUserInput{
		{Name: "", Password: "long enough secret"},
		{Name: "x", Password: ""},
		{Name: "x", Password: "short"},
	}
	for _, in := range cases {
		if _, err := s.CreateUser(ctx, in); !IsInvalidInput(err) {
			t.Fatalf("CreateUser(%+v) err=%v, want invalid input", in, err)
		}
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(cheapPasswords())
	s.Put(User{ID: 7, Name: "ghost", SessionExpires: 60})
	s.Delete(7)

	if _, err := s.GetByID(ctx, 7); !IsNotFound(err) {
		t.Fatalf("GetByID err=%v", err)
	}
	if _, err := s.GetByName(ctx, "ghost"); !IsNotFound(err) {
		t.Fatalf("GetByName err=%v", err)
	}
}

func TestBurnPasswordCheck_DoesNotPanic(t *testing.T) {
	BurnPasswordCheck(cheapPasswords(), "whatever")
	BurnPasswordCheck(cheapPasswords(), "")
}
