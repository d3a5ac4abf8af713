package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func cheapConfig() Config {
	cfg := DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

func TestHashAndVerify(t *testing.T) {
	cfg := cheapConfig()

	h, err := cfg.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ok, err := cfg.Verify(h, "correct horse battery")
	if err != nil || !ok {
		t.Fatalf("Verify(match) ok=%v err=%v", ok, err)
	}

	ok, err = cfg.Verify(h, "wrong horse battery")
	if err != nil {
		t.Fatalf("Verify(mismatch) err: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	cfg := cheapConfig()

	a, err := cfg.Hash("same password twice")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := cfg.Hash("same password twice")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	cfg := cheapConfig()

	for _, enc := range []string{
		"",
		"plaintext",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5",
	} {
		ok, err := cfg.Verify(enc, "whatever")
		if err != ErrInvalidHash || ok {
			t.Fatalf("Verify(%q) ok=%v err=%v; want ErrInvalidHash", enc, ok, err)
		}
	}
}

func TestVerify_RejectsOversizedParams(t *testing.T) {
	big := cheapConfig()
	big.Params.Iterations = 5

	h, err := big.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	small := cheapConfig()
	if ok, err := small.Verify(h, "correct horse battery"); err != ErrInvalidHash || ok {
		t.Fatalf("expected ErrInvalidHash for oversized params, got ok=%v err=%v", ok, err)
	}
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	cfg := cheapConfig()

	raw, err := bcrypt.GenerateFromPassword([]byte("legacy-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if !IsBcrypt(string(raw)) {
		t.Fatalf("IsBcrypt(%q)=false", raw)
	}

	ok, err := cfg.Verify(string(raw), "legacy-secret")
	if err != nil || !ok {
		t.Fatalf("Verify(bcrypt match) ok=%v err=%v", ok, err)
	}
	ok, err = cfg.Verify(string(raw), "not-it")
	if err != nil || ok {
		t.Fatalf("Verify(bcrypt mismatch) ok=%v err=%v", ok, err)
	}
}

func TestValidate(t *testing.T) {
	cfg := cheapConfig()
	cfg.Policy.MinLength = 8
	cfg.Policy.MaxLength = 16
	cfg.Policy.RejectVeryWeak = true

	cases := []struct {
		in   string
		want error
	}{
		{"short", ErrPasswordTooShort},
		{"this one is far too long", ErrPasswordTooLong},
		{"password", ErrWeakPassword},
		{"aaaaaaaaa", ErrWeakPassword},
		{"12345678", ErrWeakPassword},
		{"bass-n-drums", nil},
	}
	for _, tc := range cases {
		if got := cfg.Validate(tc.in); got != tc.want {
			t.Fatalf("Validate(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
}
