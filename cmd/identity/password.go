package identity

import (
	"sync"

	"bombay/cmd/security/password"
)

var (
	dummyOnce sync.Once
	dummyHash string
)

// VerifyPassword checks a plaintext password against the user's stored hash.
// A malformed stored hash is reported as an error, a mismatch as (false, nil).
func VerifyPassword(cfg password.Config, u User, plain string) (bool, error) {
	return cfg.Verify(u.PasswordHash, plain)
}

// BurnPasswordCheck runs one verify against a fixed hash so unknown-user
// logins cost roughly what a wrong-password login costs.
func BurnPasswordCheck(cfg password.Config, plain string) {
	dummyOnce.Do(func() {
		h, err := cfg.Hash("bombay dummy credential 7f3a")
		if err == nil {
			dummyHash = h
		}
	})
	if dummyHash != "" {
		_, _ = cfg.Verify(dummyHash, plain)
	}
}
