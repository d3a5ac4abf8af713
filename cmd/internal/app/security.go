package app

import (
	"errors"
	"fmt"

	"bombay/cmd/security/token"
)

// ValidateSecurityConfig enforces startup policy and returns the at-rest
// session token hasher. With RequireTokenHMAC a missing or short key fails
// startup instead of degrading to plain SHA-256.
func ValidateSecurityConfig(cfg Config) (token.Hasher, error) {
	h, err := token.HasherFromEnv(cfg.RequireTokenHMAC)
	switch {
	case err == nil:
		return h, nil
	case errors.Is(err, token.ErrHMACKeyMissing):
		return nil, fmt.Errorf("security policy: BOMBAY_REQUIRE_TOKEN_HMAC=true but %s is missing", token.HMACEnvKey)
	case errors.Is(err, token.ErrHMACKeyTooShort):
		return nil, fmt.Errorf("security policy: BOMBAY_REQUIRE_TOKEN_HMAC=true but %s is too short (min 32 bytes)", token.HMACEnvKey)
	default:
		return nil, err
	}
}
