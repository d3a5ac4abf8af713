package session

import (
	"os"
	"strconv"
	"time"
)

// Config holds the session subsystem's tunables.
type Config struct {
	// JWTSecret signs and verifies HS256 tokens. At least 16 bytes.
	JWTSecret []byte

	// TokenBytes is the entropy of each opaque session token.
	TokenBytes int

	// SweepCeiling is the absolute age after which sessions are reaped,
	// independent of any per-user expiry.
	SweepCeiling time.Duration

	// SweepBatch caps the rows deleted per sweep.
	SweepBatch int

	// SweepInterval drives the periodic sweeper. Zero disables it.
	SweepInterval time.Duration
}

// MinSecretBytes is the shortest accepted JWT secret.
const MinSecretBytes = 16

// DefaultConfig returns defaults without a secret.
func DefaultConfig() Config {
	return Config{
		TokenBytes:    16,
		SweepCeiling:  4 * time.Hour,
		SweepBatch:    100,
		SweepInterval: 10 * time.Minute,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - BOMBAY_JWT_SECRET
//
// Optional:
//   - BOMBAY_SESSION_TOKEN_BYTES (8..64)
//   - BOMBAY_SESSION_SWEEP_CEILING (duration > 0)
//   - BOMBAY_SESSION_SWEEP_BATCH (1..10000)
//   - BOMBAY_SESSION_SWEEP_INTERVAL (duration >= 0)
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	secret := os.Getenv("BOMBAY_JWT_SECRET")
	if len(secret) < MinSecretBytes {
		return Config{}, ErrConfig
	}
	cfg.JWTSecret = []byte(secret)

	if v := os.Getenv("BOMBAY_SESSION_TOKEN_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 8 || n > 64 {
			return Config{}, ErrConfig
		}
		cfg.TokenBytes = n
	}

	if v := os.Getenv("BOMBAY_SESSION_SWEEP_CEILING"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.SweepCeiling = d
	}

	if v := os.Getenv("BOMBAY_SESSION_SWEEP_BATCH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 10000 {
			return Config{}, ErrConfig
		}
		cfg.SweepBatch = n
	}

	if v := os.Getenv("BOMBAY_SESSION_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.SweepInterval = d
	}

	return cfg, nil
}
