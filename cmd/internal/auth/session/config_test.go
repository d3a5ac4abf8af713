package session

import (
	"errors"
	"testing"
	"time"
)

const validSecret = "0123456789abcdef0123"

func TestLoadConfigFromEnv_MissingSecret(t *testing.T) {
	t.Setenv("BOMBAY_JWT_SECRET", "")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig on missing secret, got %v", err)
	}
	t.Setenv("BOMBAY_JWT_SECRET", "tooshort")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig on short secret, got %v", err)
	}
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"BOMBAY_SESSION_TOKEN_BYTES":    "4",
		"BOMBAY_SESSION_SWEEP_CEILING":  "-1h",
		"BOMBAY_SESSION_SWEEP_BATCH":    "0",
		"BOMBAY_SESSION_SWEEP_INTERVAL": "soon",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("BOMBAY_JWT_SECRET", validSecret)
			t.Setenv(key, val)
			if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig for %s=%s, got %v", key, val, err)
			}
		})
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("BOMBAY_JWT_SECRET", validSecret)
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SweepCeiling != 4*time.Hour || cfg.SweepBatch != 100 || cfg.TokenBytes != 16 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFromEnv_Valid(t *testing.T) {
	t.Setenv("BOMBAY_JWT_SECRET", validSecret)
	t.Setenv("BOMBAY_SESSION_TOKEN_BYTES", "32")
	t.Setenv("BOMBAY_SESSION_SWEEP_CEILING", "2h")
	t.Setenv("BOMBAY_SESSION_SWEEP_BATCH", "50")
	t.Setenv("BOMBAY_SESSION_SWEEP_INTERVAL", "0s")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(cfg.JWTSecret) != validSecret {
		t.Fatalf("secret mismatch")
	}
	if cfg.TokenBytes != 32 {
		t.Fatalf("token bytes mismatch: %d", cfg.TokenBytes)
	}
	if cfg.SweepCeiling != 2*time.Hour {
		t.Fatalf("ceiling mismatch: %v", cfg.SweepCeiling)
	}
	if cfg.SweepBatch != 50 {
		t.Fatalf("batch mismatch: %d", cfg.SweepBatch)
	}
	if cfg.SweepInterval != 0 {
		t.Fatalf("interval mismatch: %v", cfg.SweepInterval)
	}
}
