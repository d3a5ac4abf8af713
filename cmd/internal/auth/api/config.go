package authapi

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls auth API behavior.
type Config struct {
	// TrustProxy makes client IPs come from X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	// MaxBodyBytes bounds login request bodies.
	MaxBodyBytes int64

	// LoginFailMax failed logins per client IP within LoginFailWindow
	// trigger 429 responses. Zero disables throttling.
	LoginFailMax    int
	LoginFailWindow time.Duration
}

// LoadConfigFromEnv loads auth config from environment variables with safe defaults.
func LoadConfigFromEnv() Config {
	return Config{
		TrustProxy:   envBool("BOMBAY_AUTH_TRUST_PROXY", false),
		MaxBodyBytes: envInt64("BOMBAY_AUTH_MAX_BODY_BYTES", 64<<10),

		LoginFailMax:    int(envInt64("BOMBAY_AUTH_LOGIN_FAIL_MAX", 20)),
		LoginFailWindow: envDuration("BOMBAY_AUTH_LOGIN_FAIL_WINDOW", 15*time.Minute),
	}
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
