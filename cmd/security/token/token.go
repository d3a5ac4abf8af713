package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
)

// HMACEnvKey names the env var holding the at-rest hashing key.
// #nosec G101 -- an environment variable name, not a credential.
const HMACEnvKey = "BOMBAY_TOKEN_HMAC_KEY"

const (
	MinTokenBytes = 8
	MaxTokenBytes = 64
)

// NewSessionToken returns nBytes of crypto/rand output as upper-case hex.
func NewSessionToken(nBytes int) (string, error) {
	if nBytes < MinTokenBytes || nBytes > MaxTokenBytes {
		return "", ErrTokenSize
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// HashSHA256Hex returns the SHA-256 hex digest of s.
func HashSHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashHMACSHA256Hex returns the HMAC-SHA256 hex digest of s under key.
func HashHMACSHA256Hex(s string, key []byte) string {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(s))
	return hex.EncodeToString(m.Sum(nil))
}

// Hasher maps plain session tokens to their stored form.
type Hasher func(plain string) string

// NewHasher returns an HMAC hasher when key is non-empty, SHA-256 otherwise.
func NewHasher(key []byte) Hasher {
	if len(key) == 0 {
		return HashSHA256Hex
	}
	k := append([]byte(nil), key...)
	return func(plain string) string { return HashHMACSHA256Hex(plain, k) }
}

// HMACKeyFromEnv returns the trimmed key bytes, enforcing minBytes when > 0.
func HMACKeyFromEnv(minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(HMACEnvKey))
	if raw == "" {
		return nil, ErrHMACKeyMissing
	}
	if minBytes > 0 && len(raw) < minBytes {
		return nil, ErrHMACKeyTooShort
	}
	return []byte(raw), nil
}

// HasherFromEnv builds a Hasher from BOMBAY_TOKEN_HMAC_KEY. With requireHMAC
// a missing or short (< 32 bytes) key is an error instead of a SHA-256 fallback.
func HasherFromEnv(requireHMAC bool) (Hasher, error) {
	if !requireHMAC {
		key, err := HMACKeyFromEnv(0)
		if err != nil {
			return NewHasher(nil), nil
		}
		return NewHasher(key), nil
	}
	key, err := HMACKeyFromEnv(32)
	if err != nil {
		return nil, err
	}
	return NewHasher(key), nil
}
