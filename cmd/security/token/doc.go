// Package token generates opaque session tokens and derives the form they
// are stored in.
//
// A session token is random bytes rendered as upper-case hex. The plain token
// only travels inside the signed JWT (as "sub"); session stores keep a 64-char
// hex digest of it:
//   - HMAC-SHA256(token, BOMBAY_TOKEN_HMAC_KEY) when the key is set,
//   - SHA-256(token) otherwise (development).
//
// Deployments that set BOMBAY_REQUIRE_TOKEN_HMAC must also provide a key of at
// least 32 bytes; see HMACKeyFromEnv.
package token
