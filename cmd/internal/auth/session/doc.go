// Package session implements bombay's login session lifecycle.
//
// A login creates a Session row holding a random opaque token and signs a JWT
// whose "sub" is that token. Every authenticated request decodes the JWT and
// cross-checks it against the row and the owning user (VerifySession).
// RefreshToken rotates the opaque token in place; Logout deletes the row; a
// bounded sweep evicts sessions older than an absolute ceiling.
//
// Tokens are stored hashed (HMAC-SHA256 when BOMBAY_TOKEN_HMAC_KEY is set,
// otherwise SHA-256); the plain token only exists inside the signed JWT.
//
// Transport (HTTP) integration lives in package authapi.
package session
