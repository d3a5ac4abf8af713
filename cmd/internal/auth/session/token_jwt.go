package session

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user snapshot embedded in a token at login or refresh.
// It is a cache: name or admin changes reach clients only after the next
// login or refresh.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// Payload is the decoded token content. Subject is the plain session token.
// A zero IssuedAt means "now" when signing.
type Payload struct {
	Subject  string
	User     Identity
	IssuedAt time.Time
}

// TokenCodec signs and verifies token payloads.
type TokenCodec interface {
	MakeToken(p Payload, now time.Time) (string, error)
	Decode(token string) (Payload, error)
}

type claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// JWTCodec is an HS256 TokenCodec over a process-wide secret.
type JWTCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTCodec returns ErrConfig for secrets shorter than MinSecretBytes.
func NewJWTCodec(secret []byte) (*JWTCodec, error) {
	if len(secret) < MinSecretBytes {
		return nil, ErrConfig
	}
	return &JWTCodec{
		secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// MakeToken signs p. iat is second-precision.
func (c *JWTCodec) MakeToken(p Payload, now time.Time) (string, error) {
	iat := p.IssuedAt
	if iat.IsZero() {
		iat = now
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		User: p.User,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  p.Subject,
			IssuedAt: jwt.NewNumericDate(iat),
		},
	})
	return tok.SignedString(c.secret)
}

// Decode verifies the signature and returns the payload. Failures are
// InvalidToken errors carrying the codec's message.
func (c *JWTCodec) Decode(token string) (Payload, error) {
	var cl claims
	_, err := c.parser.ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Payload{}, invalidToken(err)
	}
	if cl.Subject == "" {
		return Payload{}, invalidToken(errors.New("missing sub"))
	}
	if cl.IssuedAt == nil {
		return Payload{}, invalidToken(errors.New("missing iat"))
	}
	return Payload{Subject: cl.Subject, User: cl.User, IssuedAt: cl.IssuedAt.Time}, nil
}

var bearerRe = regexp.MustCompile(`^Bearer\s+`)

// TokenFromRequest returns the bearer token from the Authorization header,
// or "" when none is present.
func TokenFromRequest(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimSpace(bearerRe.ReplaceAllString(h, ""))
}
