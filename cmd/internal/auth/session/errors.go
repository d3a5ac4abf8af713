package session

import (
	"errors"
	"net/http"
)

var (
	ErrNoAuthorizationFound = errors.New("no authorization found")
	ErrInvalidToken         = errors.New("invalid token")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionUserMismatch  = errors.New("session and user mismatch")
	ErrNoSuchUser           = errors.New("no such user")
	ErrSessionExpired       = errors.New("session expired")
	ErrInvalidCredentials   = errors.New("invalid credentials")

	// ErrStoreWriteFailure marks a failed session write (500 class).
	ErrStoreWriteFailure = errors.New("store write failure")

	// ErrStoreUnavailable marks a failed session or user read (500 class).
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)

// Error is the single failure shape returned by session operations.
// Msg is safe to show to clients; Error() additionally carries the cause.
type Error struct {
	Kind   error
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

type kindInfo struct {
	code   string
	msg    string
	status int
}

var kinds = map[error]kindInfo{
	ErrNoAuthorizationFound: {"no_authorization", "No Authorization Found", http.StatusUnauthorized},
	ErrInvalidToken:         {"invalid_token", "Invalid token", http.StatusUnauthorized},
	ErrSessionNotFound:      {"session_not_found", "Session not found", http.StatusUnauthorized},
	ErrSessionUserMismatch:  {"session_user_mismatch", "Session and User mismatch", http.StatusUnauthorized},
	ErrNoSuchUser:           {"no_such_user", "No such user", http.StatusUnauthorized},
	ErrSessionExpired:       {"session_expired", "Session expired", http.StatusUnauthorized},
	ErrInvalidCredentials:   {"invalid_credentials", "Username or password not recognized", http.StatusUnauthorized},
	ErrStoreWriteFailure:    {"store_write_failure", "Unable to update session", http.StatusInternalServerError},
	ErrStoreUnavailable:     {"store_unavailable", "Session store unavailable", http.StatusInternalServerError},
}

func fail(kind, cause error) *Error {
	k := kinds[kind]
	return &Error{Kind: kind, Status: k.status, Msg: k.msg, Err: cause}
}

// invalidToken keeps the codec's message visible to the client.
func invalidToken(cause error) *Error {
	e := fail(ErrInvalidToken, nil)
	if cause != nil {
		e.Msg += ": " + cause.Error()
	}
	return e
}

// StatusOf maps err to an HTTP status. Non-session errors are 500.
func StatusOf(err error) int {
	var se *Error
	if errors.As(err, &se) && se.Status != 0 {
		return se.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Msg
	}
	return http.StatusText(http.StatusInternalServerError)
}

// CodeOf returns a stable machine-readable code for err ("internal" for
// errors outside the session taxonomy).
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		if k, ok := kinds[se.Kind]; ok {
			return k.code
		}
	}
	return "internal"
}
