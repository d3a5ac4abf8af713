package identity

import "context"

// DefaultSessionExpires is the per-user soft session window, in minutes.
const DefaultSessionExpires = 60

// User is an account record. PasswordHash is an encoded Argon2id (or legacy
// bcrypt) hash and never leaves the server.
type User struct {
	ID           int64
	Name         string
	FullName     string
	Email        string
	Admin        bool
	PasswordHash string

	// SessionExpires is the soft session window in minutes, checked against
	// the token issue time on every authenticated request.
	SessionExpires int
}

// CreateUserInput describes an administrative account creation.
// SessionExpires <= 0 means DefaultSessionExpires.
type CreateUserInput struct {
	Name           string
	FullName       string
	Email          string
	Password       string
	Admin          bool
	SessionExpires int
}

// Store is the user persistence boundary. Lookups by name are case-insensitive.
// Missing users are reported as NotFoundError.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	GetByName(ctx context.Context, name string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
}

func (in CreateUserInput) normalized(op string) (CreateUserInput, error) {
	if NormalizeName(in.Name) == "" {
		return in, invalid(op, "name is required")
	}
	if in.Password == "" {
		return in, invalid(op, "password is required")
	}
	if in.SessionExpires <= 0 {
		in.SessionExpires = DefaultSessionExpires
	}
	return in, nil
}
