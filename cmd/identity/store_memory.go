package identity

import (
	"context"
	"strings"
	"sync"

	"bombay/cmd/security/password"
)

// MemoryStore is an in-process Store used for dev mode and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]User
	byName map[string]int64
	hasher password.Config
}

// NewMemoryStore returns an empty store hashing with cfg.
func NewMemoryStore(cfg password.Config) *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]User),
		byName: make(map[string]int64),
		hasher: cfg,
	}
}

// CreateUser hashes the password and stores the user.
func (s *MemoryStore) CreateUser(_ context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	in, err := in.normalized(op)
	if err != nil {
		return User{}, err
	}
	if err := s.hasher.Validate(in.Password); err != nil {
		return User{}, invalid(op, err.Error())
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	norm := NormalizeName(in.Name)
	if _, ok := s.byName[norm]; ok {
		return User{}, ConflictError{Op: op, Field: "name"}
	}
	s.nextID++
	u := User{
		ID:             s.nextID,
		Name:           strings.TrimSpace(in.Name),
		FullName:       strings.TrimSpace(in.FullName),
		Email:          strings.TrimSpace(in.Email),
		Admin:          in.Admin,
		PasswordHash:   hash,
		SessionExpires: in.SessionExpires,
	}
	s.byID[u.ID] = u
	s.byName[norm] = u.ID
	return u, nil
}

// Put inserts or replaces a fully formed user. Tests use it to set up
// rows without paying for password hashing.
func (s *MemoryStore) Put(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byID[u.ID]; ok {
		delete(s.byName, NormalizeName(old.Name))
	}
	if u.ID > s.nextID {
		s.nextID = u.ID
	}
	s.byID[u.ID] = u
	s.byName[NormalizeName(u.Name)] = u.ID
}

// Delete removes a user; missing ids are ignored.
func (s *MemoryStore) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		delete(s.byName, NormalizeName(u.Name))
		delete(s.byID, id)
	}
}

func (s *MemoryStore) GetByName(_ context.Context, name string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[NormalizeName(name)]
	if !ok {
		return User{}, NotFoundError{Op: "identity.GetByName", Resource: "user"}
	}
	return s.byID[id], nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return User{}, NotFoundError{Op: "identity.GetByID", Resource: "user"}
	}
	return u, nil
}
