package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for dev mode and tests.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]Row
	byToken map[string]int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:    make(map[int64]Row),
		byToken: make(map[string]int64),
	}
}

func (s *MemoryStore) Create(_ context.Context, tokenHash string, start time.Time, userID int64) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byToken[tokenHash]; dup {
		return Row{}, errDuplicateToken
	}
	s.nextID++
	row := Row{ID: s.nextID, TokenHash: tokenHash, Start: start, UserID: userID}
	s.rows[row.ID] = row
	s.byToken[tokenHash] = row.ID
	return row, nil
}

func (s *MemoryStore) GetByToken(_ context.Context, tokenHash string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byToken[tokenHash]
	if !ok {
		return Row{}, ErrSessionNotFound
	}
	return s.rows[id], nil
}

func (s *MemoryStore) UpdateToken(_ context.Context, id int64, oldHash, newHash string, start time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok || row.TokenHash != oldHash {
		return ErrSessionNotFound
	}
	if _, dup := s.byToken[newHash]; dup {
		return errDuplicateToken
	}
	delete(s.byToken, oldHash)
	row.TokenHash = newHash
	row.Start = start
	s.rows[id] = row
	s.byToken[newHash] = id
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[id]; ok {
		delete(s.byToken, row.TokenHash)
		delete(s.rows, id)
	}
	return nil
}

func (s *MemoryStore) DeleteStartedBefore(_ context.Context, cutoff time.Time, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stale []Row
	for _, row := range s.rows {
		if row.Start.Before(cutoff) {
			stale = append(stale, row)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		if stale[i].Start.Equal(stale[j].Start) {
			return stale[i].ID < stale[j].ID
		}
		return stale[i].Start.Before(stale[j].Start)
	})
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	for _, row := range stale {
		delete(s.byToken, row.TokenHash)
		delete(s.rows, row.ID)
	}
	return len(stale), nil
}

// Len reports the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
