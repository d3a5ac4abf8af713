package catalog

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"
)

// MemoryStore is an in-process catalog for dev mode and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	artists []Artist
	songs   []Song
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) CreateArtist(_ context.Context, name string) (Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := Artist{ID: int64(len(s.artists) + 1), Name: name}
	s.artists = append(s.artists, a)
	return a, nil
}

func (s *MemoryStore) CreateSong(_ context.Context, in Song) (Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = int64(len(s.songs) + 1)
	s.songs = append(s.songs, in)
	return in, nil
}

func window[T any](items []T, p Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := min(p.Offset+p.Limit, len(items))
	return items[p.Offset:end]
}

func (s *MemoryStore) ListArtists(_ context.Context, p Page) ([]Artist, error) {
	s.mu.RLock()
	sorted := slices.Clone(s.artists)
	s.mu.RUnlock()

	slices.SortStableFunc(sorted, func(a, b Artist) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return window(sorted, p), nil
}

func (s *MemoryStore) FindArtist(_ context.Context, nameOrID string) (Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.artists {
		if a.Name == nameOrID {
			return a, nil
		}
	}
	if id, err := strconv.ParseInt(nameOrID, 10, 64); err == nil {
		for _, a := range s.artists {
			if a.ID == id {
				return a, nil
			}
		}
	}
	return Artist{}, ErrNotFound
}

func (s *MemoryStore) ListSongs(_ context.Context, p Page) ([]Song, error) {
	s.mu.RLock()
	sorted := slices.Clone(s.songs)
	s.mu.RUnlock()

	slices.SortStableFunc(sorted, func(a, b Song) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return window(sorted, p), nil
}

func (s *MemoryStore) GetSong(_ context.Context, id int64) (Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, song := range s.songs {
		if song.ID == id {
			return song, nil
		}
	}
	return Song{}, ErrNotFound
}
