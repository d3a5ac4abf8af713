package catalog

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

// ErrNotFound is returned for missing artists or songs.
var ErrNotFound = errors.New("catalog: not found")

// ErrBadPage is returned for malformed offset/limit parameters.
var ErrBadPage = errors.New("catalog: bad page")

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page selects a window of a name-ordered listing.
type Page struct {
	Offset int
	Limit  int
}

// ParsePage reads offset (default 0) and limit (default 10, capped at 100).
func ParsePage(q url.Values) (Page, error) {
	p := Page{Limit: DefaultLimit}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Page{}, ErrBadPage
		}
		p.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Page{}, ErrBadPage
		}
		p.Limit = min(n, MaxLimit)
	}
	return p, nil
}

// Store is the catalog read model. Listings are ordered by name.
type Store interface {
	ListArtists(ctx context.Context, p Page) ([]Artist, error)
	// FindArtist matches an exact name first, then a numeric id.
	FindArtist(ctx context.Context, nameOrID string) (Artist, error)
	ListSongs(ctx context.Context, p Page) ([]Song, error)
	GetSong(ctx context.Context, id int64) (Song, error)
}
