package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"bombay/cmd/internal/pgschema/pgtest"
)

func TestPostgresStore(t *testing.T) {
	pool := pgtest.Open(t)
	schema := pgtest.Schema(t, pool)

	s, err := NewPostgresStore(pool, schema)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var evans Artist
	for _, n := range []string{"Nina Simone", "Bill Evans", "Miles Davis"} {
		a, err := s.CreateArtist(ctx, n)
		if err != nil {
			t.Fatalf("CreateArtist: %v", err)
		}
		if n == "Bill Evans" {
			evans = a
		}
	}
	song, err := s.CreateSong(ctx, Song{Name: "Peace Piece", ArtistID: &evans.ID, KeySignature: "C", Tempo: 60})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}
	if _, err := s.CreateSong(ctx, Song{Name: "Anonymous"}); err != nil {
		t.Fatalf("CreateSong without artist: %v", err)
	}

	artists, err := s.ListArtists(ctx, Page{Offset: 0, Limit: 2})
	if err != nil {
		t.Fatalf("ListArtists: %v", err)
	}
	if len(artists) != 2 || artists[0].Name != "Bill Evans" || artists[1].Name != "Miles Davis" {
		t.Fatalf("artists = %+v", artists)
	}

	if a, err := s.FindArtist(ctx, "Nina Simone"); err != nil || a.Name != "Nina Simone" {
		t.Fatalf("FindArtist by name = %+v, %v", a, err)
	}
	if _, err := s.FindArtist(ctx, "-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindArtist missing err = %v", err)
	}

	got, err := s.GetSong(ctx, song.ID)
	if err != nil || got.ArtistID == nil || *got.ArtistID != evans.ID || got.Tempo != 60 {
		t.Fatalf("GetSong = %+v, %v", got, err)
	}
	if _, err := s.GetSong(ctx, song.ID+1000); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSong missing err = %v", err)
	}

	songs, err := s.ListSongs(ctx, Page{Limit: 10})
	if err != nil || len(songs) != 2 || songs[0].Name != "Anonymous" || songs[0].ArtistID != nil {
		t.Fatalf("songs = %+v, %v", songs, err)
	}
}
