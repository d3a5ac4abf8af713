package app

import (
	"context"

	"bombay/cmd/identity"
	"bombay/cmd/internal/catalog"
)

// seedDev creates the configured dev account and, for the in-memory
// catalog, a handful of songs so a fresh process has something to serve.
func seedDev(ctx context.Context, cfg Config, st *stores, log Logger) error {
	if cfg.DevUser != "" {
		u, err := st.seeder.CreateUser(ctx, identity.CreateUserInput{
			Name:     cfg.DevUser,
			FullName: cfg.DevUser,
			Password: cfg.DevPassword,
			Admin:    true,
		})
		switch {
		case identity.IsConflict(err):
			log.Info("dev.user.exists", "name", cfg.DevUser)
		case err != nil:
			return err
		default:
			log.Info("dev.user.created", "name", u.Name, "id", u.ID)
		}
	}

	mem, ok := st.catalog.(*catalog.MemoryStore)
	if !ok || !cfg.DevCatalog {
		return nil
	}
	return seedCatalog(ctx, mem)
}

func seedCatalog(ctx context.Context, s catalogSeeder) error {
	sample := []struct {
		artist string
		songs  []catalog.Song
	}{
		{"Bill Evans", []catalog.Song{
			{Name: "Waltz for Debby", KeySignature: "F", Tempo: 132},
			{Name: "Peace Piece", KeySignature: "C", Tempo: 60},
		}},
		{"Nina Simone", []catalog.Song{
			{Name: "Feeling Good", KeySignature: "Gm", Tempo: 70},
		}},
	}
	for _, a := range sample {
		artist, err := s.CreateArtist(ctx, a.artist)
		if err != nil {
			return err
		}
		for _, song := range a.songs {
			song.ArtistID = &artist.ID
			if _, err := s.CreateSong(ctx, song); err != nil {
				return err
			}
		}
	}
	return nil
}
