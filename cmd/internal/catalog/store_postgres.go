package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bombay/cmd/internal/pgschema"
)

// PostgresStore reads the catalog from <schema>.artist and <schema>.song.
type PostgresStore struct {
	pool    *pgxpool.Pool
	artists string
	songs   string
}

// NewPostgresStore builds a catalog store in schema.
func NewPostgresStore(pool *pgxpool.Pool, schema string) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("catalog: nil pool")
	}
	schema, err := pgschema.Normalize(schema)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{
		pool:    pool,
		artists: pgschema.Table(schema, "artist"),
		songs:   pgschema.Table(schema, "song"),
	}, nil
}

func (s *PostgresStore) ListArtists(ctx context.Context, p Page) ([]Artist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name FROM `+s.artists+`
		ORDER BY name, id
		OFFSET $1 LIMIT $2
	`, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Artist])
}

func (s *PostgresStore) FindArtist(ctx context.Context, nameOrID string) (Artist, error) {
	var a Artist
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM `+s.artists+` WHERE name = $1 ORDER BY id LIMIT 1`, nameOrID).
		Scan(&a.ID, &a.Name)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Artist{}, err
	}

	id, convErr := strconv.ParseInt(nameOrID, 10, 64)
	if convErr != nil {
		return Artist{}, ErrNotFound
	}
	err = s.pool.QueryRow(ctx, `SELECT id, name FROM `+s.artists+` WHERE id = $1`, id).Scan(&a.ID, &a.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Artist{}, ErrNotFound
	}
	return a, err
}

func (s *PostgresStore) ListSongs(ctx context.Context, p Page) ([]Song, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, artist_id, key_signature, tempo, lyrics FROM `+s.songs+`
		ORDER BY name, id
		OFFSET $1 LIMIT $2
	`, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Song])
}

func (s *PostgresStore) GetSong(ctx context.Context, id int64) (Song, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, artist_id, key_signature, tempo, lyrics FROM `+s.songs+`
		WHERE id = $1
	`, id)
	if err != nil {
		return Song{}, err
	}
	song, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Song])
	if errors.Is(err, pgx.ErrNoRows) {
		return Song{}, ErrNotFound
	}
	return song, err
}

// CreateArtist inserts an artist. Used for seeding; the HTTP surface is read-only.
func (s *PostgresStore) CreateArtist(ctx context.Context, name string) (Artist, error) {
	a := Artist{Name: name}
	err := s.pool.QueryRow(ctx, `INSERT INTO `+s.artists+` (name) VALUES ($1) RETURNING id`, name).Scan(&a.ID)
	return a, err
}

// CreateSong inserts a song. Used for seeding; the HTTP surface is read-only.
func (s *PostgresStore) CreateSong(ctx context.Context, in Song) (Song, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO `+s.songs+` (name, artist_id, key_signature, tempo, lyrics)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, in.Name, in.ArtistID, in.KeySignature, in.Tempo, in.Lyrics).Scan(&in.ID)
	return in, err
}
