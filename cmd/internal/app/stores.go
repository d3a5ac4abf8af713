package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"bombay/cmd/identity"
	"bombay/cmd/internal/auth/session"
	"bombay/cmd/internal/catalog"
	"bombay/cmd/security/password"
)

// ErrBackend reports an unusable session backend selection.
var ErrBackend = errors.New("app: invalid session backend")

// stores bundles the persistence chosen for one process. Closing releases
// whatever connections the app owns.
type stores struct {
	pool    *pgxpool.Pool
	redis   *redis.Client
	users   session.Users
	seeder  userSeeder
	session session.Store
	catalog catalog.Store
	backend string
}

type userSeeder interface {
	CreateUser(ctx context.Context, in identity.CreateUserInput) (identity.User, error)
}

type catalogSeeder interface {
	CreateArtist(ctx context.Context, name string) (catalog.Artist, error)
	CreateSong(ctx context.Context, in catalog.Song) (catalog.Song, error)
}

func (s *stores) dbEnabled() bool { return s.pool != nil }

func (s *stores) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

func resolveBackend(cfg Config) (string, error) {
	b := strings.ToLower(strings.TrimSpace(cfg.SessionBackend))
	switch b {
	case "":
		if cfg.DatabaseURL != "" {
			return BackendPostgres, nil
		}
		return BackendMemory, nil
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return "", fmt.Errorf("%w: postgres sessions need BOMBAY_DATABASE_URL", ErrBackend)
		}
		return b, nil
	case BackendRedis, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBackend, cfg.SessionBackend)
	}
}

// openStores decides between Postgres-backed persistence and in-memory dev
// stores, then picks the session backend on top.
func openStores(ctx context.Context, cfg Config, pw password.Config, log Logger) (*stores, error) {
	backend, err := resolveBackend(cfg)
	if err != nil {
		return nil, err
	}
	st := &stores{backend: backend}

	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		users := identity.NewMemoryStore(pw)
		st.users, st.seeder = users, users
		st.catalog = catalog.NewMemoryStore()
	} else {
		pool, err := NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		st.pool = pool
		log.Info("db.enabled.postgres_store", "schema", cfg.DBSchema, "migrated", cfg.DBAutoMigrate)

		users, err := identity.NewPostgresStore(pool, identity.WithSchema(cfg.DBSchema), identity.WithPasswordConfig(pw))
		if err != nil {
			st.Close()
			return nil, err
		}
		st.users, st.seeder = users, users

		cat, err := catalog.NewPostgresStore(pool, cfg.DBSchema)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.catalog = cat
	}

	switch backend {
	case BackendPostgres:
		st.session, err = session.NewPostgresStore(st.pool, cfg.DBSchema)
	case BackendRedis:
		st.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = st.redis.Ping(pctx).Err()
		cancel()
		if err == nil {
			st.session = session.NewRedisStore(st.redis, cfg.RedisPrefix)
		}
	default:
		st.session = session.NewMemoryStore()
	}
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("app: session backend %s: %w", backend, err)
	}

	log.Info("session.backend", "backend", backend)
	return st, nil
}
