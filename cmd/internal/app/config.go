package app

import "time"

// Session storage backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL   string
	DBSchema      string
	DBMaxConns    int32
	DBMinConns    int32
	DBAutoMigrate bool

	// SessionBackend is postgres, redis or memory. Empty picks postgres
	// when a database is configured and memory otherwise.
	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string

	// If true, /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// If true, BOMBAY_TOKEN_HMAC_KEY must be set (>= 32 bytes) and stored
	// session tokens are HMAC digests.
	RequireTokenHMAC bool

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	MetricsEnabled bool

	// Dev mode seeding; ignored when DevUser is empty.
	DevUser     string
	DevPassword string
	DevCatalog  bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("BOMBAY_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("BOMBAY_LOG_LEVEL", "info"),
		LogFormat: EnvString("BOMBAY_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("BOMBAY_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("BOMBAY_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("BOMBAY_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("BOMBAY_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("BOMBAY_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL:   EnvString("BOMBAY_DATABASE_URL", ""),
		DBSchema:      EnvString("BOMBAY_DB_SCHEMA", "bombay"),
		DBMaxConns:    EnvInt32("BOMBAY_DB_MAX_CONNS", 10),
		DBMinConns:    EnvInt32("BOMBAY_DB_MIN_CONNS", 0),
		DBAutoMigrate: EnvBool("BOMBAY_DB_AUTO_MIGRATE", false),

		SessionBackend: EnvString("BOMBAY_SESSION_BACKEND", ""),
		RedisAddr:      EnvString("BOMBAY_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  EnvString("BOMBAY_REDIS_PASSWORD", ""),
		RedisDB:        EnvInt("BOMBAY_REDIS_DB", 0),
		RedisPrefix:    EnvString("BOMBAY_REDIS_PREFIX", "bombay:sess"),

		ReadinessRequireDB: EnvBool("BOMBAY_READINESS_REQUIRE_DB", false),

		RequireTokenHMAC: EnvBool("BOMBAY_REQUIRE_TOKEN_HMAC", false),

		CORSAllowedOrigins:   EnvCSV("BOMBAY_CORS_ALLOWED_ORIGINS"),
		CORSAllowCredentials: EnvBool("BOMBAY_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("BOMBAY_CORS_MAX_AGE_SECONDS", 600),

		MetricsEnabled: EnvBool("BOMBAY_METRICS_ENABLED", true),

		DevUser:     EnvString("BOMBAY_DEV_USER", ""),
		DevPassword: EnvString("BOMBAY_DEV_PASSWORD", ""),
		DevCatalog:  EnvBool("BOMBAY_DEV_CATALOG", true),
	}
}
