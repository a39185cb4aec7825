package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database driver identifiers, shared with the ADAPTER_TYPE values used by tests.
const (
	DriverPGXPool = "pgx.pool"
	DriverSQLDB   = "sql.db"
	DriverSQLXDB  = "sqlx.db"
	DriverSQLite  = "sqlite"
)

// Password hashing schemes.
const (
	PasswordHashSHA256 = "sha256"
	PasswordHashBcrypt = "bcrypt"
)

// Log formats.
const (
	LogFormatJSON    = "json"
	LogFormatText    = "text"
	LogFormatConsole = "console"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete runtime configuration of the library API.
type Config struct {
	HTTPAddr          string
	DBDriver          string
	DBDSN             string
	DBMinConns        int32
	DBMaxConns        int32
	DBQueryTimeout    time.Duration
	DBAcquireTimeout  time.Duration
	AdjustTotalCopies bool
	TitleCacheSize    int
	PasswordHash      string
	AMQPURL           string
	AMQPExchange      string
	CORSOrigins       []string
	LogFormat         string
	LogLevel          string
	OTelEnabled       bool
	ShutdownGrace     time.Duration
}

// Load reads envFile (when it exists) into the process environment and then builds the Config.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Join(ErrInvalidConfig, err)
		}
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds the Config from a lookup function, usually os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	r := reader{getenv: getenv}

	driver := strings.ToLower(r.str("LIBRARY_DB_DRIVER", DriverPGXPool))

	defaultDSN := DefaultPostgresDSN()
	if driver == DriverSQLite {
		defaultDSN = DefaultSQLitePath()
	}

	cfg := Config{
		HTTPAddr:          r.str("LIBRARY_HTTP_ADDR", ":3000"),
		DBDriver:          driver,
		DBDSN:             r.str("LIBRARY_DB_DSN", defaultDSN),
		DBMinConns:        r.int32("LIBRARY_DB_MIN_CONNS", 2),
		DBMaxConns:        r.int32("LIBRARY_DB_MAX_CONNS", 10),
		DBQueryTimeout:    r.duration("LIBRARY_DB_QUERY_TIMEOUT", 5*time.Second),
		DBAcquireTimeout:  r.duration("LIBRARY_DB_ACQUIRE_TIMEOUT", 3*time.Second),
		AdjustTotalCopies: r.boolean("LIBRARY_ADJUST_TOTAL_COPIES", true),
		TitleCacheSize:    int(r.int32("LIBRARY_TITLE_CACHE_SIZE", 1024)),
		PasswordHash:      strings.ToLower(r.str("LIBRARY_PASSWORD_HASH", PasswordHashSHA256)),
		AMQPURL:           r.str("LIBRARY_AMQP_URL", ""),
		AMQPExchange:      r.str("LIBRARY_AMQP_EXCHANGE", "library.events"),
		CORSOrigins:       r.list("LIBRARY_CORS_ORIGINS", []string{"*"}),
		LogFormat:         strings.ToLower(r.str("LIBRARY_LOG_FORMAT", LogFormatJSON)),
		LogLevel:          strings.ToLower(r.str("LIBRARY_LOG_LEVEL", "info")),
		OTelEnabled:       r.boolean("LIBRARY_OTEL_ENABLED", false),
		ShutdownGrace:     r.duration("LIBRARY_SHUTDOWN_GRACE", 10*time.Second),
	}

	if r.err != nil {
		return Config{}, r.err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverPGXPool, DriverSQLDB, DriverSQLXDB, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("LIBRARY_DB_DRIVER: unsupported driver %q", c.DBDriver))
	}

	if c.DBMinConns < 0 || c.DBMaxConns < 1 || c.DBMinConns > c.DBMaxConns {
		errs = append(errs, fmt.Errorf("pool bounds: min %d, max %d", c.DBMinConns, c.DBMaxConns))
	}

	if c.TitleCacheSize < 0 {
		errs = append(errs, errors.New("LIBRARY_TITLE_CACHE_SIZE: must not be negative"))
	}

	switch c.PasswordHash {
	case PasswordHashSHA256, PasswordHashBcrypt:
	default:
		errs = append(errs, fmt.Errorf("LIBRARY_PASSWORD_HASH: unsupported scheme %q", c.PasswordHash))
	}

	switch c.LogFormat {
	case LogFormatJSON, LogFormatText, LogFormatConsole:
	default:
		errs = append(errs, fmt.Errorf("LIBRARY_LOG_FORMAT: unsupported format %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return nil
}

type reader struct {
	getenv func(string) string
	err    error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}

	return def
}

func (r *reader) int32(key string, def int32) int32 {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}

	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		r.fail(key, err)
		return def
	}

	return int32(v)
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, err)
		return def
	}

	return v
}

func (r *reader) boolean(key string, def bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(key, err)
		return def
	}

	return v
}

func (r *reader) list(key string, def []string) []string {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func (r *reader) fail(key string, err error) {
	r.err = errors.Join(r.err, ErrInvalidConfig, fmt.Errorf("%s: %w", key, err))
}
