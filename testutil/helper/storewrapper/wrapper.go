package storewrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tpg "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

const (
	envAdapterType    = "ADAPTER_TYPE"
	envTestDSN        = "LIBRARY_TEST_DSN"
	envTestContainers = "LIBRARY_TEST_CONTAINERS"
)

const postgresTables = "borrowed_books, inventory, books_authors, authors, users, books"

// sqlite has no TRUNCATE; children go first because foreign keys are enforced.
var sqliteTables = []string{"borrowed_books", "inventory", "books_authors", "authors", "users", "books"}

// Wrapper abstracts over the different database handles a Store can be built from.
type Wrapper interface {
	Store() sqlengine.Store
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	store sqlengine.Store
}

func (w *PGXPoolWrapper) Store() sqlengine.Store { return w.store }

func (w *PGXPoolWrapper) Close() { w.pool.Close() }

// SQLDBWrapper wraps database/sql testing on PostgreSQL.
type SQLDBWrapper struct {
	db    *sql.DB
	store sqlengine.Store
}

func (w *SQLDBWrapper) Store() sqlengine.Store { return w.store }

func (w *SQLDBWrapper) Close() { _ = w.db.Close() }

// SQLXWrapper wraps sqlx testing on PostgreSQL.
type SQLXWrapper struct {
	db    *sqlx.DB
	store sqlengine.Store
}

func (w *SQLXWrapper) Store() sqlengine.Store { return w.store }

func (w *SQLXWrapper) Close() { _ = w.db.Close() }

// SQLiteWrapper wraps a throwaway SQLite file.
type SQLiteWrapper struct {
	db    *sql.DB
	store sqlengine.Store
}

func (w *SQLiteWrapper) Store() sqlengine.Store { return w.store }

func (w *SQLiteWrapper) Close() { _ = w.db.Close() }

// CreateWrapperWithTestConfig creates the wrapper selected by ADAPTER_TYPE, migrates the schema and
// registers Close with t.Cleanup. SQLite in a temporary directory is the default, so tests run without
// any external database.
func CreateWrapperWithTestConfig(t testing.TB, options ...sqlengine.Option) Wrapper {
	t.Helper()

	ctx := context.Background()
	adapterType := strings.ToLower(os.Getenv(envAdapterType))

	var wrapper Wrapper

	switch adapterType {
	case config.DriverSQLite, "":
		cfg := testConfig(config.DriverSQLite, filepath.Join(t.TempDir(), "library.db"))
		db, err := config.NewSQLiteDB(ctx, cfg)
		require.NoError(t, err, "error opening sqlite in test setup")

		store, err := sqlengine.NewStoreFromSQLDB(db, append(options, sqlengine.WithDialect(sqlengine.DialectSQLite))...)
		require.NoError(t, err)

		wrapper = &SQLiteWrapper{db: db, store: store}

	case config.DriverPGXPool:
		pool, err := config.NewPGXPool(ctx, testConfig(adapterType, postgresDSN(t)))
		require.NoError(t, err, "error connecting to DB pool in test setup")

		store, err := sqlengine.NewStoreFromPGXPool(pool, options...)
		require.NoError(t, err)

		wrapper = &PGXPoolWrapper{pool: pool, store: store}

	case config.DriverSQLDB:
		db, err := config.NewPostgresSQLDB(ctx, testConfig(adapterType, postgresDSN(t)))
		require.NoError(t, err, "error connecting to DB in test setup")

		store, err := sqlengine.NewStoreFromSQLDB(db, options...)
		require.NoError(t, err)

		wrapper = &SQLDBWrapper{db: db, store: store}

	case config.DriverSQLXDB:
		db, err := config.NewPostgresSQLX(ctx, testConfig(adapterType, postgresDSN(t)))
		require.NoError(t, err, "error connecting to DB in test setup")

		store, err := sqlengine.NewStoreFromSQLX(db, options...)
		require.NoError(t, err)

		wrapper = &SQLXWrapper{db: db, store: store}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}

	require.NoError(t, wrapper.Store().Migrate(ctx), "error migrating schema in test setup")
	CleanUp(t, wrapper)
	t.Cleanup(wrapper.Close)

	return wrapper
}

// CleanUp empties every table and resets the id sequences where the database supports it.
func CleanUp(t testing.TB, wrapper Wrapper) {
	t.Helper()

	ctx := context.Background()
	truncate := "TRUNCATE TABLE " + postgresTables + " RESTART IDENTITY CASCADE"

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err := w.pool.Exec(ctx, truncate)
		require.NoError(t, err, "error cleaning up the tables")

	case *SQLDBWrapper:
		_, err := w.db.ExecContext(ctx, truncate)
		require.NoError(t, err, "error cleaning up the tables")

	case *SQLXWrapper:
		_, err := w.db.ExecContext(ctx, truncate)
		require.NoError(t, err, "error cleaning up the tables")

	case *SQLiteWrapper:
		for _, table := range sqliteTables {
			_, err := w.db.ExecContext(ctx, "DELETE FROM "+table)
			require.NoError(t, err, "error cleaning up table %s", table)
		}

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}
}

func testConfig(driver, dsn string) config.Config {
	return config.Config{
		DBDriver:         driver,
		DBDSN:            dsn,
		DBMinConns:       1,
		DBMaxConns:       10,
		DBQueryTimeout:   5 * time.Second,
		DBAcquireTimeout: 3 * time.Second,
	}
}

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// postgresDSN returns LIBRARY_TEST_DSN, or the DSN of a throwaway container when LIBRARY_TEST_CONTAINERS
// is true, or the local development DSN. The container is shared by all tests of one test binary and
// removed by the testcontainers reaper when the binary exits.
func postgresDSN(t testing.TB) string {
	t.Helper()

	if dsn := os.Getenv(envTestDSN); dsn != "" {
		return dsn
	}

	if strings.EqualFold(os.Getenv(envTestContainers), "true") {
		containerOnce.Do(func() {
			containerDSN, containerErr = startPostgresContainer(context.Background())
		})
		require.NoError(t, containerErr, "failed to start postgres container")

		return containerDSN
	}

	return config.DefaultPostgresDSN()
}

func startPostgresContainer(ctx context.Context) (string, error) {
	pgc, err := tpg.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tpg.WithDatabase("library"),
		tpg.WithUsername("test"),
		tpg.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", err
	}

	return pgc.ConnectionString(ctx, "sslmode=disable")
}
