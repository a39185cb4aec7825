package sqlengine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper/storewrapper"
)

func Test_NewStore_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (sqlengine.Store, error)
	}{
		{
			name:        "NewStoreFromPGXPool with nil",
			factoryFunc: func() (sqlengine.Store, error) { return sqlengine.NewStoreFromPGXPool(nil) },
		},
		{
			name:        "NewStoreFromSQLDB with nil",
			factoryFunc: func() (sqlengine.Store, error) { return sqlengine.NewStoreFromSQLDB(nil) },
		},
		{
			name:        "NewStoreFromSQLX with nil",
			factoryFunc: func() (sqlengine.Store, error) { return sqlengine.NewStoreFromSQLX(nil) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorIs(t, err, library.ErrNilDatabaseConnection)
		})
	}
}

func Test_Migrate_IsIdempotent(t *testing.T) {
	// setup
	store := CreateWrapperWithTestConfig(t).Store()

	// act
	err := store.Migrate(context.Background())

	// assert
	assert.NoError(t, err)
}

func Test_Ping_Succeeds(t *testing.T) {
	store := CreateWrapperWithTestConfig(t).Store()

	assert.NoError(t, store.Ping(context.Background()))
}

func Test_WithinTransaction_CommitsOnSuccess(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// act
	var bookID int64
	err := store.WithinTransaction(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		bookID, err = session.InsertBook(ctx, "Dune", "978-0441013593", 2)

		return err
	})

	// assert
	require.NoError(t, err)
	total, _ := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(2), total)
}

func Test_WithinTransaction_RollsBackOnError(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	errBoom := errors.New("boom")

	// act
	err := store.WithinTransaction(ctx, func(ctx context.Context, session sqlengine.Session) error {
		if _, err := session.InsertBook(ctx, "Dune", "978-0441013593", 2); err != nil {
			return err
		}

		return errBoom
	})

	// assert
	assert.ErrorIs(t, err, errBoom)
	assertNoBooks(t, ctx, store)
	assert.Zero(t, store.PoolStats().AcquiredConns, "connection should be released after rollback")
}

func Test_WithinTransaction_RollsBackOnPanic(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// act
	assert.Panics(t, func() {
		_ = store.WithinTransaction(ctx, func(ctx context.Context, session sqlengine.Session) error {
			if _, err := session.InsertBook(ctx, "Dune", "978-0441013593", 2); err != nil {
				return err
			}

			panic("unexpected")
		})
	})

	// assert
	assertNoBooks(t, ctx, store)
	assert.Zero(t, store.PoolStats().AcquiredConns, "connection should be released after a panic")
}

func Test_WithSession_ReleasesConnection(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// act
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		assert.Equal(t, int64(1), store.PoolStats().AcquiredConns)

		_, err := session.ListBooks(ctx)

		return err
	})

	// assert
	require.NoError(t, err)
	assert.Zero(t, store.PoolStats().AcquiredConns)
}

func Test_WithSession_ShouldFail_WhenPoolIsExhausted(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t, sqlengine.WithAcquireTimeout(100*time.Millisecond)).Store()
	maxConns := store.PoolStats().MaxConns
	require.Positive(t, maxConns)

	// arrange
	var hold func(n int64) error
	hold = func(n int64) error {
		if n == 0 {
			return store.WithSession(ctx, func(context.Context, sqlengine.Session) error { return nil })
		}

		return store.WithSession(ctx, func(context.Context, sqlengine.Session) error {
			return hold(n - 1)
		})
	}

	// act
	err := hold(maxConns)

	// assert
	assert.ErrorIs(t, err, library.ErrAcquireConnection)
	assert.Equal(t, library.KindPoolExhaustion, library.KindOf(err))
	assert.Zero(t, store.PoolStats().AcquiredConns, "held connections should all be released")
}

func assertNoBooks(t *testing.T, ctx context.Context, store sqlengine.Store) {
	t.Helper()

	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		books, err := session.ListBooks(ctx)
		assert.Empty(t, books)

		return err
	})
	require.NoError(t, err)
}
