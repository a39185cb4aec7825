package sqlengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper/storewrapper"
)

func Test_UpsertAvailableCopies(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune"})

	upsert := func(delta int64) {
		err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
			return session.UpsertAvailableCopies(ctx, bookID, delta)
		})
		require.NoError(t, err)
	}

	inventory := func() library.Inventory {
		var inv library.Inventory
		err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
			var err error
			inv, err = session.InventoryOf(ctx, bookID)

			return err
		})
		require.NoError(t, err)

		return inv
	}

	assert.False(t, inventory().HasInventoryRow)

	// act + assert
	upsert(-1)
	assert.Equal(t, int64(-1), inventory().AvailableCopies, "a missing row should be created with the delta")
	assert.True(t, inventory().HasInventoryRow)

	upsert(3)
	assert.Equal(t, int64(2), inventory().AvailableCopies, "an existing row should be incremented")

	upsert(-5)
	assert.Equal(t, int64(-3), inventory().AvailableCopies, "available copies should not be floored at zero")
}

func Test_AdjustTotalCopies(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 4})

	// act
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		return session.AdjustTotalCopies(ctx, bookID, -1)
	})

	// assert
	require.NoError(t, err)
	total, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(4), available, "available copies should be left alone")
}

func Test_InventoryOf_ShouldFail_ForUnknownBook(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// act
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		_, err := session.InventoryOf(ctx, 4711)
		return err
	})

	// assert
	assert.ErrorIs(t, err, library.ErrBookNotFound)
}

func Test_DeleteBorrowRecords_RemovesAllMatchingRows(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 3})
	otherBookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Emma", Copies: 1})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.org")
	otherUserID := GivenUserWasRegistered(t, ctx, store, "grace@example.org")

	GivenBookWasBorrowed(t, ctx, store, bookID, userID, FixedClock())
	GivenBookWasBorrowed(t, ctx, store, bookID, userID, FixedClock().Add(time.Minute))
	GivenBookWasBorrowed(t, ctx, store, bookID, otherUserID, FixedClock())
	GivenBookWasBorrowed(t, ctx, store, otherBookID, userID, FixedClock())

	// act
	var deleted int64
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		deleted, err = session.DeleteBorrowRecords(ctx, bookID, userID)

		return err
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Zero(t, BorrowRecordCount(t, ctx, store, bookID, userID))
	assert.Equal(t, int64(1), BorrowRecordCount(t, ctx, store, bookID, otherUserID))
	assert.Equal(t, int64(1), BorrowRecordCount(t, ctx, store, otherBookID, userID))
}

func Test_DeleteBorrowRecords_WithoutMatchIsNoError(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 1})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.org")

	// act
	var deleted int64
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		deleted, err = session.DeleteBorrowRecords(ctx, bookID, userID)

		return err
	})

	// assert
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func Test_BorrowedBooksForUser(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// arrange
	duneID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", AuthorFirstName: "Frank", AuthorLastName: "Herbert", Copies: 2})
	emmaID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Emma", Copies: 1})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.org")
	otherUserID := GivenUserWasRegistered(t, ctx, store, "grace@example.org")

	later := FixedClock().Add(time.Hour)
	GivenBookWasBorrowed(t, ctx, store, emmaID, userID, later)
	GivenBookWasBorrowed(t, ctx, store, duneID, userID, FixedClock())
	GivenBookWasBorrowed(t, ctx, store, duneID, otherUserID, FixedClock())

	// act
	var borrowed []library.BorrowedBook
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		borrowed, err = session.BorrowedBooksForUser(ctx, userID)

		return err
	})

	// assert
	require.NoError(t, err)
	require.Len(t, borrowed, 2)

	assert.Equal(t, duneID, borrowed[0].ID, "the oldest loan should come first")
	assert.Equal(t, "Herbert Frank", *borrowed[0].Author)
	assert.True(t, FixedClock().Equal(borrowed[0].BorrowedAt), "borrowed_at should round-trip: %s", borrowed[0].BorrowedAt)
	assert.True(t, FixedClock().Add(10*24*time.Hour).Equal(borrowed[0].DueDate))
	assert.Equal(t, time.UTC, borrowed[0].BorrowedAt.Location())

	assert.Equal(t, emmaID, borrowed[1].ID)
	assert.Nil(t, borrowed[1].Author)
}

func Test_BorrowedBooksForUser_EmptyForUnknownUser(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// act
	var borrowed []library.BorrowedBook
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		borrowed, err = session.BorrowedBooksForUser(ctx, 4711)

		return err
	})

	// assert
	require.NoError(t, err)
	assert.NotNil(t, borrowed)
	assert.Empty(t, borrowed)
}

func Test_InsertBorrowRecord_ShouldFail_ForUnknownBook(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// arrange
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.org")

	// act
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		return session.InsertBorrowRecord(ctx, 4711, userID, FixedClock(), FixedClock())
	})

	// assert
	assert.ErrorIs(t, err, library.ErrDatabaseQuery)
	assert.Equal(t, library.KindDatabase, library.KindOf(err))
}
