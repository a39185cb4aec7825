package helper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

var uniqueCounter atomic.Int64

// FixedClock returns a deterministic point in time with microsecond precision, so it survives a round trip
// through every supported database unchanged.
func FixedClock() time.Time {
	return time.Date(2025, time.March, 14, 9, 26, 53, 589_793_000, time.UTC)
}

// UniqueSuffix returns a short suffix that is unique within the test binary.
func UniqueSuffix() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), uniqueCounter.Add(1))
}

// GivenBook describes a book to be arranged. An empty AuthorLastName and AuthorFirstName stores the book
// without an author. Copies seeds both total_copies and the inventory row; a zero value stores no inventory row.
type GivenBook struct {
	Title           string
	ISBN            string
	AuthorFirstName string
	AuthorLastName  string
	Copies          int64
}

// GivenBookWasAdded stores book and returns its id.
func GivenBookWasAdded(t testing.TB, ctx context.Context, store sqlengine.Store, book GivenBook) int64 {
	t.Helper()

	if book.ISBN == "" {
		book.ISBN = "978-" + UniqueSuffix()
	}

	var bookID int64

	err := store.WithinTransaction(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		if bookID, err = session.InsertBook(ctx, book.Title, book.ISBN, book.Copies); err != nil {
			return err
		}

		if book.AuthorFirstName != "" || book.AuthorLastName != "" {
			authorID, err := session.FindOrCreateAuthor(ctx, book.AuthorFirstName, book.AuthorLastName)
			if err != nil {
				return err
			}

			if err = session.LinkBookAuthor(ctx, bookID, authorID); err != nil {
				return err
			}
		}

		if book.Copies > 0 {
			return session.UpsertAvailableCopies(ctx, bookID, book.Copies)
		}

		return nil
	})
	require.NoError(t, err, "error in arranging test data")

	return bookID
}

// GivenUserWasRegistered stores a user with the given email and returns its id.
func GivenUserWasRegistered(t testing.TB, ctx context.Context, store sqlengine.Store, email string) int64 {
	t.Helper()

	var userID int64

	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		userID, err = session.InsertUser(ctx, sqlengine.NewUser{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     email,
			PassHash:  "not-a-real-hash",
			CreatedAt: FixedClock(),
		})

		return err
	})
	require.NoError(t, err, "error in arranging test data")

	return userID
}

// GivenBookWasBorrowed stores a borrow record and takes one copy out of the inventory.
func GivenBookWasBorrowed(t testing.TB, ctx context.Context, store sqlengine.Store, bookID, userID int64, at time.Time) {
	t.Helper()

	err := store.WithinTransaction(ctx, func(ctx context.Context, session sqlengine.Session) error {
		if err := session.InsertBorrowRecord(ctx, bookID, userID, at, at.Add(10*24*time.Hour)); err != nil {
			return err
		}

		return session.UpsertAvailableCopies(ctx, bookID, -1)
	})
	require.NoError(t, err, "error in arranging test data")
}

// InventoryOf reads both copy counters of bookID.
func InventoryOf(t testing.TB, ctx context.Context, store sqlengine.Store, bookID int64) (total, available int64) {
	t.Helper()

	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		inventory, err := session.InventoryOf(ctx, bookID)
		total, available = inventory.TotalCopies, inventory.AvailableCopies

		return err
	})
	require.NoError(t, err, "error in asserting test data")

	return total, available
}

// BorrowRecordCount counts the borrow records of userID for bookID.
func BorrowRecordCount(t testing.TB, ctx context.Context, store sqlengine.Store, bookID, userID int64) int64 {
	t.Helper()

	var count int64

	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		count, err = session.CountBorrowRecords(ctx, bookID, userID)

		return err
	})
	require.NoError(t, err, "error in asserting test data")

	return count
}
