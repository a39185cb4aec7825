package sqlengine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine/internal/adapters"
)

const (
	operationInsertBorrowRecord    = "insert_borrow_record"
	operationDeleteBorrowRecords   = "delete_borrow_records"
	operationCountBorrowRecords    = "count_borrow_records"
	operationBorrowedBooksForUser  = "borrowed_books_for_user"
	operationUpsertAvailableCopies = "upsert_available_copies"
	operationAdjustTotalCopies     = "adjust_total_copies"
	operationInventoryOf           = "inventory_of"
)

// upsertInventoryStatements hold the single-statement inventory upsert per dialect.
// The increment happens inside the database, so concurrent adjustments never lose updates.
var upsertInventoryStatements = map[string]string{
	DialectPostgres: `INSERT INTO inventory (book_id, available_copies) VALUES ($1, $2)
ON CONFLICT (book_id) DO UPDATE SET available_copies = inventory.available_copies + excluded.available_copies`,
	DialectSQLite: `INSERT INTO inventory (book_id, available_copies) VALUES (?, ?)
ON CONFLICT (book_id) DO UPDATE SET available_copies = inventory.available_copies + excluded.available_copies`,
}

// InsertBorrowRecord records that userID holds a copy of bookID.
func (s Session) InsertBorrowRecord(ctx context.Context, bookID, userID int64, borrowedAt, dueDate time.Time) error {
	return s.store.observe(ctx, operationInsertBorrowRecord, func(ctx context.Context) error {
		insert := s.store.dialect.Insert(tableBorrowedBooks).
			Rows(goqu.Record{
				"book_id":     bookID,
				"user_id":     userID,
				"borrowed_at": borrowedAt.UTC(),
				"due_date":    dueDate.UTC(),
			}).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationInsertBorrowRecord, insert)
		if err != nil {
			return err
		}

		_, err = s.exec(ctx, operationInsertBorrowRecord, sqlQuery, args)

		return err
	})
}

// DeleteBorrowRecords removes every borrow record of userID for bookID and reports how many were removed.
// Removing nothing is not an error.
func (s Session) DeleteBorrowRecords(ctx context.Context, bookID, userID int64) (int64, error) {
	var deleted int64

	err := s.store.observe(ctx, operationDeleteBorrowRecords, func(ctx context.Context) error {
		del := s.store.dialect.Delete(tableBorrowedBooks).
			Where(goqu.C("book_id").Eq(bookID), goqu.C("user_id").Eq(userID)).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationDeleteBorrowRecords, del)
		if err != nil {
			return err
		}

		result, err := s.exec(ctx, operationDeleteBorrowRecords, sqlQuery, args)
		if err != nil {
			return err
		}

		deleted, err = result.RowsAffected()
		if err != nil {
			return err
		}

		s.store.logDebug(ctx, logMsgSQLExecuted+operationDeleteBorrowRecords, logAttrRowsAffected, deleted)

		return nil
	})

	return deleted, err
}

// CountBorrowRecords returns the number of active borrow records of userID for bookID.
func (s Session) CountBorrowRecords(ctx context.Context, bookID, userID int64) (int64, error) {
	var count int64

	err := s.store.observe(ctx, operationCountBorrowRecords, func(ctx context.Context) error {
		ds := s.store.dialect.From(tableBorrowedBooks).
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.C("book_id").Eq(bookID), goqu.C("user_id").Eq(userID)).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationCountBorrowRecords, ds)
		if err != nil {
			return err
		}

		return s.queryRows(ctx, operationCountBorrowRecords, sqlQuery, args, func(rows adapters.DBRows) error {
			return rows.Scan(&count)
		})
	})

	return count, err
}

// BorrowedBooksForUser returns the books userID currently holds, oldest loan first.
func (s Session) BorrowedBooksForUser(ctx context.Context, userID int64) ([]library.BorrowedBook, error) {
	borrowed := make([]library.BorrowedBook, 0)

	err := s.store.observe(ctx, operationBorrowedBooksForUser, func(ctx context.Context) error {
		ds := s.store.dialect.
			From(goqu.T(tableBorrowedBooks).As("bb")).
			Join(goqu.T(tableBooks).As("b"), goqu.On(goqu.I("bb.book_id").Eq(goqu.I("b.id")))).
			LeftJoin(goqu.T(tableBooksAuthors).As("ba"), goqu.On(goqu.I("b.id").Eq(goqu.I("ba.book_id")))).
			LeftJoin(goqu.T(tableAuthors).As("a"), goqu.On(goqu.I("ba.author_id").Eq(goqu.I("a.id")))).
			Select(
				"b.id", "b.title", "b.isbn", "b.total_copies",
				"a.first_name", "a.last_name",
				"bb.borrowed_at", "bb.due_date",
			).
			Where(goqu.I("bb.user_id").Eq(userID)).
			Order(goqu.I("bb.borrowed_at").Asc(), goqu.I("bb.id").Asc(), goqu.I("a.id").Asc()).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationBorrowedBooksForUser, ds)
		if err != nil {
			return err
		}

		return s.queryRows(ctx, operationBorrowedBooksForUser, sqlQuery, args, func(rows adapters.DBRows) error {
			var borrowedAt, dueDate time.Time

			book, scanErr := scanBook(rows, &borrowedAt, &dueDate)
			if scanErr != nil {
				return scanErr
			}

			borrowed = append(borrowed, library.BorrowedBook{
				Book:       book,
				BorrowedAt: normalizeTime(borrowedAt),
				DueDate:    normalizeTime(dueDate),
			})

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return borrowed, nil
}

// UpsertAvailableCopies adds delta to the available copies of bookID.
// A book without an inventory row gets one with available_copies = delta. There is no floor at zero.
func (s Session) UpsertAvailableCopies(ctx context.Context, bookID, delta int64) error {
	return s.store.observe(ctx, operationUpsertAvailableCopies, func(ctx context.Context) error {
		_, err := s.exec(ctx, operationUpsertAvailableCopies, upsertInventoryStatements[s.store.dialectName], []any{bookID, delta})

		return err
	})
}

// AdjustTotalCopies adds delta to the total copies of bookID.
func (s Session) AdjustTotalCopies(ctx context.Context, bookID, delta int64) error {
	return s.store.observe(ctx, operationAdjustTotalCopies, func(ctx context.Context) error {
		update := s.store.dialect.Update(tableBooks).
			Set(goqu.Record{"total_copies": goqu.L("total_copies + ?", delta)}).
			Where(goqu.C("id").Eq(bookID)).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationAdjustTotalCopies, update)
		if err != nil {
			return err
		}

		_, err = s.exec(ctx, operationAdjustTotalCopies, sqlQuery, args)

		return err
	})
}

// InventoryOf returns both copy counters of bookID.
func (s Session) InventoryOf(ctx context.Context, bookID int64) (library.Inventory, error) {
	inventory := library.Inventory{BookID: bookID}

	err := s.store.observe(ctx, operationInventoryOf, func(ctx context.Context) error {
		ds := s.store.dialect.
			From(goqu.T(tableBooks).As("b")).
			LeftJoin(goqu.T(tableInventory).As("i"), goqu.On(goqu.I("b.id").Eq(goqu.I("i.book_id")))).
			Select("b.total_copies", "i.available_copies").
			Where(goqu.I("b.id").Eq(bookID)).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationInventoryOf, ds)
		if err != nil {
			return err
		}

		found := false
		err = s.queryRows(ctx, operationInventoryOf, sqlQuery, args, func(rows adapters.DBRows) error {
			var available *int64
			if scanErr := rows.Scan(&inventory.TotalCopies, &available); scanErr != nil {
				return scanErr
			}

			found = true
			if available != nil {
				inventory.AvailableCopies = *available
				inventory.HasInventoryRow = true
			}

			return nil
		})
		if err != nil {
			return err
		}

		if !found {
			return library.ErrBookNotFound
		}

		return nil
	})

	return inventory, err
}
