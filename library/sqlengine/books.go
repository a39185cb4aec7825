package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine/internal/adapters"
)

const (
	operationListBooks          = "list_books"
	operationBooksByField       = "books_by_field"
	operationInsertBook         = "insert_book"
	operationFindOrCreateAuthor = "find_or_create_author"
	operationLinkBookAuthor     = "link_book_author"
	operationBookIDByTitle      = "book_id_by_title"
	operationListAvailability   = "list_books_with_availability"
)

// booksWithAuthors selects one row per (book, author) pair, books without authors included.
func (s Session) booksWithAuthors() *goqu.SelectDataset {
	return s.store.dialect.
		From(goqu.T(tableBooks).As("b")).
		LeftJoin(goqu.T(tableBooksAuthors).As("ba"), goqu.On(goqu.I("b.id").Eq(goqu.I("ba.book_id")))).
		LeftJoin(goqu.T(tableAuthors).As("a"), goqu.On(goqu.I("ba.author_id").Eq(goqu.I("a.id")))).
		Select("b.id", "b.title", "b.isbn", "b.total_copies", "a.first_name", "a.last_name").
		Order(goqu.I("b.id").Asc(), goqu.I("a.id").Asc())
}

func scanBook(rows adapters.DBRows, extra ...any) (library.Book, error) {
	var (
		book                library.Book
		firstName, lastName *string
	)

	dest := []any{&book.ID, &book.Title, &book.ISBN, &book.TotalCopies, &firstName, &lastName}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return library.Book{}, err
	}

	book.Author = library.AuthorDisplayName(firstName, lastName)

	return book, nil
}

func (s Session) collectBooks(ctx context.Context, operation string, ds *goqu.SelectDataset) ([]library.Book, error) {
	sqlQuery, args, err := s.build(ctx, operation, ds.Prepared(true))
	if err != nil {
		return nil, err
	}

	books := make([]library.Book, 0)
	err = s.queryRows(ctx, operation, sqlQuery, args, func(rows adapters.DBRows) error {
		book, scanErr := scanBook(rows)
		if scanErr != nil {
			return scanErr
		}

		books = append(books, book)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

// ListBooks returns every book joined with its authors, ordered by id.
func (s Session) ListBooks(ctx context.Context) ([]library.Book, error) {
	var books []library.Book

	err := s.store.observe(ctx, operationListBooks, func(ctx context.Context) error {
		var err error
		books, err = s.collectBooks(ctx, operationListBooks, s.booksWithAuthors())

		return err
	})

	return books, err
}

// BooksByField returns the books matching value on field. No match yields an empty slice.
func (s Session) BooksByField(ctx context.Context, field library.BookField, value any) ([]library.Book, error) {
	var condition exp.Expression

	switch field {
	case library.BookFieldID:
		condition = goqu.I("b.id").Eq(value)
	case library.BookFieldTitle:
		condition = goqu.I("b.title").Eq(value)
	case library.BookFieldAuthorLastName:
		condition = goqu.I("a.last_name").Eq(value)
	default:
		return nil, library.ErrUnknownBookField
	}

	var books []library.Book

	err := s.store.observe(ctx, operationBooksByField, func(ctx context.Context) error {
		var err error
		books, err = s.collectBooks(ctx, operationBooksByField, s.booksWithAuthors().Where(condition))

		return err
	})

	return books, err
}

// InsertBook stores a new book and returns its id.
func (s Session) InsertBook(ctx context.Context, title, isbn string, totalCopies int64) (int64, error) {
	var id int64

	err := s.store.observe(ctx, operationInsertBook, func(ctx context.Context) error {
		ds := s.store.dialect.Insert(tableBooks).Rows(goqu.Record{
			"title":        title,
			"isbn":         isbn,
			"total_copies": totalCopies,
		})

		var err error
		id, err = s.insertReturningID(ctx, operationInsertBook, ds)

		return err
	})

	return id, err
}

// FindOrCreateAuthor returns the id of the author with the given name, creating the row if needed.
// The insert is guarded by the unique (first_name, last_name) constraint, so concurrent callers
// always end up with the same id.
func (s Session) FindOrCreateAuthor(ctx context.Context, firstName, lastName string) (int64, error) {
	var id int64

	err := s.store.observe(ctx, operationFindOrCreateAuthor, func(ctx context.Context) error {
		insert := s.store.dialect.Insert(tableAuthors).
			Rows(goqu.Record{"first_name": firstName, "last_name": lastName}).
			OnConflict(goqu.DoNothing()).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationFindOrCreateAuthor, insert)
		if err != nil {
			return err
		}

		if _, err = s.exec(ctx, operationFindOrCreateAuthor, sqlQuery, args); err != nil {
			return err
		}

		lookup := s.store.dialect.From(tableAuthors).
			Select("id").
			Where(goqu.C("first_name").Eq(firstName), goqu.C("last_name").Eq(lastName)).
			Prepared(true)

		sqlQuery, args, err = s.build(ctx, operationFindOrCreateAuthor, lookup)
		if err != nil {
			return err
		}

		return s.queryRows(ctx, operationFindOrCreateAuthor, sqlQuery, args, func(rows adapters.DBRows) error {
			return rows.Scan(&id)
		})
	})

	return id, err
}

// LinkBookAuthor records that authorID wrote bookID.
func (s Session) LinkBookAuthor(ctx context.Context, bookID, authorID int64) error {
	return s.store.observe(ctx, operationLinkBookAuthor, func(ctx context.Context) error {
		insert := s.store.dialect.Insert(tableBooksAuthors).
			Rows(goqu.Record{"book_id": bookID, "author_id": authorID}).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationLinkBookAuthor, insert)
		if err != nil {
			return err
		}

		_, err = s.exec(ctx, operationLinkBookAuthor, sqlQuery, args)

		return err
	})
}

// BookIDByTitle resolves a title to a book id. Titles are not unique; the lowest id wins.
func (s Session) BookIDByTitle(ctx context.Context, title string) (int64, error) {
	var (
		id    int64
		found bool
	)

	err := s.store.observe(ctx, operationBookIDByTitle, func(ctx context.Context) error {
		lookup := s.store.dialect.From(tableBooks).
			Select("id").
			Where(goqu.C("title").Eq(title)).
			Order(goqu.C("id").Asc()).
			Limit(1).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationBookIDByTitle, lookup)
		if err != nil {
			return err
		}

		err = s.queryRows(ctx, operationBookIDByTitle, sqlQuery, args, func(rows adapters.DBRows) error {
			found = true
			return rows.Scan(&id)
		})
		if err != nil {
			return err
		}

		if !found {
			return library.ErrBookNotFound
		}

		return nil
	})

	return id, err
}

// ListBooksWithAvailability returns every book with its available copies.
// Books without an inventory row report zero available copies.
func (s Session) ListBooksWithAvailability(ctx context.Context) ([]library.AvailableBook, error) {
	books := make([]library.AvailableBook, 0)

	err := s.store.observe(ctx, operationListAvailability, func(ctx context.Context) error {
		ds := s.store.dialect.
			From(goqu.T(tableBooks).As("b")).
			LeftJoin(goqu.T(tableInventory).As("i"), goqu.On(goqu.I("b.id").Eq(goqu.I("i.book_id")))).
			Select(
				"b.id",
				"b.title",
				"b.total_copies",
				goqu.COALESCE(goqu.I("i.available_copies"), goqu.L("0")).As("available_copies"),
			).
			Order(goqu.I("b.id").Asc()).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationListAvailability, ds)
		if err != nil {
			return err
		}

		return s.queryRows(ctx, operationListAvailability, sqlQuery, args, func(rows adapters.DBRows) error {
			var book library.AvailableBook
			if scanErr := rows.Scan(&book.ID, &book.Title, &book.TotalCopies, &book.AvailableCopies); scanErr != nil {
				return scanErr
			}

			books = append(books, book)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}
