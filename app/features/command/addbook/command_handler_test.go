package addbook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/app/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper/storewrapper" //nolint:revive
)

func listBooks(t *testing.T, ctx context.Context, store sqlengine.Store) []library.Book {
	t.Helper()

	var books []library.Book
	require.NoError(t, store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		books, err = session.ListBooks(ctx)
		return err
	}))

	return books
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := addbook.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, addbook.BuildCommand("Dune", "9780441013593", 5, "Frank", "Herbert"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.CreatedID, "first book in an empty catalog")

	books := listBooks(t, ctx, store)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, int64(5), books[0].TotalCopies)
	require.NotNil(t, books[0].Author)
	assert.Equal(t, "Herbert Frank", *books[0].Author)

	total, available := InventoryOf(t, ctx, store, result.CreatedID)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(5), available)
}

func Test_CommandHandler_Handle_ReusesExistingAuthor(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := addbook.NewCommandHandler(store)

	// act
	first, err1 := handler.Handle(ctx, addbook.BuildCommand("Dune", "9780441013593", 2, "Frank", "Herbert"))
	second, err2 := handler.Handle(ctx, addbook.BuildCommand("Dune Messiah", "9780593098233", 1, "Frank", "Herbert"))

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, first.CreatedID, second.CreatedID)

	var authorIDs []int64
	require.NoError(t, store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		id, err := session.FindOrCreateAuthor(ctx, "Frank", "Herbert")
		authorIDs = append(authorIDs, id)
		return err
	}))
	assert.Equal(t, []int64{1}, authorIDs, "the author must exist exactly once")
}

func Test_CommandHandler_Handle_RejectsInvalidCommands(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := addbook.NewCommandHandler(store)

	testCases := []struct {
		name        string
		command     addbook.Command
		wantErr     error
		description string
	}{
		{
			name:        "missing title",
			command:     addbook.BuildCommand(" ", "9780441013593", 5, "Frank", "Herbert"),
			wantErr:     library.ErrMissingRequiredFields,
			description: core.MsgMissingBookFields,
		},
		{
			name:        "zero copies",
			command:     addbook.BuildCommand("Dune", "9780441013593", 0, "Frank", "Herbert"),
			wantErr:     library.ErrMissingRequiredFields,
			description: core.MsgMissingBookFields,
		},
		{
			name:        "missing author",
			command:     addbook.BuildCommand("Dune", "9780441013593", 5, "Frank", ""),
			wantErr:     library.ErrMissingRequiredFields,
			description: core.MsgMissingBookFields,
		},
		{
			name:        "negative copies",
			command:     addbook.BuildCommand("Dune", "9780441013593", -1, "Frank", "Herbert"),
			wantErr:     library.ErrInvalidFieldValue,
			description: core.MsgNegativeCopies,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := handler.Handle(ctx, tc.command)

			// assert
			assert.ErrorIs(t, err, tc.wantErr)

			var validationErr *core.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.description, validationErr.Description)
		})
	}

	assert.Empty(t, listBooks(t, ctx, store), "rejected commands must not write anything")
}
