package listbooks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/app/features/query/listbooks"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper/storewrapper" //nolint:revive
)

func Test_QueryHandler_Handle(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := listbooks.NewQueryHandler(store)

	// arrange
	GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", AuthorFirstName: "Frank", AuthorLastName: "Herbert", Copies: 5})
	GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Anonymous Tales", Copies: 1})

	// act
	books, err := handler.Handle(ctx, listbooks.BuildQuery())

	// assert
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	require.NotNil(t, books[0].Author)
	assert.Equal(t, "Herbert Frank", *books[0].Author)
	assert.Nil(t, books[1].Author)
}

func Test_QueryHandler_Handle_EmptyCatalog(t *testing.T) {
	handler := listbooks.NewQueryHandler(CreateWrapperWithTestConfig(t).Store())

	books, err := handler.Handle(context.Background(), listbooks.BuildQuery())

	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}
