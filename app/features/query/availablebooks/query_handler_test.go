package availablebooks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/app/features/query/availablebooks"
	"github.com/AntonStoeckl/library-circulation-api/library"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper/storewrapper" //nolint:revive
)

func Test_QueryHandler_Handle(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := availablebooks.NewQueryHandler(store)

	// arrange
	duneID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 5})
	emmaID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Emma"})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.com")
	GivenBookWasBorrowed(t, ctx, store, duneID, userID, FixedClock())

	// act
	books, err := handler.Handle(ctx, availablebooks.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []library.AvailableBook{
		{ID: duneID, Title: "Dune", TotalCopies: 5, AvailableCopies: 4},
		{ID: emmaID, Title: "Emma", TotalCopies: 0, AvailableCopies: 0},
	}, books)
}
