package returnbooks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/app/features/command/borrowbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/command/returnbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper/storewrapper" //nolint:revive
)

type publisherSpy struct {
	events []shell.CirculationEvent
}

func (p *publisherSpy) Publish(_ context.Context, events ...shell.CirculationEvent) {
	p.events = append(p.events, events...)
}

func Test_CommandHandler_Handle_ReturnsBorrowedBook(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	publisher := &publisherSpy{}
	borrowHandler := borrowbooks.NewCommandHandler(store)
	returnHandler := returnbooks.NewCommandHandler(store, returnbooks.WithEventPublisher(publisher))

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 5})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.com")
	_, err := borrowHandler.Handle(ctx, borrowbooks.BuildCommand(userID, []string{"Dune"}, FixedClock()))
	require.NoError(t, err)

	// act
	result, err := returnHandler.Handle(ctx, returnbooks.BuildCommand(userID, []string{"Dune"}, FixedClock().Add(time.Hour)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.BooksAffected)
	assert.Zero(t, result.UnmatchedReturns)
	assert.Zero(t, BorrowRecordCount(t, ctx, store, bookID, userID))

	total, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(5), available)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, shell.RKBookReturned, publisher.events[0].RoutingKey)
	assert.Nil(t, publisher.events[0].DueDate)
}

func Test_CommandHandler_Handle_NeverBorrowedStillIncrementsInventory(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := returnbooks.NewCommandHandler(store)

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 5})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.com")

	// act
	result, err := handler.Handle(ctx, returnbooks.BuildCommand(userID, []string{"Dune"}, FixedClock()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnmatchedReturns)
	assert.Equal(t, shell.OutcomeUnmatchedReturn, result.BusinessOutcome())

	total, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(6), total)
	assert.Equal(t, int64(6), available)
}

func Test_CommandHandler_Handle_DeletesAllMatchingRecords(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := returnbooks.NewCommandHandler(store,
		returnbooks.WithInventoryAdjuster(shell.NewInventoryAdjuster(shell.WithTotalCopiesAdjustment(false))),
	)

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Emma", Copies: 4})
	userID := GivenUserWasRegistered(t, ctx, store, "jane@example.com")
	GivenBookWasBorrowed(t, ctx, store, bookID, userID, FixedClock())
	GivenBookWasBorrowed(t, ctx, store, bookID, userID, FixedClock().Add(time.Minute))

	// act
	result, err := handler.Handle(ctx, returnbooks.BuildCommand(userID, []string{"Emma"}, FixedClock()))

	// assert
	require.NoError(t, err)
	assert.Zero(t, result.UnmatchedReturns)
	assert.Zero(t, BorrowRecordCount(t, ctx, store, bookID, userID))

	total, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(3), available, "one copy comes back per listed title, not per deleted record")
}

func Test_CommandHandler_Handle_UnknownTitleRollsBack(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := returnbooks.NewCommandHandler(store)

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 5})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.com")
	GivenBookWasBorrowed(t, ctx, store, bookID, userID, FixedClock())

	// act
	_, err := handler.Handle(ctx, returnbooks.BuildCommand(userID, []string{"Dune", "Unknown"}, FixedClock()))

	// assert
	assert.ErrorIs(t, err, library.ErrBookNotFound)
	assert.Equal(t, int64(1), BorrowRecordCount(t, ctx, store, bookID, userID))

	_, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(4), available)
}

func Test_CommandHandler_Handle_RejectsMissingFields(t *testing.T) {
	handler := returnbooks.NewCommandHandler(CreateWrapperWithTestConfig(t).Store())

	_, err := handler.Handle(context.Background(), returnbooks.BuildCommand(1, []string{}, FixedClock()))

	assert.ErrorIs(t, err, library.ErrMissingRequiredFields)
}
