package borrowbooks_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/app/features/command/borrowbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper/storewrapper" //nolint:revive
)

type publisherSpy struct {
	mu     sync.Mutex
	events []shell.CirculationEvent
}

func (p *publisherSpy) Publish(_ context.Context, events ...shell.CirculationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, events...)
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	publisher := &publisherSpy{}
	handler := borrowbooks.NewCommandHandler(store, borrowbooks.WithEventPublisher(publisher))

	// arrange
	duneID := GivenBookWasAdded(t, ctx, store, GivenBook{
		Title: "Dune", ISBN: "9780441013593", AuthorFirstName: "Frank", AuthorLastName: "Herbert", Copies: 5,
	})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.com")
	borrowedAt := FixedClock()

	// act
	result, err := handler.Handle(ctx, borrowbooks.BuildCommand(userID, []string{"Dune"}, borrowedAt))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.BooksAffected)

	total, available := InventoryOf(t, ctx, store, duneID)
	assert.Equal(t, int64(4), available)
	assert.Equal(t, int64(4), total, "total copies follow availability by default")

	var borrowed []library.BorrowedBook
	require.NoError(t, store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		borrowed, err = session.BorrowedBooksForUser(ctx, userID)
		return err
	}))
	require.Len(t, borrowed, 1)
	assert.Equal(t, "Dune", borrowed[0].Title)
	assert.Equal(t, borrowedAt, borrowed[0].BorrowedAt)
	assert.Equal(t, borrowedAt.Add(10*24*time.Hour), borrowed[0].DueDate)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, shell.RKBookBorrowed, publisher.events[0].RoutingKey)
	assert.Equal(t, duneID, publisher.events[0].BookID)
	assert.Equal(t, borrowedAt.Add(10*24*time.Hour), *publisher.events[0].DueDate)
}

func Test_CommandHandler_Handle_DuplicateTitlesBorrowTwice(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := borrowbooks.NewCommandHandler(store)

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Emma", Copies: 3})
	userID := GivenUserWasRegistered(t, ctx, store, "jane@example.com")

	// act
	result, err := handler.Handle(ctx, borrowbooks.BuildCommand(userID, []string{"Emma", "Emma"}, FixedClock()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksAffected)
	assert.Equal(t, int64(2), BorrowRecordCount(t, ctx, store, bookID, userID))

	_, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(1), available)
}

func Test_CommandHandler_Handle_UnknownTitleRollsBack(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	publisher := &publisherSpy{}
	handler := borrowbooks.NewCommandHandler(store, borrowbooks.WithEventPublisher(publisher))

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 5})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.com")

	// act
	_, err := handler.Handle(ctx, borrowbooks.BuildCommand(userID, []string{"Dune", "No Such Book"}, FixedClock()))

	// assert
	assert.ErrorIs(t, err, library.ErrBookNotFound)
	assert.Equal(t, library.KindNotFound, library.KindOf(err))
	assert.Zero(t, BorrowRecordCount(t, ctx, store, bookID, userID))

	total, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(5), available)
	assert.Empty(t, publisher.events)
}

func Test_CommandHandler_Handle_UnknownUserRollsBack(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := borrowbooks.NewCommandHandler(store)

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 5})

	// act
	_, err := handler.Handle(ctx, borrowbooks.BuildCommand(4711, []string{"Dune"}, FixedClock()))

	// assert
	assert.ErrorIs(t, err, library.ErrDatabaseQuery)

	_, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(5), available)
}

func Test_CommandHandler_Handle_WithoutTotalCopiesAdjustment(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	handler := borrowbooks.NewCommandHandler(store,
		borrowbooks.WithInventoryAdjuster(shell.NewInventoryAdjuster(shell.WithTotalCopiesAdjustment(false))),
	)

	// arrange
	bookID := GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 5})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.com")

	// act
	_, err := handler.Handle(ctx, borrowbooks.BuildCommand(userID, []string{"Dune"}, FixedClock()))

	// assert
	require.NoError(t, err)

	total, available := InventoryOf(t, ctx, store, bookID)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(4), available)
}

func Test_CommandHandler_Handle_UsesSharedTitleCache(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()
	resolver, err := shell.NewTitleResolver(16)
	require.NoError(t, err)
	handler := borrowbooks.NewCommandHandler(store, borrowbooks.WithTitleResolver(resolver))

	// arrange
	GivenBookWasAdded(t, ctx, store, GivenBook{Title: "Dune", Copies: 5})
	userID := GivenUserWasRegistered(t, ctx, store, "ada@example.com")

	// act
	_, err = handler.Handle(ctx, borrowbooks.BuildCommand(userID, []string{"Dune"}, FixedClock()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.Cached())
}

func Test_CommandHandler_Handle_RejectsInvalidCommands(t *testing.T) {
	// setup
	store := CreateWrapperWithTestConfig(t).Store()
	handler := borrowbooks.NewCommandHandler(store)

	testCases := map[string]borrowbooks.Command{
		"missing user":  borrowbooks.BuildCommand(0, []string{"Dune"}, FixedClock()),
		"no titles":     borrowbooks.BuildCommand(1, nil, FixedClock()),
		"blank title":   borrowbooks.BuildCommand(1, []string{"Dune", "  "}, FixedClock()),
		"negative user": borrowbooks.BuildCommand(-3, []string{"Dune"}, FixedClock()),
	}

	for name, command := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), command)

			assert.ErrorIs(t, err, library.ErrMissingRequiredFields)
			assert.Equal(t, library.KindValidation, library.KindOf(err))
		})
	}
}
