package sqlengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper/storewrapper"
)

func Test_InsertUser_AndListUsers(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// act
	var (
		firstID, secondID int64
		users             []library.User
	)
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		if firstID, err = session.InsertUser(ctx, sqlengine.NewUser{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org", PassHash: "h1", CreatedAt: FixedClock(),
		}); err != nil {
			return err
		}

		if secondID, err = session.InsertUser(ctx, sqlengine.NewUser{
			FirstName: "Grace", LastName: "Hopper", Email: "grace@example.org", PassHash: "h2", CreatedAt: FixedClock(),
		}); err != nil {
			return err
		}

		users, err = session.ListUsers(ctx)

		return err
	})

	// assert
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID, "ids should be generated ascending")
	require.Len(t, users, 2)

	assert.Equal(t, firstID, users[0].ID)
	assert.Equal(t, "Ada", users[0].FirstName)
	assert.Equal(t, "Lovelace", users[0].LastName)
	assert.Equal(t, "ada@example.org", users[0].Email)
	assert.True(t, FixedClock().Equal(users[0].CreatedAt))
	assert.Equal(t, secondID, users[1].ID)
}

func Test_ListUsers_EmptyIsNotNil(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).Store()

	// act
	var users []library.User
	err := store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		users, err = session.ListUsers(ctx)

		return err
	})

	// assert
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}
