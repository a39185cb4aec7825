package shell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
)

type inventoryFake struct {
	available map[int64]int64
	total     map[int64]int64
	failWith  error
}

func newInventoryFake() *inventoryFake {
	return &inventoryFake{available: map[int64]int64{}, total: map[int64]int64{}}
}

func (f *inventoryFake) UpsertAvailableCopies(_ context.Context, bookID, delta int64) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.available[bookID] += delta

	return nil
}

func (f *inventoryFake) AdjustTotalCopies(_ context.Context, bookID, delta int64) error {
	f.total[bookID] += delta
	return nil
}

func Test_InventoryAdjuster_Adjust(t *testing.T) {
	testCases := []struct {
		name          string
		opts          []shell.InventoryAdjusterOption
		delta         int64
		wantAvailable int64
		wantTotal     int64
	}{
		{name: "borrow with total adjustment", delta: -1, wantAvailable: -1, wantTotal: -1},
		{name: "return with total adjustment", delta: 1, wantAvailable: 1, wantTotal: 1},
		{
			name:          "borrow without total adjustment",
			opts:          []shell.InventoryAdjusterOption{shell.WithTotalCopiesAdjustment(false)},
			delta:         -1,
			wantAvailable: -1,
			wantTotal:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			fake := newInventoryFake()
			adjuster := shell.NewInventoryAdjuster(tc.opts...)

			// act
			err := adjuster.Adjust(context.Background(), fake, 4, tc.delta)

			// assert
			assert.NoError(t, err)
			assert.Equal(t, tc.wantAvailable, fake.available[4])
			assert.Equal(t, tc.wantTotal, fake.total[4])
		})
	}
}

func Test_InventoryAdjuster_DefaultsToTotalAdjustment(t *testing.T) {
	assert.True(t, shell.NewInventoryAdjuster().AdjustsTotalCopies())
}

func Test_InventoryAdjuster_StopsOnUpsertFailure(t *testing.T) {
	// arrange
	fake := newInventoryFake()
	fake.failWith = errors.New("boom")

	// act
	err := shell.NewInventoryAdjuster().Adjust(context.Background(), fake, 4, -1)

	// assert
	assert.ErrorIs(t, err, fake.failWith)
	assert.Zero(t, fake.total[4], "total copies must not move when availability failed")
}
