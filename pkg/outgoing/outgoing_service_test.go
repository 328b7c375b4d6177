package outgoing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/pennywise/pennywise/pkg/ledger"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d = decimal.RequireFromString

var alice = user.User{Id: 1, Uid: "alice-uid", Username: "alice"}
var bob = user.User{Id: 2, Uid: "bob-uid", Username: "bob"}

var ctx = user.WithUser(context.Background(), alice)
var bobCtx = user.WithUser(context.Background(), bob)

var outgoingStoreStub = NewStubOutgoingStore()

var clock = &utils.MockClock{FixedNow: time.Date(2024, time.October, 18, 9, 0, 0, 0, time.UTC)}

var service *ServiceImpl

func setup(t *testing.T) func() {
	ledgerStore := ledger.NewStore(t.TempDir())
	bus := event_bus.NewEventBus()
	unsubscribe := ledgerStore.Subscribe(bus)
	service = NewService(outgoingStoreStub.Connector(), ledgerStore, bus, clock)
	return func() {
		unsubscribe()
		outgoingStoreStub.Cleanup()
	}
}

func intPtr(i int) *int {
	return &i
}

func TestServiceImpl_Add(t *testing.T) {
	t.Run("should date a recurring outgoing on its day of the current month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		record, err := service.Add(ctx, NewOutgoing{Label: "Rent", Amount: d("950"), Recurring: true, RecurringDay: intPtr(15)})

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC), record.PaymentDate)
		require.NotNil(t, record.RecurringDate)
		assert.Equal(t, 15, *record.RecurringDate)
		assert.True(t, record.Recurring)
	})

	t.Run("should ignore a given date for recurring outgoings", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		record, err := service.Add(ctx, NewOutgoing{
			Label:        "Gym",
			Amount:       d("30"),
			PaymentDate:  time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC),
			Recurring:    true,
			RecurringDay: intPtr(1),
		})

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), record.PaymentDate)
	})

	t.Run("should reject a recurring day outside 1..28", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		for _, day := range []*int{nil, intPtr(0), intPtr(29), intPtr(31)} {
			_, err := service.Add(ctx, NewOutgoing{Label: "Rent", Amount: d("950"), Recurring: true, RecurringDay: day})
			assert.ErrorIs(t, err, gateway.ErrInvalidDay)
		}
		assert.Equal(t, 0, outgoingStoreStub.closed)
	})

	t.Run("should keep a one-off date and drop the recurring day", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		date := time.Date(2024, time.September, 3, 0, 0, 0, 0, time.UTC)

		record, err := service.Add(ctx, NewOutgoing{Label: "Shoes", Amount: d("60"), PaymentDate: date, RecurringDay: intPtr(12)})

		require.NoError(t, err)
		assert.Equal(t, date, record.PaymentDate)
		assert.Nil(t, record.RecurringDate)
		assert.False(t, record.Recurring)
	})

	t.Run("should default a one-off date to today", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		record, err := service.Add(ctx, NewOutgoing{Label: "Coffee", Amount: d("3.20")})

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.October, 18, 0, 0, 0, 0, time.UTC), record.PaymentDate)
	})

	t.Run("should mirror the stored outgoing into the ledger cache", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Add(ctx, NewOutgoing{Label: "Rent", Amount: d("950"), Recurring: true, RecurringDay: intPtr(15)})
		require.NoError(t, err)
		_, err = service.Add(ctx, NewOutgoing{Label: "Free sample", Amount: d("0")})
		require.NoError(t, err)

		cache, err := service.Ledger(ctx)
		require.NoError(t, err)
		entries := cache.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "Rent", entries[0].Title)
		assert.True(t, entries[0].TotalOutgoing.Equal(d("950")))
		assert.Equal(t, "Free sample", entries[1].Title)
		assert.True(t, entries[1].TotalOutgoing.Equal(d("950")))
		assert.True(t, cache.Total().Equal(d("950")))
	})

	t.Run("should not touch the ledger when the insert fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		outgoingStoreStub.Err = fmt.Errorf("insert outgoing: %w", gateway.ErrQuery)

		_, err := service.Add(ctx, NewOutgoing{Label: "Rent", Amount: d("950")})

		assert.ErrorIs(t, err, gateway.ErrQuery)
		assert.Equal(t, 1, outgoingStoreStub.closed)
		cache, err := service.Ledger(ctx)
		require.NoError(t, err)
		assert.Empty(t, cache.Entries())
	})

	t.Run("should fail without a user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Add(context.Background(), NewOutgoing{Label: "Rent", Amount: d("950")})

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestServiceImpl_TwoUsersDoNotMix(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	_, err := service.Add(ctx, NewOutgoing{Label: "Alice rent", Amount: d("500")})
	require.NoError(t, err)
	_, err = service.Add(bobCtx, NewOutgoing{Label: "Bob rent", Amount: d("700")})
	require.NoError(t, err)

	aliceRecords, err := service.List(ctx)
	require.NoError(t, err)
	bobRecords, err := service.List(bobCtx)
	require.NoError(t, err)
	aliceLedger, err := service.Ledger(ctx)
	require.NoError(t, err)
	bobLedger, err := service.Ledger(bobCtx)
	require.NoError(t, err)

	require.Len(t, aliceRecords, 1)
	require.Len(t, bobRecords, 1)
	assert.Equal(t, "Alice rent", aliceRecords[0].Label)
	assert.Equal(t, "Bob rent", bobRecords[0].Label)
	assert.True(t, aliceLedger.Total().Equal(d("500")))
	assert.True(t, bobLedger.Total().Equal(d("700")))
}

func TestServiceImpl_List(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	empty, err := service.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	outgoingStoreStub.Err = fmt.Errorf("all outgoings: %w", gateway.ErrNotConnected)
	records, err := service.List(ctx)
	assert.ErrorIs(t, err, gateway.ErrNotConnected)
	assert.Nil(t, records)
}
