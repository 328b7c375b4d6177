package home

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/forecast"
	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/pennywise/pennywise/pkg/money"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d = decimal.RequireFromString

var alice = user.User{Id: 1, Uid: "alice-uid", Username: "alice"}
var bob = user.User{Id: 2, Uid: "bob-uid", Username: "bob"}

var ctx = user.WithUser(context.Background(), alice)

var homeStoreStub = NewStubHomeStore()

var clock = &utils.MockClock{FixedNow: time.Date(2024, time.October, 18, 14, 30, 0, 0, time.UTC)}

var service *ServiceImpl

func setup(t *testing.T) func() {
	service = NewService(homeStoreStub.Connector(), clock, forecast.NewCsvRenderer(money.NewFormatter("£")))
	return func() {
		homeStoreStub.Cleanup()
	}
}

func TestServiceImpl_Overview(t *testing.T) {
	t.Run("should project the balance to December", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		_, err := service.UpdateBalance(ctx, d("100"))
		require.NoError(t, err)
		_, err = service.UpdateIncome(ctx, d("500"), nil)
		require.NoError(t, err)
		homeStoreStub.SetOutgoing(alice.Id, d("300"))

		overview, err := service.Overview(ctx)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.October, 18, 0, 0, 0, 0, time.UTC), overview.AsOf)
		assert.True(t, overview.NetChange.Equal(d("200")))
		require.Len(t, overview.Forecast, 3)
		assert.True(t, overview.Forecast[0].Balance.Equal(d("100")))
		assert.True(t, overview.Forecast[2].Balance.Equal(d("500")))
		assert.True(t, overview.Summary.FinalBalance.Equal(d("500")))
		assert.True(t, overview.Summary.LowestBalance.Equal(d("100")))
		assert.Equal(t, time.October, overview.Summary.LowestMonth.Month())
	})

	t.Run("should start from zeros for a new user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		overview, err := service.Overview(ctx)

		require.NoError(t, err)
		assert.True(t, overview.Balance.IsZero())
		assert.True(t, overview.MonthlyIncome.IsZero())
		assert.True(t, overview.TotalOutgoing.IsZero())
		assert.Nil(t, overview.IncomeChangeDay)
		assert.Len(t, overview.Forecast, 3)
	})

	t.Run("should only read the current user's records", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		_, err := service.UpdateBalance(user.WithUser(context.Background(), bob), d("999"))
		require.NoError(t, err)

		overview, err := service.Overview(ctx)

		require.NoError(t, err)
		assert.True(t, overview.Balance.IsZero())
	})

	t.Run("should close the session on errors", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		homeStoreStub.Err = fmt.Errorf("current balance: %w", gateway.ErrQuery)

		_, err := service.Overview(ctx)

		assert.ErrorIs(t, err, gateway.ErrQuery)
		assert.Equal(t, 1, homeStoreStub.closed)
	})

	t.Run("should fail without a user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Overview(context.Background())

		assert.ErrorIs(t, err, user.ErrNoUser)
		assert.Equal(t, 0, homeStoreStub.closed)
	})
}

func TestServiceImpl_UpdateIncome(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	day := 25

	record, err := service.UpdateIncome(ctx, d("2100.50"), &day)
	require.NoError(t, err)
	overview, err := service.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, alice.Id, record.UserId)
	assert.True(t, overview.MonthlyIncome.Equal(d("2100.50")))
	require.NotNil(t, overview.IncomeChangeDay)
	assert.Equal(t, 25, *overview.IncomeChangeDay)

	_, err = service.UpdateIncome(ctx, d("-1"), nil)
	assert.ErrorIs(t, err, gateway.ErrInvalidAmount)
}

func TestServiceImpl_Clear(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	bobCtx := user.WithUser(context.Background(), bob)
	_, err := service.UpdateBalance(ctx, d("100"))
	require.NoError(t, err)
	_, err = service.UpdateIncome(ctx, d("500"), nil)
	require.NoError(t, err)
	_, err = service.UpdateBalance(bobCtx, d("70"))
	require.NoError(t, err)
	_, err = service.UpdateIncome(bobCtx, d("900"), nil)
	require.NoError(t, err)

	err = service.Clear(ctx)
	require.NoError(t, err)

	overview, err := service.Overview(ctx)
	require.NoError(t, err)
	assert.True(t, overview.Balance.IsZero())
	assert.True(t, overview.MonthlyIncome.IsZero())

	// other users keep their data
	bobOverview, err := service.Overview(bobCtx)
	require.NoError(t, err)
	assert.True(t, bobOverview.Balance.Equal(d("70")))
	assert.True(t, bobOverview.MonthlyIncome.Equal(d("900")))
}

func TestServiceImpl_OverviewReadsIncomeOnce(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	changeDay := 25
	_, err := service.UpdateIncome(ctx, d("1500"), &changeDay)
	require.NoError(t, err)

	overview, err := service.Overview(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, homeStoreStub.incomeReads)
	assert.True(t, overview.MonthlyIncome.Equal(d("1500")))
	require.NotNil(t, overview.IncomeChangeDay)
	assert.Equal(t, 25, *overview.IncomeChangeDay)
}

func TestServiceImpl_ForecastCsv(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	_, err := service.UpdateBalance(ctx, d("100"))
	require.NoError(t, err)
	_, err = service.UpdateIncome(ctx, d("500"), nil)
	require.NoError(t, err)
	homeStoreStub.SetOutgoing(alice.Id, d("300"))

	csv, err := service.ForecastCsv(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Date of Transaction,Balance,Total Change\n"+
		"2024-10-01,£100.00,£200.00\n"+
		"2024-11-01,£300.00,£200.00\n"+
		"2024-12-01,£500.00,£200.00\n", csv)
}
