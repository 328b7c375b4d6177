package home

import (
	"time"

	"github.com/pennywise/pennywise/pkg/forecast"
	"github.com/shopspring/decimal"
)

// Overview is everything the home view shows for one user.
type Overview struct {
	AsOf            time.Time
	MonthlyIncome   decimal.Decimal
	IncomeChangeDay *int
	// TotalOutgoing is the all-time sum of the user's outgoings, not a monthly figure.
	TotalOutgoing decimal.Decimal
	Balance       decimal.Decimal
	NetChange     decimal.Decimal
	Forecast      []forecast.Point
	Summary       forecast.Summary
}
