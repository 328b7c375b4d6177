package forecast

import (
	"errors"
	"time"

	"github.com/pennywise/pennywise/pkg/money"
	"github.com/shopspring/decimal"
)

var ErrNegativeAmount = errors.New("amount cannot be negative")
var ErrInvalidDate = errors.New("as-of date is not set")

type Point struct {
	// Month is the first day of the projected month, in the location of the as-of date.
	Month     time.Time
	Balance   decimal.Decimal
	NetChange decimal.Decimal
}

// Row is a Point rendered for display.
type Row struct {
	Month     string
	Balance   string
	NetChange string
}

type Summary struct {
	FinalBalance  decimal.Decimal
	LowestBalance decimal.Decimal
	LowestMonth   time.Time
}

// Project extrapolates the balance linearly from the as-of month through December of the same year.
// It returns 13-month(asOf) points. The first point is the current balance. Each later point
// adds monthlyIncome-totalOutgoing, so the last balance is balance+net*(n-1).
func Project(balance, monthlyIncome, totalOutgoing decimal.Decimal, asOf time.Time) ([]Point, error) {
	if asOf.IsZero() {
		return nil, ErrInvalidDate
	}
	if balance.IsNegative() || monthlyIncome.IsNegative() || totalOutgoing.IsNegative() {
		return nil, ErrNegativeAmount
	}

	net := monthlyIncome.Sub(totalOutgoing)
	first := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	count := 13 - int(asOf.Month())

	points := make([]Point, 0, count)
	current := balance
	for i := 0; i < count; i++ {
		points = append(points, Point{
			Month:     first.AddDate(0, i, 0),
			Balance:   current,
			NetChange: net,
		})
		current = current.Add(net)
	}
	return points, nil
}

func Rows(points []Point, f money.Formatter) []Row {
	rows := make([]Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, Row{
			Month:     p.Month.Format("Jan"),
			Balance:   f.Format(p.Balance),
			NetChange: f.Format(p.NetChange),
		})
	}
	return rows
}

// Summarize returns the zero Summary for an empty projection.
func Summarize(points []Point) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	summary := Summary{
		FinalBalance:  points[len(points)-1].Balance,
		LowestBalance: points[0].Balance,
		LowestMonth:   points[0].Month,
	}
	for _, p := range points[1:] {
		if p.Balance.LessThan(summary.LowestBalance) {
			summary.LowestBalance = p.Balance
			summary.LowestMonth = p.Month
		}
	}
	return summary
}
