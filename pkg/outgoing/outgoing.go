package outgoing

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewOutgoing is a payment as entered by the user, before its payment date is resolved.
type NewOutgoing struct {
	Label  string
	Amount decimal.Decimal
	// PaymentDate is used for one-off payments; zero means today.
	PaymentDate time.Time
	Recurring   bool
	// RecurringDay is the day of month a recurring payment is taken, 1..28.
	RecurringDay *int
}
