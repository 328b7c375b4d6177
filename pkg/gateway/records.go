package gateway

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxIncomeChangeDay = 31
	MaxRecurringDay    = 28
	// bcrypt only hashes the first 72 bytes
	MaxPasswordLength = 72
)

type UserRecord struct {
	Id       int
	Uid      string
	Username string
	// PasswordHash is a bcrypt hash; the plain password is never stored.
	PasswordHash string
	CreatedAt    time.Time
}

type IncomeRecord struct {
	Id     int
	UserId int
	Amount decimal.Decimal
	// IncomeChangeDay is the day of month the income changes on, when known.
	IncomeChangeDay *int
	UpdatedAt       time.Time
}

type OutgoingRecord struct {
	Id          int
	UserId      int
	Label       string
	Amount      decimal.Decimal
	PaymentDate time.Time
	Recurring   bool
	// RecurringDate is the day of month a recurring payment is taken; nil for one-off payments.
	RecurringDate *int
	CreatedAt     time.Time
}

type BalanceRecord struct {
	Id        int
	UserId    int
	Amount    decimal.Decimal
	UpdatedAt time.Time
}
