package home

import (
	"context"

	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/shopspring/decimal"
)

// StubHomeStore keeps the latest income and balance per user in memory.
type StubHomeStore struct {
	income   map[int]gateway.IncomeRecord
	balance  map[int]decimal.Decimal
	outgoing map[int]decimal.Decimal
	nextId   int
	closed   int
	// incomeReads counts LatestIncome calls
	incomeReads int
	// Err, when set, is returned by every operation.
	Err error
}

func NewStubHomeStore() *StubHomeStore {
	s := &StubHomeStore{}
	s.Cleanup()
	return s
}

func (s *StubHomeStore) Connector() Connector {
	return func(ctx context.Context) (Store, error) {
		return s, nil
	}
}

// SetOutgoing sets the total outgoing TotalOutgoing reports for userId.
func (s *StubHomeStore) SetOutgoing(userId int, total decimal.Decimal) {
	s.outgoing[userId] = total
}

func (s *StubHomeStore) CurrentBalance(ctx context.Context, userId int) (decimal.Decimal, error) {
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	return s.balance[userId], nil
}

func (s *StubHomeStore) TotalOutgoing(ctx context.Context, userId int) (decimal.Decimal, error) {
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	return s.outgoing[userId], nil
}

func (s *StubHomeStore) LatestIncome(ctx context.Context, userId int) (gateway.IncomeRecord, error) {
	if s.Err != nil {
		return gateway.IncomeRecord{}, s.Err
	}
	s.incomeReads++
	return s.income[userId], nil
}

func (s *StubHomeStore) InsertIncomeRecord(ctx context.Context, userId int, amount decimal.Decimal, incomeChangeDay *int) (gateway.IncomeRecord, error) {
	if s.Err != nil {
		return gateway.IncomeRecord{}, s.Err
	}
	if amount.IsNegative() {
		return gateway.IncomeRecord{}, gateway.ErrInvalidAmount
	}
	if incomeChangeDay != nil && (*incomeChangeDay < 1 || *incomeChangeDay > gateway.MaxIncomeChangeDay) {
		return gateway.IncomeRecord{}, gateway.ErrInvalidDay
	}
	s.nextId++
	record := gateway.IncomeRecord{Id: s.nextId, UserId: userId, Amount: amount, IncomeChangeDay: incomeChangeDay}
	s.income[userId] = record
	return record, nil
}

func (s *StubHomeStore) InsertBalanceRecord(ctx context.Context, userId int, amount decimal.Decimal) (gateway.BalanceRecord, error) {
	if s.Err != nil {
		return gateway.BalanceRecord{}, s.Err
	}
	if amount.IsNegative() {
		return gateway.BalanceRecord{}, gateway.ErrInvalidAmount
	}
	s.nextId++
	s.balance[userId] = amount
	return gateway.BalanceRecord{Id: s.nextId, UserId: userId, Amount: amount}, nil
}

func (s *StubHomeStore) ClearUser(ctx context.Context, userId int) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.income, userId)
	delete(s.balance, userId)
	delete(s.outgoing, userId)
	return nil
}

func (s *StubHomeStore) Close() {
	s.closed++
}

func (s *StubHomeStore) Cleanup() {
	s.income = make(map[int]gateway.IncomeRecord)
	s.balance = make(map[int]decimal.Decimal)
	s.outgoing = make(map[int]decimal.Decimal)
	s.nextId = 0
	s.closed = 0
	s.incomeReads = 0
	s.Err = nil
}
