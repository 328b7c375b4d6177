package home

import (
	"context"
	"fmt"

	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/forecast"
	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Store interface {
	CurrentBalance(ctx context.Context, userId int) (decimal.Decimal, error)
	TotalOutgoing(ctx context.Context, userId int) (decimal.Decimal, error)
	LatestIncome(ctx context.Context, userId int) (gateway.IncomeRecord, error)
	InsertIncomeRecord(ctx context.Context, userId int, amount decimal.Decimal, incomeChangeDay *int) (gateway.IncomeRecord, error)
	InsertBalanceRecord(ctx context.Context, userId int, amount decimal.Decimal) (gateway.BalanceRecord, error)
	ClearUser(ctx context.Context, userId int) error
	Close()
}

type Connector func(ctx context.Context) (Store, error)

type Service interface {
	Overview(ctx context.Context) (Overview, error)
	UpdateIncome(ctx context.Context, amount decimal.Decimal, incomeChangeDay *int) (gateway.IncomeRecord, error)
	UpdateBalance(ctx context.Context, amount decimal.Decimal) (gateway.BalanceRecord, error)
	Clear(ctx context.Context) error
	ForecastCsv(ctx context.Context) (string, error)
}

type ServiceImpl struct {
	connect  Connector
	clock    utils.Clock
	renderer *forecast.CsvRenderer
}

func NewService(connect Connector, clock utils.Clock, renderer *forecast.CsvRenderer) *ServiceImpl {
	return &ServiceImpl{connect: connect, clock: clock, renderer: renderer}
}

func (s *ServiceImpl) Overview(ctx context.Context) (Overview, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to get current user: %w", err)
	}

	store, err := s.connect(ctx)
	if err != nil {
		return Overview{}, err
	}
	defer store.Close()

	balance, err := store.CurrentBalance(ctx, userId)
	if err != nil {
		return Overview{}, err
	}
	// amount and change day must come from the same income row
	income, err := store.LatestIncome(ctx, userId)
	if err != nil {
		return Overview{}, err
	}
	monthlyIncome := income.Amount
	totalOutgoing, err := store.TotalOutgoing(ctx, userId)
	if err != nil {
		return Overview{}, err
	}

	asOf := utils.Today(s.clock)
	points, err := forecast.Project(balance, monthlyIncome, totalOutgoing, asOf)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to project balance: %w", err)
	}
	log.Tracef("projected %d months for user %d", len(points), userId)

	return Overview{
		AsOf:            asOf,
		MonthlyIncome:   monthlyIncome,
		IncomeChangeDay: income.IncomeChangeDay,
		TotalOutgoing:   totalOutgoing,
		Balance:         balance,
		NetChange:       monthlyIncome.Sub(totalOutgoing),
		Forecast:        points,
		Summary:         forecast.Summarize(points),
	}, nil
}

func (s *ServiceImpl) UpdateIncome(ctx context.Context, amount decimal.Decimal, incomeChangeDay *int) (gateway.IncomeRecord, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return gateway.IncomeRecord{}, fmt.Errorf("failed to get current user: %w", err)
	}

	store, err := s.connect(ctx)
	if err != nil {
		return gateway.IncomeRecord{}, err
	}
	defer store.Close()

	return store.InsertIncomeRecord(ctx, userId, amount, incomeChangeDay)
}

func (s *ServiceImpl) UpdateBalance(ctx context.Context, amount decimal.Decimal) (gateway.BalanceRecord, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return gateway.BalanceRecord{}, fmt.Errorf("failed to get current user: %w", err)
	}

	store, err := s.connect(ctx)
	if err != nil {
		return gateway.BalanceRecord{}, err
	}
	defer store.Close()

	return store.InsertBalanceRecord(ctx, userId, amount)
}

// Clear wipes the income, balance and outgoing records of the current user only.
func (s *ServiceImpl) Clear(ctx context.Context) error {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	store, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearUser(ctx, u.Id); err != nil {
		return err
	}
	log.Infof("finance data cleared by %s", u.Username)
	return nil
}

func (s *ServiceImpl) ForecastCsv(ctx context.Context) (string, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(overview.Forecast)
}
