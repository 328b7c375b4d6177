package outgoing

import (
	"context"
	"fmt"
	"time"

	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/pennywise/pennywise/pkg/ledger"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Store interface {
	InsertOutgoingRecord(ctx context.Context, userId int, outgoing gateway.OutgoingRecord) (gateway.OutgoingRecord, error)
	AllOutgoings(ctx context.Context, userId int) ([]gateway.OutgoingRecord, error)
	Close()
}

type Connector func(ctx context.Context) (Store, error)

// LedgerReader opens the ledger cache of a user.
type LedgerReader interface {
	Open(userId int) (*ledger.Cache, error)
}

type Service interface {
	Add(ctx context.Context, outgoing NewOutgoing) (gateway.OutgoingRecord, error)
	List(ctx context.Context) ([]gateway.OutgoingRecord, error)
	Ledger(ctx context.Context) (*ledger.Cache, error)
}

type ServiceImpl struct {
	connect  Connector
	ledger   LedgerReader
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(connect Connector, ledgerReader LedgerReader, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{connect: connect, ledger: ledgerReader, eventBus: eventBus, clock: clock}
}

// Add stores the outgoing and then publishes it so the ledger cache can mirror it.
// A failed cache update is logged and does not undo the stored record.
func (s *ServiceImpl) Add(ctx context.Context, outgoing NewOutgoing) (gateway.OutgoingRecord, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return gateway.OutgoingRecord{}, fmt.Errorf("failed to get current user: %w", err)
	}

	record, err := s.resolve(outgoing)
	if err != nil {
		return gateway.OutgoingRecord{}, err
	}

	store, err := s.connect(ctx)
	if err != nil {
		return gateway.OutgoingRecord{}, err
	}
	defer store.Close()

	stored, err := store.InsertOutgoingRecord(ctx, userId, record)
	if err != nil {
		return gateway.OutgoingRecord{}, err
	}

	if s.eventBus != nil {
		event := event_bus.NewEvent(ctx, event_bus.OutgoingRecordedEvent, event_bus.OutgoingRecorded{
			Id:          stored.Id,
			UserId:      stored.UserId,
			Label:       stored.Label,
			Amount:      stored.Amount,
			PaymentDate: stored.PaymentDate,
			Recurring:   stored.Recurring,
		})
		if err := s.eventBus.Publish(event); err != nil {
			log.Warnf("outgoing %d stored but not mirrored: %v", stored.Id, err)
		}
	}
	return stored, nil
}

// resolve turns user input into a record. A recurring payment falls on its day in the
// current month; a one-off payment keeps its date, or today when none was given.
func (s *ServiceImpl) resolve(outgoing NewOutgoing) (gateway.OutgoingRecord, error) {
	today := utils.Today(s.clock)
	record := gateway.OutgoingRecord{
		Label:     outgoing.Label,
		Amount:    outgoing.Amount,
		Recurring: outgoing.Recurring,
	}

	if outgoing.Recurring {
		day := outgoing.RecurringDay
		if day == nil || *day < 1 || *day > gateway.MaxRecurringDay {
			return gateway.OutgoingRecord{}, fmt.Errorf("%w: recurring day must be between 1 and %d", gateway.ErrInvalidDay, gateway.MaxRecurringDay)
		}
		recurringDay := *day
		record.RecurringDate = &recurringDay
		record.PaymentDate = time.Date(today.Year(), today.Month(), recurringDay, 0, 0, 0, 0, today.Location())
		return record, nil
	}

	record.PaymentDate = today
	if !outgoing.PaymentDate.IsZero() {
		record.PaymentDate = outgoing.PaymentDate
	}
	return record, nil
}

func (s *ServiceImpl) List(ctx context.Context) ([]gateway.OutgoingRecord, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	store, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.AllOutgoings(ctx, userId)
}

func (s *ServiceImpl) Ledger(ctx context.Context) (*ledger.Cache, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.ledger.Open(userId)
}
