package outgoing

import (
	"context"
	"strings"
	"time"

	"github.com/pennywise/pennywise/pkg/gateway"
)

// StubOutgoingStore keeps outgoing records in insertion order.
type StubOutgoingStore struct {
	records []gateway.OutgoingRecord
	nextId  int
	closed  int
	// Err, when set, is returned by every operation.
	Err error
}

func NewStubOutgoingStore() *StubOutgoingStore {
	return &StubOutgoingStore{}
}

func (s *StubOutgoingStore) Connector() Connector {
	return func(ctx context.Context) (Store, error) {
		return s, nil
	}
}

func (s *StubOutgoingStore) InsertOutgoingRecord(ctx context.Context, userId int, outgoing gateway.OutgoingRecord) (gateway.OutgoingRecord, error) {
	if s.Err != nil {
		return gateway.OutgoingRecord{}, s.Err
	}
	if strings.TrimSpace(outgoing.Label) == "" {
		return gateway.OutgoingRecord{}, gateway.ErrInvalidLabel
	}
	if outgoing.Amount.IsNegative() {
		return gateway.OutgoingRecord{}, gateway.ErrInvalidAmount
	}
	s.nextId++
	outgoing.Id = s.nextId
	outgoing.UserId = userId
	outgoing.CreatedAt = time.Now()
	s.records = append(s.records, outgoing)
	return outgoing, nil
}

func (s *StubOutgoingStore) AllOutgoings(ctx context.Context, userId int) ([]gateway.OutgoingRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]gateway.OutgoingRecord, 0)
	for _, r := range s.records {
		if r.UserId == userId {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *StubOutgoingStore) Close() {
	s.closed++
}

func (s *StubOutgoingStore) Cleanup() {
	s.records = nil
	s.nextId = 0
	s.closed = 0
	s.Err = nil
}
