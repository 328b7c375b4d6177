package ledger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Store resolves the cache file of each user inside one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(userId int) string {
	return filepath.Join(s.dir, fmt.Sprintf("outgoings-%d.csv", userId))
}

func (s *Store) Open(userId int) (*Cache, error) {
	return Load(s.path(userId))
}

func (s *Store) Append(userId int, title string, amount decimal.Decimal, date time.Time) (Entry, error) {
	cache, err := s.Open(userId)
	if err != nil {
		return Entry{}, err
	}
	return cache.Add(title, amount, date)
}

// Subscribe mirrors every recorded outgoing into the owner's cache.
func (s *Store) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped(bus, event_bus.OutgoingRecordedEvent,
		func(e event_bus.EventT[event_bus.OutgoingRecorded]) error {
			outgoing := e.Data
			entry, err := s.Append(outgoing.UserId, outgoing.Label, outgoing.Amount, outgoing.PaymentDate)
			if err != nil {
				return fmt.Errorf("could not mirror outgoing %d into ledger cache: %w", outgoing.Id, err)
			}
			log.Debugf("ledger cache for user %d now totals %s", outgoing.UserId, entry.TotalOutgoing.StringFixed(2))
			return nil
		})
}
