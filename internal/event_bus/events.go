package event_bus

import (
	"time"

	"github.com/shopspring/decimal"
)

const OutgoingRecordedEvent EventType = "outgoing.recorded"

// OutgoingRecorded is published after an outgoing record has been stored.
type OutgoingRecorded struct {
	Id          int
	UserId      int
	Label       string
	Amount      decimal.Decimal
	PaymentDate time.Time
	Recurring   bool
}
