package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// InsertOutgoingRecord stores one outgoing for userId. The UserId field of the argument is ignored.
func (s *Session) InsertOutgoingRecord(ctx context.Context, userId int, outgoing OutgoingRecord) (OutgoingRecord, error) {
	ctx, cancel, err := s.begin(ctx, "insert outgoing")
	defer cancel()
	if err != nil {
		return OutgoingRecord{}, err
	}
	if strings.TrimSpace(outgoing.Label) == "" {
		return OutgoingRecord{}, ErrInvalidLabel
	}
	outgoing.Amount, err = checkAmount(outgoing.Amount)
	if err != nil {
		return OutgoingRecord{}, err
	}
	if outgoing.PaymentDate.IsZero() {
		return OutgoingRecord{}, ErrInvalidDate
	}
	if err := checkDay(outgoing.RecurringDate, MaxRecurringDay); err != nil {
		return OutgoingRecord{}, err
	}
	if outgoing.Recurring && outgoing.RecurringDate == nil {
		return OutgoingRecord{}, fmt.Errorf("%w: recurring outgoing needs a recurring day", ErrInvalidDay)
	}

	outgoing.Id = 0
	outgoing.UserId = userId
	query := `INSERT INTO outgoings (user_id, label, amount, payment_date, recurring, recurring_date)
			  VALUES ($1, $2, $3::numeric, $4, $5, $6) RETURNING id, created_at`
	err = s.conn.QueryRow(ctx, query,
		userId,
		outgoing.Label,
		outgoing.Amount.String(),
		outgoing.PaymentDate,
		outgoing.Recurring,
		outgoing.RecurringDate,
	).Scan(&outgoing.Id, &outgoing.CreatedAt)
	if err != nil {
		return OutgoingRecord{}, queryError("insert outgoing", err)
	}
	log.Debugf("outgoing record %d stored for user %d", outgoing.Id, userId)
	return outgoing, nil
}

// AllOutgoings returns every outgoing of the user in insertion order. An empty table gives an
// empty slice and a nil error; a failed query gives a nil slice and the error.
func (s *Session) AllOutgoings(ctx context.Context, userId int) ([]OutgoingRecord, error) {
	ctx, cancel, err := s.begin(ctx, "all outgoings")
	defer cancel()
	if err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, label, amount::text, payment_date, recurring, recurring_date, created_at
			  FROM outgoings WHERE user_id = $1 ORDER BY created_at, id`
	rows, err := s.conn.Query(ctx, query, userId)
	if err != nil {
		return nil, queryError("all outgoings", err)
	}
	defer rows.Close()

	outgoings := make([]OutgoingRecord, 0)
	for rows.Next() {
		var (
			o             OutgoingRecord
			amount        string
			recurringDate sql.NullInt64
		)
		if err := rows.Scan(&o.Id, &o.UserId, &o.Label, &amount, &o.PaymentDate, &o.Recurring, &recurringDate, &o.CreatedAt); err != nil {
			return nil, queryError("all outgoings: scan", err)
		}
		if o.Amount, err = parseNumeric(amount); err != nil {
			return nil, queryError("all outgoings: amount", err)
		}
		if recurringDate.Valid {
			day := int(recurringDate.Int64)
			o.RecurringDate = &day
		}
		outgoings = append(outgoings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("all outgoings: rows", err)
	}
	return outgoings, nil
}
