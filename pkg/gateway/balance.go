package gateway

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func (s *Session) InsertBalanceRecord(ctx context.Context, userId int, amount decimal.Decimal) (BalanceRecord, error) {
	ctx, cancel, err := s.begin(ctx, "insert balance")
	defer cancel()
	if err != nil {
		return BalanceRecord{}, err
	}
	amount, err = checkAmount(amount)
	if err != nil {
		return BalanceRecord{}, err
	}

	record := BalanceRecord{UserId: userId, Amount: amount}
	query := `INSERT INTO balance (user_id, amount) VALUES ($1, $2::numeric) RETURNING id, updated_at`
	err = s.conn.QueryRow(ctx, query, userId, amount.String()).Scan(&record.Id, &record.UpdatedAt)
	if err != nil {
		return BalanceRecord{}, queryError("insert balance", err)
	}
	log.Debugf("balance record %d stored for user %d", record.Id, userId)
	return record, nil
}

// CurrentBalance returns the most recent balance snapshot, or zero when there is none.
// Equal timestamps resolve to the highest id.
func (s *Session) CurrentBalance(ctx context.Context, userId int) (decimal.Decimal, error) {
	ctx, cancel, err := s.begin(ctx, "current balance")
	defer cancel()
	if err != nil {
		return decimal.Zero, err
	}

	query := `SELECT amount::text FROM balance WHERE user_id = $1 ORDER BY updated_at DESC, id DESC LIMIT 1`
	var amount string
	err = s.conn.QueryRow(ctx, query, userId).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debugf("no balance record found for user %d, returning 0", userId)
			return decimal.Zero, nil
		}
		return decimal.Zero, queryError("current balance", err)
	}
	balance, err := parseNumeric(amount)
	if err != nil {
		return decimal.Zero, queryError("current balance: amount", err)
	}
	return balance, nil
}
