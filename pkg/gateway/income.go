package gateway

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func (s *Session) InsertIncomeRecord(ctx context.Context, userId int, amount decimal.Decimal, incomeChangeDay *int) (IncomeRecord, error) {
	ctx, cancel, err := s.begin(ctx, "insert income")
	defer cancel()
	if err != nil {
		return IncomeRecord{}, err
	}
	amount, err = checkAmount(amount)
	if err != nil {
		return IncomeRecord{}, err
	}
	if err := checkDay(incomeChangeDay, MaxIncomeChangeDay); err != nil {
		return IncomeRecord{}, err
	}

	record := IncomeRecord{UserId: userId, Amount: amount, IncomeChangeDay: incomeChangeDay}
	query := `INSERT INTO income (user_id, amount, income_change_day) VALUES ($1, $2::numeric, $3) RETURNING id, updated_at`
	err = s.conn.QueryRow(ctx, query, userId, amount.String(), incomeChangeDay).Scan(&record.Id, &record.UpdatedAt)
	if err != nil {
		return IncomeRecord{}, queryError("insert income", err)
	}
	log.Debugf("income record %d stored for user %d", record.Id, userId)
	return record, nil
}

// LatestIncome returns the most recent income record, or the zero record with a zero
// amount when the user has none. Equal timestamps resolve to the highest id.
func (s *Session) LatestIncome(ctx context.Context, userId int) (IncomeRecord, error) {
	ctx, cancel, err := s.begin(ctx, "latest income")
	defer cancel()
	if err != nil {
		return IncomeRecord{}, err
	}
	return s.latestIncome(ctx, userId)
}

func (s *Session) latestIncome(ctx context.Context, userId int) (IncomeRecord, error) {
	query := `SELECT id, amount::text, income_change_day, updated_at FROM income
			  WHERE user_id = $1 ORDER BY updated_at DESC, id DESC LIMIT 1`

	var (
		record    = IncomeRecord{UserId: userId, Amount: decimal.Zero}
		amount    string
		changeDay sql.NullInt64
	)
	err := s.conn.QueryRow(ctx, query, userId).Scan(&record.Id, &amount, &changeDay, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debugf("no income record found for user %d, returning 0", userId)
			return record, nil
		}
		return IncomeRecord{}, queryError("latest income", err)
	}
	if record.Amount, err = parseNumeric(amount); err != nil {
		return IncomeRecord{}, queryError("latest income: amount", err)
	}
	if changeDay.Valid {
		day := int(changeDay.Int64)
		record.IncomeChangeDay = &day
	}
	return record, nil
}

// IncomeAndOutgoing returns the latest monthly income and the sum of every outgoing of the user.
// The two values come from separate statements, not one snapshot.
func (s *Session) IncomeAndOutgoing(ctx context.Context, userId int) (monthlyIncome, totalOutgoing decimal.Decimal, err error) {
	ctx, cancel, err := s.begin(ctx, "income and outgoing")
	defer cancel()
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	income, err := s.latestIncome(ctx, userId)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalOutgoing, err = s.totalOutgoing(ctx, userId)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return income.Amount, totalOutgoing, nil
}

// TotalOutgoing returns the sum of every outgoing of the user, or zero when there are none.
func (s *Session) TotalOutgoing(ctx context.Context, userId int) (decimal.Decimal, error) {
	ctx, cancel, err := s.begin(ctx, "total outgoing")
	defer cancel()
	if err != nil {
		return decimal.Zero, err
	}
	return s.totalOutgoing(ctx, userId)
}

func (s *Session) totalOutgoing(ctx context.Context, userId int) (decimal.Decimal, error) {
	var total string
	err := s.conn.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::text FROM outgoings WHERE user_id = $1`, userId).Scan(&total)
	if err != nil {
		return decimal.Zero, queryError("total outgoing", err)
	}
	sum, err := parseNumeric(total)
	if err != nil {
		return decimal.Zero, queryError("total outgoing: amount", err)
	}
	return sum, nil
}
