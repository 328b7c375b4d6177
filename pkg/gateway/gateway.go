// Package gateway is the only code that issues statements against the finance database.
//
// A Gateway hands out Sessions. A Session wraps one pooled connection for the length of a
// single user interaction: Connect, run operations, Close. Operations on a session that is
// not connected fail with ErrNotConnected before touching the store. Store failures are
// logged here and returned wrapped in ErrConnection or ErrQuery. Missing rows are values.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrConnection   = errors.New("database connection failed")
	ErrQuery        = errors.New("database query failed")
	ErrNotConnected = errors.New("not connected to the database")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDay    = errors.New("day of month out of range")
	ErrInvalidLabel  = errors.New("label is required")
	ErrInvalidDate   = errors.New("payment date is required")

	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooLong    = fmt.Errorf("password longer than %d bytes", MaxPasswordLength)
)

const uniqueViolation = "23505"

// amounts are stored as NUMERIC(14,2)
const amountScale = 2

var maxAmount = decimal.New(1, 12)

// conn is the part of a pgx connection the session uses.
type conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Gateway struct {
	pool           *pgxpool.Pool
	connectTimeout time.Duration
	queryTimeout   time.Duration
}

func New(pool *pgxpool.Pool, connectTimeout, queryTimeout time.Duration) *Gateway {
	return &Gateway{pool: pool, connectTimeout: connectTimeout, queryTimeout: queryTimeout}
}

// Connect acquires a connection for one interaction. The caller must Close the session.
func (g *Gateway) Connect(ctx context.Context) (*Session, error) {
	if g == nil || g.pool == nil {
		err := fmt.Errorf("%w: no database pool configured", ErrConnection)
		log.Error(err)
		return nil, err
	}
	if g.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.connectTimeout)
		defer cancel()
	}

	pooled, err := g.pool.Acquire(ctx)
	if err != nil {
		err := fmt.Errorf("%w: %w", ErrConnection, err)
		log.Error(err)
		return nil, err
	}
	log.Trace("database connection acquired")
	return &Session{conn: pooled, release: pooled.Release, queryTimeout: g.queryTimeout}, nil
}

type Session struct {
	conn         conn
	release      func()
	queryTimeout time.Duration
}

// Close releases the connection. It is safe on a nil session, a session that never
// connected, and a session that is already closed.
func (s *Session) Close() {
	if s == nil || s.conn == nil {
		return
	}
	if s.release != nil {
		s.release()
	}
	s.conn = nil
	s.release = nil
	log.Trace("database connection released")
}

func (s *Session) Connected() bool {
	return s != nil && s.conn != nil
}

// begin checks the connection and applies the query timeout. The returned cancel is never nil.
func (s *Session) begin(ctx context.Context, op string) (context.Context, context.CancelFunc, error) {
	if !s.Connected() {
		err := fmt.Errorf("%s: %w", op, ErrNotConnected)
		log.Error(err)
		return ctx, func() {}, err
	}
	if s.queryTimeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
		return ctx, cancel, nil
	}
	return ctx, func() {}, nil
}

func queryError(op string, err error) error {
	err = fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
	log.Error(err)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// numeric columns are read as text so decimal keeps the exact stored value
func parseNumeric(text string) (decimal.Decimal, error) {
	return decimal.NewFromString(text)
}

// checkAmount rounds amount to the stored scale, so the returned value is exactly what a
// later read gives back.
func checkAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount.String())
	}
	rounded := amount.Round(amountScale)
	if rounded.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, amount.String())
	}
	return rounded, nil
}

func checkDay(day *int, last int) error {
	if day != nil && (*day < 1 || *day > last) {
		return fmt.Errorf("%w: %d not in 1..%d", ErrInvalidDay, *day, last)
	}
	return nil
}

var clearQueries = []string{
	"DELETE FROM income",
	"DELETE FROM balance",
	"DELETE FROM outgoings",
}

var clearUserQueries = []string{
	"DELETE FROM income WHERE user_id = $1",
	"DELETE FROM balance WHERE user_id = $1",
	"DELETE FROM outgoings WHERE user_id = $1",
}

// Clear deletes every income, balance and outgoing row of every user in one transaction.
// Users are kept.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.clear(ctx, "clear", clearQueries); err != nil {
		return err
	}
	log.Info("Database cleared")
	return nil
}

// ClearUser deletes the income, balance and outgoing rows of one user in one transaction.
func (s *Session) ClearUser(ctx context.Context, userId int) error {
	if err := s.clear(ctx, "clear user", clearUserQueries, userId); err != nil {
		return err
	}
	log.Infof("Finance data of user %d cleared", userId)
	return nil
}

func (s *Session) clear(ctx context.Context, op string, queries []string, args ...any) error {
	ctx, cancel, err := s.begin(ctx, op)
	defer cancel()
	if err != nil {
		return err
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return queryError(op+": begin", err)
	}
	defer tx.Rollback(ctx)

	for _, query := range queries {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return queryError(op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return queryError(op+": commit", err)
	}
	return nil
}
