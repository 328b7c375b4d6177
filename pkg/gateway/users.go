package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// VerifyCredentials returns how many users match username and password; 0 means invalid.
// Passwords are compared against the stored bcrypt hash, never as plain text.
func (s *Session) VerifyCredentials(ctx context.Context, username, password string) (int, error) {
	ctx, cancel, err := s.begin(ctx, "verify credentials")
	defer cancel()
	if err != nil {
		return 0, err
	}
	if username == "" || password == "" {
		return 0, nil
	}

	rows, err := s.conn.Query(ctx, `SELECT password_hash FROM users WHERE username = $1`, username)
	if err != nil {
		return 0, queryError("verify credentials", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return 0, queryError("verify credentials: scan", err)
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil {
			count++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, queryError("verify credentials: rows", err)
	}
	return count, nil
}

func (s *Session) UsernameExists(ctx context.Context, username string) (bool, error) {
	ctx, cancel, err := s.begin(ctx, "username exists")
	defer cancel()
	if err != nil {
		return false, err
	}

	var count int
	err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username = $1`, username).Scan(&count)
	if err != nil {
		return false, queryError("username exists", err)
	}
	return count > 0, nil
}

// InsertUser stores a new user with a bcrypt hash of password and a fresh uid.
func (s *Session) InsertUser(ctx context.Context, username, password string) (UserRecord, error) {
	ctx, cancel, err := s.begin(ctx, "insert user")
	defer cancel()
	if err != nil {
		return UserRecord{}, err
	}
	if username == "" || password == "" {
		return UserRecord{}, ErrInvalidCredentials
	}
	if len(password) > MaxPasswordLength {
		return UserRecord{}, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return UserRecord{}, fmt.Errorf("insert user: hash password: %w", err)
	}

	u := UserRecord{
		Uid:          uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
	}
	query := `INSERT INTO users (uid, username, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = s.conn.QueryRow(ctx, query, u.Uid, u.Username, u.PasswordHash).Scan(&u.Id, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debugf("username %q already taken", username)
			return UserRecord{}, ErrUsernameTaken
		}
		return UserRecord{}, queryError("insert user", err)
	}
	log.Infof("User %d created", u.Id)
	return u, nil
}

func (s *Session) GetUserByUsername(ctx context.Context, username string) (UserRecord, error) {
	return s.getUser(ctx, "get user by username", `WHERE username = $1`, username)
}

func (s *Session) GetUserByUid(ctx context.Context, uid string) (UserRecord, error) {
	return s.getUser(ctx, "get user by uid", `WHERE uid = $1`, uid)
}

func (s *Session) getUser(ctx context.Context, op string, where string, arg string) (UserRecord, error) {
	ctx, cancel, err := s.begin(ctx, op)
	defer cancel()
	if err != nil {
		return UserRecord{}, err
	}

	var u UserRecord
	err = s.conn.QueryRow(ctx, `SELECT id, uid, username, password_hash, created_at FROM users `+where, arg).
		Scan(&u.Id, &u.Uid, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, queryError(op, err)
	}
	return u, nil
}
