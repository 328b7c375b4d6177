package user

import (
	"time"

	"github.com/pennywise/pennywise/pkg/gateway"
)

var (
	ErrUserNotFound       = gateway.ErrUserNotFound
	ErrUsernameTaken      = gateway.ErrUsernameTaken
	ErrInvalidCredentials = gateway.ErrInvalidCredentials
	ErrPasswordTooLong    = gateway.ErrPasswordTooLong
)

type User struct {
	Id       int
	Uid      string
	Username string
	// PasswordHash is a bcrypt hash; the plain password is never stored.
	PasswordHash string
	CreatedAt    time.Time
}

func fromRecord(r gateway.UserRecord) User {
	return User{
		Id:           r.Id,
		Uid:          r.Uid,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}
