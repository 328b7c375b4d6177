package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/pennywise/pennywise/pkg/gateway"
	log "github.com/sirupsen/logrus"
)

// Store is the part of a gateway session the user service needs.
type Store interface {
	VerifyCredentials(ctx context.Context, username, password string) (int, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	InsertUser(ctx context.Context, username, password string) (gateway.UserRecord, error)
	GetUserByUsername(ctx context.Context, username string) (gateway.UserRecord, error)
	GetUserByUid(ctx context.Context, uid string) (gateway.UserRecord, error)
	Close()
}

// Connector opens a Store for one interaction.
type Connector func(ctx context.Context) (Store, error)

type Service interface {
	Register(ctx context.Context, username, password string) (User, error)
	Login(ctx context.Context, username, password string) (User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
}

type UserServiceImpl struct {
	connect Connector
}

func NewUserService(connect Connector) *UserServiceImpl {
	return &UserServiceImpl{connect: connect}
}

func (s *UserServiceImpl) Register(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}
	if len(password) > gateway.MaxPasswordLength {
		return User{}, ErrPasswordTooLong
	}

	store, err := s.connect(ctx)
	if err != nil {
		return User{}, err
	}
	defer store.Close()

	exists, err := store.UsernameExists(ctx, username)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, ErrUsernameTaken
	}

	record, err := store.InsertUser(ctx, username, password)
	if err != nil {
		return User{}, err
	}
	log.Debugf("registered user %s", record.Uid)
	return fromRecord(record), nil
}

// Login checks the credentials and returns the matching user.
func (s *UserServiceImpl) Login(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	store, err := s.connect(ctx)
	if err != nil {
		return User{}, err
	}
	defer store.Close()

	matches, err := store.VerifyCredentials(ctx, username, password)
	if err != nil {
		return User{}, err
	}
	if matches == 0 {
		log.Debugf("login rejected for %q", username)
		return User{}, ErrInvalidCredentials
	}

	record, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	return fromRecord(record), nil
}

func (s *UserServiceImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	store, err := s.connect(ctx)
	if err != nil {
		return false, err
	}
	defer store.Close()

	exists, err := store.UsernameExists(ctx, strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	store, err := s.connect(ctx)
	if err != nil {
		return User{}, err
	}
	defer store.Close()

	record, err := store.GetUserByUid(ctx, uid)
	if err != nil {
		return User{}, err
	}
	return fromRecord(record), nil
}
