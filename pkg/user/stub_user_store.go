package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise/pkg/gateway"
)

type stubUser struct {
	record   gateway.UserRecord
	password string
}

// StubUserStore keeps users in memory. It counts Close calls so tests can check
// that every interaction releases its session.
type StubUserStore struct {
	users  []stubUser
	nextId int
	closed int
	// Err, when set, is returned by every operation.
	Err error
}

func NewStubUserStore() *StubUserStore {
	return &StubUserStore{}
}

func (s *StubUserStore) Connector() Connector {
	return func(ctx context.Context) (Store, error) {
		return s, nil
	}
}

func (s *StubUserStore) VerifyCredentials(ctx context.Context, username, password string) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	count := 0
	for _, u := range s.users {
		if u.record.Username == username && u.password == password {
			count++
		}
	}
	return count, nil
}

func (s *StubUserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	_, err := s.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (s *StubUserStore) InsertUser(ctx context.Context, username, password string) (gateway.UserRecord, error) {
	if s.Err != nil {
		return gateway.UserRecord{}, s.Err
	}
	if len(password) > gateway.MaxPasswordLength {
		return gateway.UserRecord{}, gateway.ErrPasswordTooLong
	}
	if exists, _ := s.UsernameExists(ctx, username); exists {
		return gateway.UserRecord{}, gateway.ErrUsernameTaken
	}
	s.nextId++
	record := gateway.UserRecord{
		Id:           s.nextId,
		Uid:          uuid.NewString(),
		Username:     username,
		PasswordHash: "hashed:" + password,
		CreatedAt:    time.Now(),
	}
	s.users = append(s.users, stubUser{record: record, password: password})
	return record, nil
}

func (s *StubUserStore) GetUserByUsername(ctx context.Context, username string) (gateway.UserRecord, error) {
	if s.Err != nil {
		return gateway.UserRecord{}, s.Err
	}
	for _, u := range s.users {
		if u.record.Username == username {
			return u.record, nil
		}
	}
	return gateway.UserRecord{}, gateway.ErrUserNotFound
}

func (s *StubUserStore) GetUserByUid(ctx context.Context, uid string) (gateway.UserRecord, error) {
	if s.Err != nil {
		return gateway.UserRecord{}, s.Err
	}
	for _, u := range s.users {
		if u.record.Uid == uid {
			return u.record, nil
		}
	}
	return gateway.UserRecord{}, gateway.ErrUserNotFound
}

func (s *StubUserStore) Close() {
	s.closed++
}

func (s *StubUserStore) Cleanup() {
	s.users = nil
	s.nextId = 0
	s.closed = 0
	s.Err = nil
}
