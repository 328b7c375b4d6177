package user

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var userStoreStub = NewStubUserStore()

var service *UserServiceImpl

func setup(t *testing.T) func() {
	service = NewUserService(userStoreStub.Connector())
	return func() {
		userStoreStub.Cleanup()
	}
}

func TestUserServiceImpl_Register(t *testing.T) {
	t.Run("should register a new user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		u, err := service.Register(ctx, "  alice ", "secret")

		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.NotEmpty(t, u.Uid)
		assert.Equal(t, 1, userStoreStub.closed)
	})

	t.Run("should refuse a taken username", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		_, err := service.Register(ctx, "alice", "secret")
		require.NoError(t, err)

		_, err = service.Register(ctx, "alice", "other")

		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("should refuse empty credentials without connecting", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Register(ctx, " ", "secret")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, 0, userStoreStub.closed)
	})

	t.Run("should refuse a password bcrypt cannot hash without connecting", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Register(ctx, "alice", strings.Repeat("x", gateway.MaxPasswordLength+1))

		assert.ErrorIs(t, err, ErrPasswordTooLong)
		assert.Equal(t, 0, userStoreStub.closed)

		_, err = service.Register(ctx, "alice", strings.Repeat("x", gateway.MaxPasswordLength))
		assert.NoError(t, err)
	})

	t.Run("should return connection errors", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		failing := NewUserService(func(ctx context.Context) (Store, error) {
			return nil, fmt.Errorf("%w: refused", gateway.ErrConnection)
		})

		_, err := failing.Register(ctx, "alice", "secret")

		assert.ErrorIs(t, err, gateway.ErrConnection)
	})
}

func TestUserServiceImpl_Login(t *testing.T) {
	t.Run("should return the user for valid credentials", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		registered, err := service.Register(ctx, "alice", "secret")
		require.NoError(t, err)

		u, err := service.Login(ctx, "alice", "secret")

		require.NoError(t, err)
		assert.Equal(t, registered.Uid, u.Uid)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		_, err := service.Register(ctx, "alice", "secret")
		require.NoError(t, err)

		_, err = service.Login(ctx, "alice", "nope")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should pass query errors through", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		userStoreStub.Err = fmt.Errorf("verify credentials: %w", gateway.ErrQuery)

		_, err := service.Login(ctx, "alice", "secret")

		assert.ErrorIs(t, err, gateway.ErrQuery)
		assert.Equal(t, 1, userStoreStub.closed)
	})
}

func TestUserServiceImpl_IsUsernameAvailable(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	_, err := service.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	taken, err := service.IsUsernameAvailable(ctx, "alice")
	require.NoError(t, err)
	free, err := service.IsUsernameAvailable(ctx, "bob")
	require.NoError(t, err)

	assert.False(t, taken)
	assert.True(t, free)
}

func TestUserServiceImpl_GetUserByUid(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	registered, err := service.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	u, err := service.GetUserByUid(ctx, registered.Uid)
	require.NoError(t, err)
	assert.Equal(t, registered.Id, u.Id)

	_, err = service.GetUserByUid(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
