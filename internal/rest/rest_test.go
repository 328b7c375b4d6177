package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("insert: %w", gateway.ErrInvalidAmount), http.StatusBadRequest},
		{gateway.ErrInvalidDay, http.StatusBadRequest},
		{gateway.ErrPasswordTooLong, http.StatusBadRequest},
		{fmt.Errorf("connect: %w: timeout", gateway.ErrConnection), http.StatusServiceUnavailable},
		{fmt.Errorf("current balance: %w", gateway.ErrNotConnected), http.StatusServiceUnavailable},
		{fmt.Errorf("all outgoings: %w: boom", gateway.ErrQuery), http.StatusInternalServerError},
		{gateway.ErrUsernameTaken, http.StatusConflict},
		{gateway.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("get user by uid: %w", gateway.ErrUserNotFound), http.StatusNotFound},
		{errors.New("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, StatusOf(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, "Failed to store balance", fmt.Errorf("insert balance: %w", gateway.ErrNotConnected))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "Failed to store balance", body.Error)
	assert.Contains(t, body.Details, "not connected")
}
