package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pennywise/pennywise/pkg/gateway"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusOf maps a service error to the HTTP status it is reported with.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, gateway.ErrInvalidAmount),
		errors.Is(err, gateway.ErrInvalidDay),
		errors.Is(err, gateway.ErrInvalidLabel),
		errors.Is(err, gateway.ErrInvalidDate),
		errors.Is(err, gateway.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, gateway.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, gateway.ErrConnection), errors.Is(err, gateway.ErrNotConnected):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes a JSON ErrorResponse. The status is derived from err with StatusOf.
func WriteError(w http.ResponseWriter, message string, err error) {
	status := StatusOf(err)
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	WriteErrorResponse(w, status, response)
}

func WriteErrorResponse(w http.ResponseWriter, status int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
