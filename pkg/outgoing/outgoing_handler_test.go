package outgoing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*mux.Router, func()) {
	teardown := setup(t)
	handler := NewHandler(service, money.NewFormatter("£"))
	router := mux.NewRouter()
	router.HandleFunc("/api/outgoings", handler.ListOutgoings).Methods("GET")
	router.HandleFunc("/api/outgoings", handler.AddOutgoing).Methods("POST")
	router.HandleFunc("/api/outgoings/ledger", handler.GetLedger).Methods("GET")
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	return router, teardown
}

func serve(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_AddOutgoing(t *testing.T) {
	t.Run("should store a recurring outgoing", func(t *testing.T) {
		router, teardown := setupHandler(t)
		defer teardown()

		rr := serve(router, "POST", "/api/outgoings", `{"label": "Rent", "amount": "950", "recurring": true, "recurringDay": 15}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		var dto OutgoingDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, "Rent", dto.Label)
		assert.Equal(t, "£950.00", dto.Amount.Formatted)
		assert.Equal(t, "2024-10-15", dto.PaymentDate)
		require.NotNil(t, dto.RecurringDay)
		assert.Equal(t, 15, *dto.RecurringDay)
	})

	t.Run("should answer 400 for invalid input", func(t *testing.T) {
		router, teardown := setupHandler(t)
		defer teardown()

		cases := []string{
			`{"label": "Rent"}`,
			`{"label": "Rent", "amount": "10", "paymentDate": "18/10/2024"}`,
			`{"label": "Rent", "amount": "10", "recurring": true, "recurringDay": 30}`,
			`{"label": "", "amount": "10"}`,
			`{"label": "Rent", "amount": "-10"}`,
			`not json`,
		}
		for _, body := range cases {
			rr := serve(router, "POST", "/api/outgoings", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		}
	})
}

func TestHandler_ListOutgoingsAndLedger(t *testing.T) {
	router, teardown := setupHandler(t)
	defer teardown()
	require.Equal(t, http.StatusCreated, serve(router, "POST", "/api/outgoings", `{"label": "Phone", "amount": 25.5, "paymentDate": "2024-10-02"}`).Code)
	require.Equal(t, http.StatusCreated, serve(router, "POST", "/api/outgoings", `{"label": "Gym", "amount": "30"}`).Code)

	list := serve(router, "GET", "/api/outgoings", "")
	ledgerView := serve(router, "GET", "/api/outgoings/ledger", "")

	require.Equal(t, http.StatusOK, list.Code)
	var outgoings []OutgoingDTO
	require.NoError(t, json.NewDecoder(list.Body).Decode(&outgoings))
	require.Len(t, outgoings, 2)
	assert.Equal(t, "2024-10-02", outgoings[0].PaymentDate)
	assert.Equal(t, "2024-10-18", outgoings[1].PaymentDate)

	require.Equal(t, http.StatusOK, ledgerView.Code)
	var dto LedgerDTO
	require.NoError(t, json.NewDecoder(ledgerView.Body).Decode(&dto))
	require.Len(t, dto.Entries, 2)
	assert.Equal(t, "£25.50", dto.Entries[0].TotalOutgoing.Formatted)
	assert.Equal(t, "£55.50", dto.Entries[1].TotalOutgoing.Formatted)
	assert.Equal(t, "£55.50", dto.LedgerTotal.Formatted)
}
