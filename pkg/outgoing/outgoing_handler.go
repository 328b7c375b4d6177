package outgoing

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pennywise/pennywise/internal/rest"
	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/pennywise/pennywise/pkg/ledger"
	"github.com/pennywise/pennywise/pkg/money"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type OutgoingDTO struct {
	Id           int         `json:"id"`
	Label        string      `json:"label"`
	Amount       money.Value `json:"amount"`
	PaymentDate  string      `json:"paymentDate"`
	Recurring    bool        `json:"recurring"`
	RecurringDay *int        `json:"recurringDay,omitempty"`
}

type NewOutgoingDTO struct {
	Label        string           `json:"label"`
	Amount       *decimal.Decimal `json:"amount"`
	PaymentDate  string           `json:"paymentDate,omitempty"`
	Recurring    bool             `json:"recurring"`
	RecurringDay *int             `json:"recurringDay,omitempty"`
}

type LedgerEntryDTO struct {
	Title         string      `json:"title"`
	Amount        money.Value `json:"amount"`
	Date          string      `json:"date"`
	TotalOutgoing money.Value `json:"totalOutgoing"`
}

type LedgerDTO struct {
	Entries     []LedgerEntryDTO `json:"entries"`
	LedgerTotal money.Value      `json:"ledgerTotal"`
}

type Handler struct {
	service   Service
	formatter money.Formatter
}

func NewHandler(service Service, formatter money.Formatter) *Handler {
	return &Handler{service: service, formatter: formatter}
}

// ListOutgoings godoc
// @Summary List the user's outgoings
// @Tags Outgoings
// @Produce json
// @Success 200 {array} OutgoingDTO
// @Router /api/outgoings [get]
// @Security XUserId
func (h *Handler) ListOutgoings(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing outgoings")
	records, err := h.service.List(r.Context())
	if err != nil {
		rest.WriteError(w, "Failed to list outgoings", err)
		return
	}

	dtos := make([]OutgoingDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, h.toDTO(record))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// AddOutgoing godoc
// @Summary Record an outgoing
// @Description Recurring outgoings are dated on recurringDay of the current month
// @Tags Outgoings
// @Accept json
// @Produce json
// @Param outgoing body NewOutgoingDTO true "Outgoing"
// @Success 201 {object} OutgoingDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid input"
// @Router /api/outgoings [post]
// @Security XUserId
func (h *Handler) AddOutgoing(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding outgoing")
	var dto NewOutgoingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format", Details: err.Error()})
		return
	}
	if dto.Amount == nil {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Amount is required"})
		return
	}

	outgoing := NewOutgoing{
		Label:        dto.Label,
		Amount:       money.Round(*dto.Amount),
		Recurring:    dto.Recurring,
		RecurringDay: dto.RecurringDay,
	}
	if dto.PaymentDate != "" {
		date, err := time.Parse(dateLayout, dto.PaymentDate)
		if err != nil {
			rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid payment date", Details: err.Error()})
			return
		}
		outgoing.PaymentDate = date
	}

	record, err := h.service.Add(r.Context(), outgoing)
	if err != nil {
		rest.WriteError(w, "Failed to store outgoing", err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, h.toDTO(record))
}

// GetLedger godoc
// @Summary Ledger cache of recorded outgoings
// @Description ledgerTotal covers entries recorded since the cache was created, unlike the all-time totalOutgoing
// @Tags Outgoings
// @Produce json
// @Success 200 {object} LedgerDTO
// @Router /api/outgoings/ledger [get]
// @Security XUserId
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	log.Debug("Reading ledger cache")
	cache, err := h.service.Ledger(r.Context())
	if err != nil {
		rest.WriteError(w, "Failed to read ledger", err)
		return
	}

	entries := cache.Entries()
	dto := LedgerDTO{
		Entries:     make([]LedgerEntryDTO, 0, len(entries)),
		LedgerTotal: h.formatter.Value(cache.Total()),
	}
	for _, e := range entries {
		dto.Entries = append(dto.Entries, h.entryToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

func (h *Handler) toDTO(record gateway.OutgoingRecord) OutgoingDTO {
	return OutgoingDTO{
		Id:           record.Id,
		Label:        record.Label,
		Amount:       h.formatter.Value(record.Amount),
		PaymentDate:  record.PaymentDate.Format(dateLayout),
		Recurring:    record.Recurring,
		RecurringDay: record.RecurringDate,
	}
}

func (h *Handler) entryToDTO(e ledger.Entry) LedgerEntryDTO {
	return LedgerEntryDTO{
		Title:         e.Title,
		Amount:        h.formatter.Value(e.Amount),
		Date:          e.Date.Format(dateLayout),
		TotalOutgoing: h.formatter.Value(e.TotalOutgoing),
	}
}
