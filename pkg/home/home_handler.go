package home

import (
	"encoding/json"
	"net/http"

	"github.com/pennywise/pennywise/internal/rest"
	"github.com/pennywise/pennywise/pkg/forecast"
	"github.com/pennywise/pennywise/pkg/money"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ForecastRowDTO struct {
	Month     string      `json:"month"`
	Date      string      `json:"date"`
	Balance   money.Value `json:"balance"`
	NetChange money.Value `json:"netChange"`
}

type SummaryDTO struct {
	FinalBalance  money.Value `json:"finalBalance"`
	LowestBalance money.Value `json:"lowestBalance"`
	LowestMonth   string      `json:"lowestMonth"`
}

type OverviewDTO struct {
	AsOf            string           `json:"asOf"`
	MonthlyIncome   money.Value      `json:"monthlyIncome"`
	IncomeChangeDay *int             `json:"incomeChangeDay,omitempty"`
	TotalOutgoing   money.Value      `json:"totalOutgoing"`
	Balance         money.Value      `json:"balance"`
	NetChange       money.Value      `json:"netChange"`
	Forecast        []ForecastRowDTO `json:"forecast"`
	Summary         SummaryDTO       `json:"summary"`
}

type IncomeDTO struct {
	Amount          *decimal.Decimal `json:"amount"`
	IncomeChangeDay *int             `json:"incomeChangeDay,omitempty"`
}

type BalanceDTO struct {
	Amount *decimal.Decimal `json:"amount"`
}

type Handler struct {
	service   Service
	formatter money.Formatter
}

func NewHandler(service Service, formatter money.Formatter) *Handler {
	return &Handler{service: service, formatter: formatter}
}

// GetOverview godoc
// @Summary Home view
// @Description Income, all-time outgoing, balance and the projection to December
// @Tags Home
// @Produce json
// @Success 200 {object} OverviewDTO
// @Failure 503 {object} rest.ErrorResponse "Database unavailable"
// @Router /api/home [get]
// @Security XUserId
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting home overview")
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		rest.WriteError(w, "Failed to load overview", err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.toDTO(overview))
}

// UpdateIncome godoc
// @Summary Record the monthly income
// @Tags Home
// @Accept json
// @Produce json
// @Param income body IncomeDTO true "Income"
// @Success 200 {object} IncomeDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid amount or day"
// @Router /api/home/income [put]
// @Security XUserId
func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating income")
	var dto IncomeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format", Details: err.Error()})
		return
	}
	if dto.Amount == nil {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Amount is required"})
		return
	}

	record, err := h.service.UpdateIncome(r.Context(), money.Round(*dto.Amount), dto.IncomeChangeDay)
	if err != nil {
		rest.WriteError(w, "Failed to store income", err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, IncomeDTO{Amount: &record.Amount, IncomeChangeDay: record.IncomeChangeDay})
}

// UpdateBalance godoc
// @Summary Record the current balance
// @Tags Home
// @Accept json
// @Produce json
// @Param balance body BalanceDTO true "Balance"
// @Success 200 {object} BalanceDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid amount"
// @Router /api/home/balance [put]
// @Security XUserId
func (h *Handler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating balance")
	var dto BalanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format", Details: err.Error()})
		return
	}
	if dto.Amount == nil {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Amount is required"})
		return
	}

	record, err := h.service.UpdateBalance(r.Context(), money.Round(*dto.Amount))
	if err != nil {
		rest.WriteError(w, "Failed to store balance", err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BalanceDTO{Amount: &record.Amount})
}

// ClearData godoc
// @Summary Delete the income, balance and outgoing records of the current user
// @Tags Home
// @Success 204
// @Router /api/home/data [delete]
// @Security XUserId
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	log.Debug("Clearing finance data")
	if err := h.service.Clear(r.Context()); err != nil {
		rest.WriteError(w, "Failed to clear data", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetForecast godoc
// @Summary Balance projection
// @Description JSON rows by default, CSV when the Accept header is text/csv
// @Tags Home
// @Produce json
// @Produce text/csv
// @Success 200 {array} ForecastRowDTO
// @Router /api/forecast [get]
// @Security XUserId
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Accept") == "text/csv" {
		h.GetForecastCsv(w, r)
		return
	}
	log.Debug("Getting forecast")
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		rest.WriteError(w, "Failed to load forecast", err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.rowsToDTO(overview.Forecast))
}

// GetForecastCsv godoc
// @Summary Balance projection as a CSV download
// @Tags Home
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /api/forecast/csv [get]
// @Security XUserId
func (h *Handler) GetForecastCsv(w http.ResponseWriter, r *http.Request) {
	log.Debug("Rendering forecast CSV")
	csv, err := h.service.ForecastCsv(r.Context())
	if err != nil {
		rest.WriteError(w, "Failed to render forecast", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="forecast.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("failed to write forecast csv: %v", err)
	}
}

func (h *Handler) rowsToDTO(points []forecast.Point) []ForecastRowDTO {
	rows := forecast.Rows(points, h.formatter)
	dtos := make([]ForecastRowDTO, 0, len(points))
	for i, p := range points {
		dtos = append(dtos, ForecastRowDTO{
			Month:     rows[i].Month,
			Date:      p.Month.Format("2006-01-02"),
			Balance:   money.Value{Amount: p.Balance, Formatted: rows[i].Balance},
			NetChange: money.Value{Amount: p.NetChange, Formatted: rows[i].NetChange},
		})
	}
	return dtos
}

func (h *Handler) toDTO(o Overview) OverviewDTO {
	dto := OverviewDTO{
		AsOf:            o.AsOf.Format("2006-01-02"),
		MonthlyIncome:   h.formatter.Value(o.MonthlyIncome),
		IncomeChangeDay: o.IncomeChangeDay,
		TotalOutgoing:   h.formatter.Value(o.TotalOutgoing),
		Balance:         h.formatter.Value(o.Balance),
		NetChange:       h.formatter.Value(o.NetChange),
		Forecast:        h.rowsToDTO(o.Forecast),
		Summary: SummaryDTO{
			FinalBalance:  h.formatter.Value(o.Summary.FinalBalance),
			LowestBalance: h.formatter.Value(o.Summary.LowestBalance),
		},
	}
	if !o.Summary.LowestMonth.IsZero() {
		dto.Summary.LowestMonth = o.Summary.LowestMonth.Format("Jan")
	}
	return dto
}
