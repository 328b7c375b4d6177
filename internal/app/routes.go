package app

import (
	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/login", deps.UserHandler.Login).Methods("POST")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(requireUser)

	// Home
	api.HandleFunc("/home", deps.HomeHandler.GetOverview).Methods("GET")
	api.HandleFunc("/home/income", deps.HomeHandler.UpdateIncome).Methods("PUT")
	api.HandleFunc("/home/balance", deps.HomeHandler.UpdateBalance).Methods("PUT")
	api.HandleFunc("/home/data", deps.HomeHandler.ClearData).Methods("DELETE")

	// Forecast
	api.HandleFunc("/forecast", deps.HomeHandler.GetForecast).Methods("GET")
	api.HandleFunc("/forecast/csv", deps.HomeHandler.GetForecastCsv).Methods("GET")

	// Outgoings
	api.HandleFunc("/outgoings", deps.OutgoingHandler.ListOutgoings).Methods("GET")
	api.HandleFunc("/outgoings", deps.OutgoingHandler.AddOutgoing).Methods("POST")
	api.HandleFunc("/outgoings/ledger", deps.OutgoingHandler.GetLedger).Methods("GET")
}
