package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/internal/database"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	pool   *pgxpool.Pool
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}
	pool, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	deps := BuildDependencies(pool, cfg)

	SetupMiddleware(r, deps, cfg)

	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, pool: pool, deps: deps, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	defer a.Close()
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}

func (a *Application) Close() {
	if a.deps != nil && a.deps.unsubscribeLedger != nil {
		a.deps.unsubscribeLedger()
		a.deps.unsubscribeLedger = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
