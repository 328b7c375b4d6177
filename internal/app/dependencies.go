package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/forecast"
	"github.com/pennywise/pennywise/pkg/gateway"
	"github.com/pennywise/pennywise/pkg/home"
	"github.com/pennywise/pennywise/pkg/ledger"
	"github.com/pennywise/pennywise/pkg/money"
	"github.com/pennywise/pennywise/pkg/outgoing"
	"github.com/pennywise/pennywise/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Gateway   *gateway.Gateway
	EventBus  *event_bus.EventBus
	Clock     utils.Clock
	Formatter money.Formatter

	UserService user.Service
	UserHandler *user.Handler

	ForecastRenderer *forecast.CsvRenderer
	HomeService      *home.ServiceImpl
	HomeHandler      *home.Handler

	LedgerStore     *ledger.Store
	OutgoingService *outgoing.ServiceImpl
	OutgoingHandler *outgoing.Handler

	unsubscribeLedger func()
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(pool *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Gateway = gateway.New(pool, cfg.Database.ConnectTimeout, cfg.Database.QueryTimeout)
	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = utils.SystemClock{}
	deps.Formatter = money.NewFormatter(cfg.Currency.Symbol)

	deps.UserService = user.NewUserService(userConnector(deps.Gateway))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.ForecastRenderer = forecast.NewCsvRenderer(deps.Formatter)
	deps.HomeService = home.NewService(homeConnector(deps.Gateway), deps.Clock, deps.ForecastRenderer)
	deps.HomeHandler = home.NewHandler(deps.HomeService, deps.Formatter)

	deps.LedgerStore = ledger.NewStore(cfg.Ledger.Dir)
	deps.unsubscribeLedger = deps.LedgerStore.Subscribe(deps.EventBus)
	deps.OutgoingService = outgoing.NewService(outgoingConnector(deps.Gateway), deps.LedgerStore, deps.EventBus, deps.Clock)
	deps.OutgoingHandler = outgoing.NewHandler(deps.OutgoingService, deps.Formatter)

	return deps
}

// The connectors return a nil interface on failure, never a typed nil session.

func userConnector(gw *gateway.Gateway) user.Connector {
	return func(ctx context.Context) (user.Store, error) {
		session, err := gw.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

func homeConnector(gw *gateway.Gateway) home.Connector {
	return func(ctx context.Context) (home.Store, error) {
		session, err := gw.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

func outgoingConnector(gw *gateway.Gateway) outgoing.Connector {
	return func(ctx context.Context) (outgoing.Store, error) {
		session, err := gw.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}
