package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/splitclear/internal/adapter/http/handler"
	"github.com/iho/splitclear/internal/adapter/http/middleware"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	Expenses  *handler.ExpenseHandler
	Members   *handler.MemberHandler
	Balances  *handler.BalanceHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler

	Verifier         middleware.TokenVerifier
	IdempotencyStore middleware.ResponseStore
	Logger           zerolog.Logger
}

// NewRouter assembles the served API. Health and metrics stay outside the
// authenticated group; everything under /api/v1 requires a valid session.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Metrics)

	r.Get("/healthz", deps.Health.Live)
	r.Get("/readyz", deps.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Auth(deps.Verifier))
		if deps.IdempotencyStore != nil {
			api.Use(middleware.Idempotency(deps.IdempotencyStore, deps.Logger))
		}

		api.Route("/expenses", func(er chi.Router) {
			er.Get("/summary", deps.Balances.Summary)
			deps.Expenses.Routes(er)
		})
		api.Route("/members", deps.Members.Routes)
		api.Get("/dashboard", deps.Dashboard.Overview)
	})

	return r
}
