package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/school-payments/internal"
	"github.com/frahmantamala/school-payments/internal/auth"
	"github.com/frahmantamala/school-payments/internal/order"
	"github.com/frahmantamala/school-payments/internal/school"
	"github.com/frahmantamala/school-payments/internal/transaction"
	"github.com/frahmantamala/school-payments/internal/transport/middleware"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	School      *school.Handler
	Order       *order.Handler
	Transaction *transaction.Handler
	Health      *HealthHandler
	Swagger     http.Handler
}

// NewRouter wires middleware and routes. Verification and the gateway
// redirect callback stay public: the gateway's browser redirect carries no
// dashboard credentials.
func NewRouter(logger *slog.Logger, cfg internal.ServerConfig, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if h.Swagger != nil {
		r.Mount("/docs", h.Swagger)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", h.Health.Ping)
		r.Get("/health", h.Health.Health)

		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.Refresh)

		r.Get("/order/verify-payment", h.Order.VerifyPayment)
		r.Get("/payment/callback", h.Order.HandleCallback)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.AuthMiddleware)

			r.Get("/auth/me", h.Auth.Me)

			r.Post("/school", h.School.CreateSchool)
			r.Get("/school", h.School.ListSchools)
			r.Get("/school/{schoolID}", h.School.GetSchool)

			r.Post("/order/create-payment", h.Order.CreatePayment)

			r.Get("/transaction", h.Transaction.ListTransactions)
			r.Get("/transaction/overview", h.Transaction.Overview)
			r.Get("/transaction/status/{orderID}", h.Transaction.TransactionStatus)
			r.Get("/transaction/school/{schoolID}", h.Transaction.ListBySchool)
		})
	})

	return r
}
