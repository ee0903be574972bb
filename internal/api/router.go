package api

import (
	"net/http"

	"github.com/fastprodman/smscoins/internal/identity"
	"github.com/fastprodman/smscoins/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the router needs.
type Deps struct {
	SMS       SMSService
	Wallet    WalletService
	Verifier  identity.Verifier
	Limiter   ratelimit.Limiter
	AdminRole string
}

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(d Deps) http.Handler {
	h := NewHandler(d.SMS, d.Wallet)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HealthHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rates", h.RatesHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate(d.Verifier))

			r.Post("/account", h.CreateAccountHandler)
			r.Get("/account", h.GetAccountHandler)
			r.Get("/account/purchases", h.PurchasesHandler)

			r.Post("/sms/quote", h.QuoteHandler)
			r.Get("/sms/history", h.HistoryHandler)
			r.With(admit(d.Limiter)).Post("/sms/send", h.SendHandler)

			r.With(requireRole(d.AdminRole)).Post("/admin/accounts/{accountId}/credits", h.CreditHandler)
		})
	})

	return r
}
