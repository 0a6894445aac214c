package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/brazaforte/internal/http/account"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/budget"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/category"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/client"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/importcsv"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/matching"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/transaction"
)

type Handlers struct {
	Clients      *client.Handler
	Categories   *category.Handler
	Accounts     *account.Handler
	Transactions *transaction.Handler
	Budgets      *budget.Handler
	Import       *importcsv.Handler
	Rules        *matching.Handler
	Finance      *finance.Handler
}

// New mounts every handler under /api/v1 behind authenticate. Only /healthz
// is served without credentials.
func New(h Handlers, authenticate func(http.Handler) http.Handler, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))

			r.Route("/clients", h.Clients.Routes)
			r.Route("/categories", h.Categories.Routes)
			r.Route("/accounts", h.Accounts.Routes)
			r.Route("/transactions", h.Transactions.Routes)
			r.Route("/budgets", h.Budgets.Routes)
			r.Route("/rules", h.Rules.Routes)
			r.Route("/finance", h.Finance.Routes)
		})

		r.Route("/import", h.Import.Routes)
	})

	return router
}
