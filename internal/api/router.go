package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/notify"
	"github.com/splitledger/splitledger/internal/storage"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(store storage.Store, jwtManager *auth.JWTManager, sms notify.Sender) http.Handler {
	h := &Handlers{
		store:         store,
		jwtManager:    jwtManager,
		authenticator: auth.NewPasswordAuthenticator(store),
		sms:           sms,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	// Public routes.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager))

		r.Get("/api/auth/profile", h.Profile)

		r.Route("/api/groups", func(r chi.Router) {
			r.Post("/", h.CreateGroup)
			r.Get("/", h.ListGroups)

			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", h.GetGroup)
				r.Post("/members", h.AddMember)
				r.Delete("/members/{userID}", h.RemoveMember)

				r.Get("/balance", h.GetBalance)
				r.Get("/debts/{userID}", h.GetPairwiseDebt)
				r.Get("/statistics", h.GetStatistics)

				r.Post("/expenses", h.CreateExpense)
				r.Get("/expenses", h.ListExpenses)

				r.Post("/settlements", h.CreateSettlement)
				r.Get("/settlements", h.ListSettlements)

				r.Post("/reminders", h.SendReminder)
			})
		})

		r.Route("/api/expenses/{expenseID}", func(r chi.Router) {
			r.Get("/", h.GetExpense)
			r.Put("/", h.UpdateExpense)
			r.Delete("/", h.DeleteExpense)
		})
	})

	return r
}
