package api

import (
	"log/slog"
	"net/http"

	"ledger-server/src/config"
	"ledger-server/src/handlers"
	"ledger-server/src/middleware"
	"ledger-server/src/services"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(svc *services.Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.DemoModeMiddleware(cfg.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(svc.Users))
		r.Post("/register", handlers.Register(svc.Users))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(svc.Users)).Group(func(r chi.Router) {
			// User
			r.Get("/user", handlers.GetUser(svc.Users))
			r.Put("/user", handlers.UpdateUser(svc.Users))
			r.Post("/user/change-password", handlers.ChangePassword(svc.Users))
			r.Delete("/user", handlers.DeleteUser(svc.Users))

			// Account
			r.Get("/account", handlers.GetAccount(svc.Ledger))
			r.Post("/account/init", handlers.GetAccount(svc.Ledger))

			// Transactions
			r.Get("/transactions", handlers.ListTransactions(svc.Ledger))
			r.Post("/transactions", handlers.RecordTransaction(svc.Ledger))
			r.Get("/transactions/{id}", handlers.GetTransaction(svc.Ledger))
			r.Put("/transactions/{id}", handlers.UpdateTransaction(svc.Ledger))
			r.Delete("/transactions/{id}", handlers.DeleteTransaction(svc.Ledger))

			// Categories
			r.Get("/categories", handlers.ListCategories(svc.Categories))
			r.Post("/categories", handlers.CreateCategory(svc.Categories))
			r.Post("/categories/init", handlers.InitCategories(svc.Categories))
			r.Patch("/categories/{id}", handlers.UpdateCategory(svc.Categories))
			r.Delete("/categories/{id}", handlers.DeleteCategory(svc.Categories))

			// Budget
			r.Get("/limit", handlers.GetLimit(svc.Budgets))
			r.Post("/limit", handlers.SetLimit(svc.Budgets))

			// Summaries
			r.Get("/summary", handlers.BudgetSummary(svc.Summary))
			r.Get("/summary/categories", handlers.CategorySummary(svc.Summary))
			r.Get("/summary/category-monthly", handlers.CategoryMonthlySummary(svc.Summary))
			r.Get("/summary/monthly", handlers.MonthlySummary(svc.Summary))
			r.Get("/summary/dashboard", handlers.DashboardSummary(svc.Summary))
		})
	})

	return r
}
