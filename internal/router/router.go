package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contractpro/contractpro/internal/handler"
	"github.com/contractpro/contractpro/internal/middleware"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/service"
	"github.com/contractpro/contractpro/internal/storage"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Contracts     *handler.ContractHandler
	Vendors       *handler.VendorHandler
	Users         *handler.UserHandler
	Notifications *handler.NotificationHandler
	Reports       *handler.ReportHandler
	Archive       *handler.ArchiveHandler
	Health        *handler.HealthHandler
}

func New(h Handlers, tokens service.TokenService, users storage.UserStorage) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.MetricsMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.Health.Liveness)
	r.Get("/readyz", h.Health.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, users))

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/notifications", h.Notifications.Feed)
			r.Get("/dashboard/stats", h.Contracts.DashboardStats)

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", h.Contracts.List)
				r.Post("/", h.Contracts.Upload)
				r.Get("/{id}", h.Contracts.Get)
				r.Get("/{id}/download", h.Contracts.Download)
				r.Get("/{id}/activities", h.Contracts.Activities)
				r.Post("/{id}/review", h.Contracts.SubmitReview)
				r.With(middleware.RequireRole(model.RoleAdmin)).
					Patch("/{id}/status", h.Contracts.SetStatus)
			})

			r.Route("/vendors", func(r chi.Router) {
				r.With(middleware.RequireRole(model.RoleAdmin)).Post("/", h.Vendors.Create)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(model.RoleVendor))
					r.Get("/me", h.Vendors.Profile)
					r.Patch("/me", h.Vendors.UpdateProfile)
					r.Get("/me/contracts", h.Vendors.MyContracts)
					r.Post("/me/contracts/{id}/feedback", h.Vendors.SubmitFeedback)
					r.Post("/me/password", h.Vendors.ChangePassword)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users.List)
				r.Get("/{id}", h.Users.Get)
				r.With(middleware.RequireRole(model.RoleAdmin)).Post("/sync", h.Users.Sync)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/register", h.Reports.Register)
				r.Get("/summary", h.Reports.Summary)
			})

			r.Route("/archive", func(r chi.Router) {
				r.Get("/", h.Archive.Search)
				r.Post("/", h.Archive.Upload)
				r.Get("/{id}/download", h.Archive.Download)
			})
		})
	})

	return r
}
