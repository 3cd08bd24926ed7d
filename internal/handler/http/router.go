package http

import (
	"log/slog"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	workplaceService workplace.Service,
	workplaceHandler WorkplaceHandler,
	shiftHandler ShiftHandler,
	salaryHandler SalaryHandler,
	dashboardHandler DashboardHandler,
	notificationHandler NotificationHandler,
	holidayHandler HolidayHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// SSE authenticates with a short-lived query token
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/dashboard", dashboardHandler.GetDashboard)
			r.With(middleware.RequirePermission(user.PermissionSummaryViewOwn)).
				Get("/me/summary", dashboardHandler.GetMySummary)

			r.Route("/workplaces", func(r chi.Router) {
				r.Get("/", workplaceHandler.List)

				r.Route("/{workplaceID}", func(r chi.Router) {
					// Owner or member
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireWorkplace(workplaceService, true))
						r.Post("/shifts", shiftHandler.Create)
						r.Get("/shifts", shiftHandler.List)
						r.Get("/workers/{workerID}/salary-policy", salaryHandler.GetPolicy)
					})

					// Owner only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireOwner)
						r.Use(middleware.RequireWorkplace(workplaceService, false))
						r.Post("/shifts/batch", shiftHandler.CreateBatch)
						r.Get("/salary-policies", salaryHandler.ListPolicies)
						r.Post("/workers/{workerID}/salary-policy", salaryHandler.CreatePolicy)
						r.Put("/workers/{workerID}/salary-policy", salaryHandler.UpdatePolicy)
					})
				})
			})

			r.Route("/shifts/{id}", func(r chi.Router) {
				r.Get("/", shiftHandler.Get)
				r.Put("/", shiftHandler.Update)
				r.Delete("/", shiftHandler.Delete)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/read", notificationHandler.MarkRead)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Delete("/{id}", notificationHandler.Delete)
				r.Get("/preferences", notificationHandler.Preferences)
				r.Put("/preferences", notificationHandler.SetPreference)
				r.Get("/sse-token", notificationHandler.GetSSEToken)
			})

			r.Get("/holidays", holidayHandler.List)
			r.With(middleware.RequireAdmin).Put("/admin/holidays", holidayHandler.Upsert)
		})
	})
	return r
}
