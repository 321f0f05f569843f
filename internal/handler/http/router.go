package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/handler/http/middleware"
)

func NewRouter(
	tokenAuth *jwtauth.JWTAuth,
	shiftHandler ShiftHandler,
	swapHandler SwapHandler,
	violationHandler ViolationHandler,
	payrollHandler PayrollHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftops"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(middleware.AuthRequired)

			r.Route("/shift-templates", func(r chi.Router) {
				r.Get("/", shiftHandler.ListTemplates)
				r.Get("/{id}", shiftHandler.GetTemplate)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", shiftHandler.CreateTemplate)
					r.Patch("/{id}", shiftHandler.UpdateTemplate)
					r.Delete("/{id}", shiftHandler.DeleteTemplate)
				})
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", shiftHandler.ListSchedules)
				r.Get("/{id}", shiftHandler.GetSchedule)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", shiftHandler.CreateSchedule)
					r.Post("/{id}/publish", shiftHandler.PublishSchedule)
					r.Post("/{id}/archive", shiftHandler.ArchiveSchedule)
					r.Post("/{id}/cancel", shiftHandler.CancelSchedule)
				})
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", shiftHandler.ListAssignments)
				r.Get("/{id}", shiftHandler.GetAssignment)
				r.Post("/{id}/check-in", shiftHandler.CheckIn)
				r.Post("/{id}/check-out", shiftHandler.CheckOut)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", shiftHandler.CreateAssignment)
					r.Post("/{id}/cancel", shiftHandler.CancelAssignment)
				})
			})

			r.Route("/swap-requests", func(r chi.Router) {
				r.Post("/", swapHandler.Create)
				r.Get("/", swapHandler.List)
				r.Get("/{id}", swapHandler.Get)
				r.Post("/{id}/target-response", swapHandler.RespondAsTarget)
				r.Post("/{id}/cancel", swapHandler.Cancel)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/manager-response", swapHandler.RespondAsManager)
				})
			})

			r.Route("/violations", func(r chi.Router) {
				r.Get("/", violationHandler.List)
				r.Get("/{id}", violationHandler.Get)
				r.Post("/{id}/explanations", violationHandler.SubmitExplanation)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/overdue", violationHandler.ListOverdue)
				})
			})

			r.Route("/explanations", func(r chi.Router) {
				r.Get("/{id}", violationHandler.GetExplanation)
				r.Patch("/{id}", violationHandler.UpdateExplanation)
				r.Post("/{id}/evidence", violationHandler.AttachEvidence)
				r.Delete("/{id}/evidence/{evidenceID}", violationHandler.RemoveEvidence)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/review", violationHandler.ReviewExplanation)
				})
			})

			// Manager only
			r.Route("/salary-structures", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Post("/", payrollHandler.CreateStructure)
				r.Get("/", payrollHandler.ListStructures)
				r.Get("/{id}", payrollHandler.GetStructure)
				r.Post("/{id}/deactivate", payrollHandler.DeactivateStructure)
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/", payrollHandler.List)
				r.Get("/{id}", payrollHandler.Get)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/calculate", payrollHandler.Calculate)
					r.Post("/calculate-period", payrollHandler.CalculatePeriod)
					r.Post("/{id}/recalculate", payrollHandler.Recalculate)
					r.Post("/{id}/approve", payrollHandler.Approve)
					r.Post("/{id}/cancel", payrollHandler.Cancel)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/{id}/mark-paid", payrollHandler.MarkPaid)
				})
			})

			r.Get("/notifications/stream", notificationHandler.Stream)
		})
	})
	return r
}
