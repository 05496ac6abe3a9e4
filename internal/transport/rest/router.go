package rest

import (
	"log/slog"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/approval"
	"github.com/frahmantamala/expense-approval/internal/auth"
	"github.com/frahmantamala/expense-approval/internal/expense"
	"github.com/frahmantamala/expense-approval/internal/transport"
	"github.com/frahmantamala/expense-approval/internal/transport/middleware"
	"github.com/frahmantamala/expense-approval/internal/transport/swagger"
	"github.com/frahmantamala/expense-approval/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth     *auth.Handler
	Expense  *expense.Handler
	Approval *approval.Handler
	User     *user.Handler
}

type Options struct {
	AllowedOrigins string
	// Health maps component names to their liveness probes.
	Health map[string]Pinger
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(transport.NewBaseHandler(logger), opts.Health)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get(swagger.SpecPath, swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/signup", h.Auth.Signup)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/forgot-password", h.Auth.ForgotPassword)
			ar.Post("/reset-password/{token}", h.Auth.ResetPassword)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/expenses", func(er chi.Router) {
				er.Post("/", h.Expense.CreateExpense)
				er.Get("/my-expenses", h.Expense.GetMyExpenses)
			})

			pr.Route("/approvals", func(ar chi.Router) {
				ar.Get("/", h.Approval.GetQueue)
				ar.Post("/{expenseId}/approve", h.Approval.Approve)
				ar.Post("/{expenseId}/reject", h.Approval.Reject)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.User.GetMe)

				ur.Group(func(adm chi.Router) {
					adm.Use(middleware.RequireRole(logger, internal.RoleAdmin))
					adm.Get("/", h.User.ListUsers)
					adm.Post("/", h.User.CreateUser)
					adm.Put("/{id}/manager", h.User.AssignManager)
				})
			})
		})
	})
}
