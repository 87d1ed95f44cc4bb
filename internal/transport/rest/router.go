package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payroll-management/internal/auth"
	"github.com/frahmantamala/payroll-management/internal/notification"
	"github.com/frahmantamala/payroll-management/internal/payroll"
	"github.com/frahmantamala/payroll-management/internal/transport/middleware"
	"github.com/frahmantamala/payroll-management/internal/transport/swagger"
)

type RouterConfig struct {
	AllowedOrigins string
}

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig, db *sql.DB, authHandler *auth.Handler, authService *auth.Service, payrollHandler *payroll.Handler, notificationHandler *notification.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
			})
		}

		if authService == nil {
			return
		}

		// Everything below requires a valid token.
		r.Group(func(pr chi.Router) {
			pr.Use(authService.AuthMiddleware)

			if payrollHandler != nil {
				pr.Route("/payroll", func(plr chi.Router) {
					// Individual records: ownership is checked in the
					// service, so employees can reach these too.
					plr.Get("/{id}", payrollHandler.Get)
					plr.Get("/{id}/payslip", payrollHandler.Payslip)

					plr.Group(func(lr chi.Router) {
						lr.Use(auth.RequireCapability(auth.CanViewPayrollList))
						lr.Get("/", payrollHandler.List)
						lr.Get("/summary/{year}", payrollHandler.Summary)
					})

					plr.Group(func(ar chi.Router) {
						ar.Use(auth.RequireCapability(auth.CanProcessPayroll))
						ar.Post("/process", payrollHandler.Process)
					})

					plr.Group(func(ar chi.Router) {
						ar.Use(auth.RequireCapability(auth.CanApprovePayroll))
						ar.Post("/{id}/approve", payrollHandler.Approve)
						ar.Post("/{id}/reject", payrollHandler.Reject)
					})
				})
			}

			if notificationHandler != nil {
				pr.Route("/notifications", func(nr chi.Router) {
					nr.Get("/", notificationHandler.List)
					nr.Patch("/{id}/read", notificationHandler.MarkRead)
				})
			}
		})
	})
}
