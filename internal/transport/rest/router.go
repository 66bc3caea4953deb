package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/auth"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/enhance"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/export"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/project"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/timesheet"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport/middleware"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport/swagger"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, projectHandler *project.Handler, timesheetHandler *timesheet.Handler, exportHandler *export.Handler, enhanceHandler *enhance.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI document served at the root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// Project catalog for the grid's row pickers
				if projectHandler != nil {
					pr.Get("/projects", projectHandler.GetProjects)
					pr.Get("/projects/{id}/tasks", projectHandler.GetProjectTasks)
				}

				if timesheetHandler != nil {
					pr.Route("/timesheet", func(tr chi.Router) {
						tr.Get("/entries", timesheetHandler.GetWeekSheet)
						tr.Put("/entries", timesheetHandler.UpsertEntry)
						tr.Delete("/entries/{id}", timesheetHandler.DeleteEntry)
						tr.Post("/submit", timesheetHandler.SubmitWeek)
					})
				}

				if enhanceHandler != nil {
					pr.Post("/enhance", enhanceHandler.EnhanceDescription)
				}

				// Manager routes behind role protection
				pr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireManager())

					if timesheetHandler != nil {
						mr.Route("/manager/timesheets", func(sr chi.Router) {
							sr.Get("/", timesheetHandler.GetSummaries)
							sr.Get("/{contractorID}", timesheetHandler.GetContractorSheet)
							sr.Post("/approve", timesheetHandler.ApproveWeek)
							sr.Post("/reject", timesheetHandler.RejectWeek)
							sr.Post("/revert", timesheetHandler.RevertWeek)
							sr.Patch("/comment", timesheetHandler.UpdateComment)
						})
					}

					if exportHandler != nil {
						mr.Get("/export", exportHandler.ExportCSV)
					}

					if userHandler != nil {
						mr.Get("/users", userHandler.GetUsers)
						mr.Post("/users", userHandler.CreateUser)
						mr.Patch("/users/{id}/role", userHandler.UpdateUserRole)
					}
				})
			})
		}
	})
}
