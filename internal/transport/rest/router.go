package rest

import (
	"database/sql"
	"log/slog"

	"github.com/fahrizalm/staffdesk/internal/transport/middleware"
	"github.com/go-chi/chi"
)

// RegisterOpsRoutes wires the operational endpoints. The workflow engine is
// consumed as a library; the HTTP surface carries only liveness and readiness.
func RegisterOpsRoutes(router *chi.Mux, db *sql.DB, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)
}
