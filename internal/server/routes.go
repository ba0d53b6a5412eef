package server

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, reg *Registry, broker *Broker, static, generative BoardProvider, genTimeout time.Duration) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("TriviaBoard API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreateSession(logger, reg, broker, static, generative, genTimeout))

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Use(sessionMiddleware(reg))
			r.Get("/", handleSessionState())
			r.Post("/select", handleSelect(broker))
			r.Post("/reveal", handleReveal(broker))
			r.Post("/resolve", handleResolve(broker))
			r.Post("/cancel", handleCancel(broker))
			r.Post("/reset", handleReset(broker))
			r.Get("/events", handleEvents(broker))
		})
	})
}
