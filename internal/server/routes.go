package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()
	lb := NewLeaderboard(deps.Store, deps.Redis, logger)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("QuizQuest API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB, deps.Redis))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handleRegister(deps.Store))
		r.Post("/auth/login", handleLogin(deps.Store))
		r.Post("/auth/logout", handleLogout(deps.Store))

		// EventSource cannot set Authorization, so the SSE endpoint
		// authenticates via query parameter itself.
		r.Get("/game/events", handleEvents(deps.Store, broker))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(deps.Store))

			r.Get("/auth/me", handleMe())
			r.Get("/dashboard", handleDashboard(deps.Store))
			r.Get("/leaderboard", handleLeaderboard(lb))
			r.Post("/game/levels/{level}/start", handleStartLevel(deps.Store))
			r.Post("/game/attempts/{attemptID}/complete", handleCompleteLevel(deps.Store, lb, broker))

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminMiddleware())

				r.Get("/questions", handleAdminListQuestions(deps.Store))
				r.Post("/questions", handleAdminCreateQuestion(deps.Store))
				r.Delete("/questions", handleAdminClearQuestions(deps.Store))
				r.Put("/questions/{id}", handleAdminUpdateQuestion(deps.Store))
				r.Delete("/questions/{id}", handleAdminDeleteQuestion(deps.Store))
				r.Post("/questions/import", handleImport(deps.Store))
				r.Get("/questions/export", handleExport(deps.Store))

				r.Get("/config", handleAdminGetConfig(deps.Store))
				r.Put("/config", handleAdminPutConfig(deps.Store))

				r.Get("/users", handleAdminListUsers(deps.Store))
				r.Delete("/users/{id}", handleAdminDeleteUser(deps.Store))
			})
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
