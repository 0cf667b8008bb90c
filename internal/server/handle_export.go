package server

import (
	"net/http"

	"github.com/eduplay/quizquest/internal/export"
)

const exportTitle = "Thử Thách Lịch Sử"

// handleExport renders the whole question bank and current config into
// a single playable HTML file.
func handleExport(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := store.Config(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		questions, err := store.Questions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="quizquest.html"`)
		if err := export.Write(w, exportTitle, cfg, questions); err != nil {
			// Headers are gone already; nothing useful to send.
			return
		}
	}
}
