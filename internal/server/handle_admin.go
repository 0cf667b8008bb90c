package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eduplay/quizquest/internal/game"
	"github.com/eduplay/quizquest/internal/quiz"
)

// AdminUserItem is the admin's view of a user: progress, but no secret.
type AdminUserItem struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Avatar     string      `json:"avatar"`
	ClassName  string      `json:"className"`
	IsAdmin    bool        `json:"isAdmin"`
	Scores     map[int]int `json:"scores"`
	TotalScore int         `json:"totalScore"`
	Badges     []string    `json:"badges"`
	CreatedAt  string      `json:"createdAt"`
}

func handleAdminListQuestions(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.Questions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func handleAdminCreateQuestion(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Question
		if err := readJSON(r, &q); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if err := q.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.AddQuestion(r.Context(), q); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func handleAdminUpdateQuestion(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Question
		if err := readJSON(r, &q); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		q.ID = chi.URLParam(r, "id")
		if err := q.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Replacing an unknown id is a no-op, not an error.
		if err := store.UpdateQuestion(r.Context(), q); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func handleAdminDeleteQuestion(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuestion(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func handleAdminClearQuestions(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.ClearQuestions(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func handleAdminGetConfig(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := store.Config(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func handleAdminPutConfig(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg game.Config
		if err := readJSON(r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !cfg.Valid() {
			writeError(w, http.StatusBadRequest, "invalid game configuration")
			return
		}
		if err := store.SaveConfig(r.Context(), cfg); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func handleAdminListUsers(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.Users(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		items := make([]AdminUserItem, len(users))
		for i, u := range users {
			scores := u.Scores
			if scores == nil {
				scores = map[int]int{}
			}
			badges := u.Badges
			if badges == nil {
				badges = []string{}
			}
			items[i] = AdminUserItem{
				ID:         u.ID,
				Name:       u.Name,
				Avatar:     u.Avatar,
				ClassName:  u.ClassName,
				IsAdmin:    u.IsAdmin,
				Scores:     scores,
				TotalScore: totalOf(u),
				Badges:     badges,
				CreatedAt:  u.CreatedAt,
			}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleAdminDeleteUser(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == currentUser(r).ID {
			writeError(w, http.StatusConflict, "cannot delete your own account")
			return
		}
		err := store.DeleteUser(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
