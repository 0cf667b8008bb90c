package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eduplay/quizquest/internal/game"
	"github.com/eduplay/quizquest/internal/quiz"
)

// QuestionView is a question as the player sees it mid-run: the answer
// key is stripped so grading stays server-side.
type QuestionView struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
}

type StartResponse struct {
	AttemptID string         `json:"attemptId"`
	Level     int            `json:"level"`
	Questions []QuestionView `json:"questions"`
}

type CompleteRequest struct {
	Answers []quiz.Answer `json:"answers"`
}

type CompleteResponse struct {
	Level      int      `json:"level"`
	Score      int      `json:"score"`
	OutOf      int      `json:"outOf"`
	Passed     bool     `json:"passed"`
	BestScore  int      `json:"bestScore"`
	TotalScore int      `json:"totalScore"`
	NewBadges  []string `json:"newBadges"`
	Completed  bool     `json:"completed"`
}

// handleStartLevel samples a fresh question set and freezes it into an
// attempt. Later bank edits cannot change a run already handed out.
func handleStartLevel(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)

		level, err := strconv.Atoi(chi.URLParam(r, "level"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid level")
			return
		}

		cfg, err := store.Config(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if level < 1 || level > cfg.TotalLevels {
			writeError(w, http.StatusNotFound, "no such level")
			return
		}
		if !game.IsLevelUnlocked(user.Scores, cfg, level) {
			writeError(w, http.StatusConflict, "level is locked")
			return
		}

		bank, err := store.Questions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if len(bank) == 0 {
			writeError(w, http.StatusConflict, "question bank is empty")
			return
		}

		attempt := Attempt{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Level:     level,
			Questions: game.Sample(bank, cfg.QuestionsPerLevel),
			CreatedAt: nowUTC(),
		}
		if err := store.CreateAttempt(r.Context(), attempt); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		views := make([]QuestionView, len(attempt.Questions))
		for i, q := range attempt.Questions {
			choices := q.Choices
			if q.Kind == quiz.DragDrop {
				// The stored order is the answer key.
				choices = game.ShuffleChoices(q.Choices)
			}
			views[i] = QuestionView{
				ID:      q.ID,
				Kind:    string(q.Kind),
				Prompt:  q.Prompt,
				Choices: choices,
			}
		}

		writeJSON(w, http.StatusOK, StartResponse{
			AttemptID: attempt.ID,
			Level:     level,
			Questions: views,
		})
	}
}

// handleCompleteLevel grades the submitted answers against the frozen
// attempt snapshot and records the result.
func handleCompleteLevel(store Store, lb *Leaderboard, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)

		attempt, err := store.Attempt(r.Context(), chi.URLParam(r, "attemptID"))
		if errors.Is(err, ErrNotFound) || (err == nil && attempt.UserID != user.ID) {
			writeError(w, http.StatusNotFound, "attempt not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if attempt.Completed {
			writeError(w, http.StatusConflict, "attempt already completed")
			return
		}

		var req CompleteRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// Answers align with the attempt's question order. Missing
		// trailing answers count as wrong.
		score := 0
		for i, q := range attempt.Questions {
			if i >= len(req.Answers) {
				break
			}
			if quiz.Grade(q, req.Answers[i]) {
				score++
			}
		}

		cfg, err := store.Config(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		upd, err := store.RecordResult(r.Context(), user.ID, attempt.Level, score, cfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := store.FinishAttempt(r.Context(), attempt.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		passed := game.Passed(score, cfg)
		broker.Publish(user.ID, Event{
			Type:   eventLevelCompleted,
			Level:  attempt.Level,
			Score:  score,
			Passed: passed,
		})
		for _, id := range upd.NewBadges {
			broker.Publish(user.ID, Event{Type: eventBadgeEarned, Badge: id})
		}
		lb.Invalidate(r.Context())
		broker.Broadcast(Event{Type: eventLeaderboardUpdated, UserName: user.Name})

		newBadges := upd.NewBadges
		if newBadges == nil {
			newBadges = []string{}
		}
		writeJSON(w, http.StatusOK, CompleteResponse{
			Level:      attempt.Level,
			Score:      score,
			OutOf:      len(attempt.Questions),
			Passed:     passed,
			BestScore:  upd.BestScore,
			TotalScore: upd.TotalScore,
			NewBadges:  newBadges,
			Completed:  upd.Completed,
		})
	}
}
