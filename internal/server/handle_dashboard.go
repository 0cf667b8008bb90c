package server

import (
	"net/http"

	"github.com/eduplay/quizquest/internal/game"
)

type LevelInfo struct {
	Level     int    `json:"level"`
	State     string `json:"state"`
	BestScore int    `json:"bestScore"`
}

type BadgeInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Earned bool   `json:"earned"`
}

type DashboardResponse struct {
	User       UserResponse `json:"user"`
	Config     game.Config  `json:"config"`
	Levels     []LevelInfo  `json:"levels"`
	Badges     []BadgeInfo  `json:"badges"`
	TotalScore int          `json:"totalScore"`
	Completed  bool         `json:"completed"`
}

// handleDashboard reports the player's current progression. Unlock
// states are derived from stored best scores on every request rather
// than persisted, so a config change takes effect immediately.
func handleDashboard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)

		cfg, err := store.Config(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		levels := make([]LevelInfo, cfg.TotalLevels)
		for n := 1; n <= cfg.TotalLevels; n++ {
			levels[n-1] = LevelInfo{
				Level:     n,
				State:     string(game.StateOf(user.Scores, cfg, n)),
				BestScore: user.Scores[n],
			}
		}

		owned := map[string]bool{}
		for _, id := range user.Badges {
			owned[id] = true
		}
		badges := make([]BadgeInfo, len(game.Badges))
		for i, b := range game.Badges {
			badges[i] = BadgeInfo{ID: b.ID, Name: b.Name, Icon: b.Icon, Earned: owned[b.ID]}
		}

		writeJSON(w, http.StatusOK, DashboardResponse{
			User:       userResponse(user),
			Config:     cfg,
			Levels:     levels,
			Badges:     badges,
			TotalScore: totalOf(user),
			Completed:  game.Completed(user.Scores, cfg),
		})
	}
}

func totalOf(u User) int {
	return game.TotalScore(u.Scores)
}
