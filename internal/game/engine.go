// Package game holds the scoring and level-unlock rules. All functions
// are pure computations over a user's score history; unlock state is
// derived on every query rather than persisted, so a later change to
// the pass threshold is reflected immediately.
package game

import (
	"math/rand/v2"

	"github.com/eduplay/quizquest/internal/quiz"
)

// Config is the game-wide tuning shared by all users.
type Config struct {
	TotalLevels       int `json:"totalLevels"`
	QuestionsPerLevel int `json:"questionsPerLevel"`
	PassScore         int `json:"passScore"`
}

// DefaultConfig seeds a fresh install.
var DefaultConfig = Config{TotalLevels: 6, QuestionsPerLevel: 10, PassScore: 5}

func (c Config) Valid() bool {
	return c.TotalLevels >= 1 && c.QuestionsPerLevel >= 1 && c.PassScore >= 0
}

// LevelState describes one level on a user's map.
type LevelState string

const (
	Locked           LevelState = "locked"
	UnlockedUnplayed LevelState = "unlocked-unplayed"
	UnlockedFailed   LevelState = "unlocked-failed"
	UnlockedPassed   LevelState = "unlocked-passed"
)

// Passed reports whether score clears the threshold. The bound is
// strict: a score exactly equal to PassScore does not pass.
func Passed(score int, cfg Config) bool {
	return score > cfg.PassScore
}

// IsLevelUnlocked reports whether level n is playable. Level 1 is
// always unlocked; level N>1 requires the previous level's recorded
// score to strictly exceed the pass threshold.
func IsLevelUnlocked(scores map[int]int, cfg Config, n int) bool {
	if n == 1 {
		return true
	}
	prev, ok := scores[n-1]
	return ok && Passed(prev, cfg)
}

// StateOf derives the display state of level n from the score map.
func StateOf(scores map[int]int, cfg Config, n int) LevelState {
	if !IsLevelUnlocked(scores, cfg, n) {
		return Locked
	}
	score, played := scores[n]
	switch {
	case !played:
		return UnlockedUnplayed
	case Passed(score, cfg):
		return UnlockedPassed
	default:
		return UnlockedFailed
	}
}

// Completed reports whole-game completion: every level from 1 to
// TotalLevels has a recorded score strictly above the pass threshold.
func Completed(scores map[int]int, cfg Config) bool {
	for lvl := 1; lvl <= cfg.TotalLevels; lvl++ {
		if !Passed(scores[lvl], cfg) {
			return false
		}
	}
	return true
}

// RecordScore folds a finished attempt into the score map with max
// semantics: a level's stored score never regresses. It returns the
// stored score for the level after the update.
func RecordScore(scores map[int]int, level, score int) int {
	if existing, ok := scores[level]; ok && existing >= score {
		return existing
	}
	scores[level] = score
	return score
}

// TotalScore is the derived sum of all recorded level scores. Callers
// must recompute it after every score change instead of editing a
// stored total.
func TotalScore(scores map[int]int) int {
	total := 0
	for _, s := range scores {
		total += s
	}
	return total
}

// ShuffleChoices returns a shuffled copy of a question's choice list.
// Drag-drop questions store their choices in the correct order, so the
// list must be reshuffled before it is shown to a player.
func ShuffleChoices(choices []string) []string {
	out := make([]string, len(choices))
	copy(out, choices)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Sample picks up to k distinct questions from the bank, uniformly at
// random without replacement. A bank smaller than k yields the whole
// bank in shuffled order; this is not an error.
func Sample(bank []quiz.Question, k int) []quiz.Question {
	picked := make([]quiz.Question, len(bank))
	copy(picked, bank)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if k < len(picked) {
		picked = picked[:k]
	}
	return picked
}
