package server

import (
	"context"
	"errors"

	"github.com/eduplay/quizquest/internal/game"
	"github.com/eduplay/quizquest/internal/quiz"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrNameTaken = errors.New("name already taken")
)

// User is a registered player or admin. Secret is the verbatim string
// chosen at registration; it never leaves the store layer in responses.
type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Secret    string      `json:"secret"`
	Avatar    string      `json:"avatar"`
	ClassName string      `json:"className"`
	IsAdmin   bool        `json:"isAdmin"`
	Scores    map[int]int `json:"scores"`
	Badges    []string    `json:"badges"`
	CreatedAt string      `json:"createdAt"`
}

// Attempt is a server-side snapshot of one level run. The questions are
// frozen at start time so bank edits cannot change a run in flight.
type Attempt struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Level     int             `json:"level"`
	Questions []quiz.Question `json:"questions"`
	Completed bool            `json:"completed"`
	CreatedAt string          `json:"createdAt"`
}

// ResultUpdate describes what changed after a level run was recorded.
type ResultUpdate struct {
	User       User
	BestScore  int
	NewBadges  []string
	TotalScore int
	Completed  bool
}

type Store interface {
	CreateUser(ctx context.Context, name, secret, avatar, className string) (User, error)
	UpsertUser(ctx context.Context, u User) error
	UserByName(ctx context.Context, name string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
	Users(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
	RecordResult(ctx context.Context, userID string, level, score int, cfg game.Config) (ResultUpdate, error)

	Questions(ctx context.Context) ([]quiz.Question, error)
	AddQuestion(ctx context.Context, q quiz.Question) error
	UpdateQuestion(ctx context.Context, q quiz.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	AppendQuestions(ctx context.Context, qs []quiz.Question) (int, error)
	ClearQuestions(ctx context.Context) error

	Config(ctx context.Context) (game.Config, error)
	SaveConfig(ctx context.Context, cfg game.Config) error

	CreateSession(ctx context.Context, userID string) (string, error)
	UserFromSession(ctx context.Context, token string) (User, error)
	DeleteSession(ctx context.Context, token string) error

	CreateAttempt(ctx context.Context, a Attempt) error
	Attempt(ctx context.Context, id string) (Attempt, error)
	FinishAttempt(ctx context.Context, id string) error
}
