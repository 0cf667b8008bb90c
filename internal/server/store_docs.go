package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eduplay/quizquest/internal/game"
	"github.com/eduplay/quizquest/internal/quiz"
)

// Logical document names in the documents table. Users and questions
// are whole JSON arrays; array position is the insertion order, which
// the leaderboard relies on for tie-breaking.
const (
	docUsers     = "users"
	docQuestions = "questions"
	docConfig    = "config"
)

type sessionDoc struct {
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
}

// DocStore keeps whole JSON documents in SQLite JSONB columns. Small
// collections are read and written as a unit; per-document tables hold
// the keyed records (sessions, attempts).
type DocStore struct {
	db *sql.DB
}

func NewDocStore(ctx context.Context, db *sql.DB) (*DocStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}

	return &DocStore{db: db}, nil
}

func (s *DocStore) getDoc(ctx context.Context, name string, dest any) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM documents WHERE name = ?`, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (s *DocStore) putDoc(ctx context.Context, name string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (name, data) VALUES (?, jsonb(?))`,
		name, string(data),
	)
	return err
}

// modifyDoc loads a document, applies fn, and saves it in a transaction
// so concurrent read-modify-write cycles cannot lose updates. A missing
// document starts from the zero value of dest.
func modifyDoc[T any](ctx context.Context, s *DocStore, name string, fn func(*T) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var doc T
	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT json(data) FROM documents WHERE name = ?`, name,
	).Scan(&data)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil {
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return fmt.Errorf("corrupt document %s: %w", name, err)
		}
	}

	if err := fn(&doc); err != nil {
		return err
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (name, data) VALUES (?, jsonb(?))`,
		name, string(out),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func newToken() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// Users

func (s *DocStore) CreateUser(ctx context.Context, name, secret, avatar, className string) (User, error) {
	u := User{
		ID:        uuid.NewString(),
		Name:      name,
		Secret:    secret,
		Avatar:    avatar,
		ClassName: className,
		Scores:    map[int]int{},
		Badges:    []string{},
		CreatedAt: nowUTC(),
	}
	err := modifyDoc(ctx, s, docUsers, func(users *[]User) error {
		for _, existing := range *users {
			if existing.Name == name {
				return ErrNameTaken
			}
		}
		*users = append(*users, u)
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// UpsertUser inserts the user if its id is unknown, otherwise fully
// replaces the stored record.
func (s *DocStore) UpsertUser(ctx context.Context, u User) error {
	return modifyDoc(ctx, s, docUsers, func(users *[]User) error {
		for i := range *users {
			if (*users)[i].ID == u.ID {
				(*users)[i] = u
				return nil
			}
		}
		*users = append(*users, u)
		return nil
	})
}

func (s *DocStore) Users(ctx context.Context) ([]User, error) {
	var users []User
	err := s.getDoc(ctx, docUsers, &users)
	if errors.Is(err, ErrNotFound) {
		return []User{}, nil
	}
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *DocStore) UserByName(ctx context.Context, name string) (User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Name == name {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *DocStore) UserByID(ctx context.Context, id string) (User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *DocStore) DeleteUser(ctx context.Context, id string) error {
	return modifyDoc(ctx, s, docUsers, func(users *[]User) error {
		for i := range *users {
			if (*users)[i].ID == id {
				*users = append((*users)[:i], (*users)[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// RecordResult applies one finished level run to a user inside a single
// read-modify-write transaction: best score per level never regresses,
// the total is recomputed from the per-level bests, and badges are
// re-evaluated against the new total.
func (s *DocStore) RecordResult(ctx context.Context, userID string, level, score int, cfg game.Config) (ResultUpdate, error) {
	var upd ResultUpdate
	err := modifyDoc(ctx, s, docUsers, func(users *[]User) error {
		for i := range *users {
			u := &(*users)[i]
			if u.ID != userID {
				continue
			}
			if u.Scores == nil {
				u.Scores = map[int]int{}
			}
			upd.BestScore = game.RecordScore(u.Scores, level, score)
			upd.TotalScore = game.TotalScore(u.Scores)
			u.Badges, upd.NewBadges = game.EvaluateBadges(u.Badges, upd.TotalScore)
			upd.Completed = game.Completed(u.Scores, cfg)
			upd.User = *u
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return ResultUpdate{}, err
	}
	return upd, nil
}

// Questions

func (s *DocStore) Questions(ctx context.Context) ([]quiz.Question, error) {
	var qs []quiz.Question
	err := s.getDoc(ctx, docQuestions, &qs)
	if errors.Is(err, ErrNotFound) {
		return []quiz.Question{}, nil
	}
	if err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *DocStore) AddQuestion(ctx context.Context, q quiz.Question) error {
	return modifyDoc(ctx, s, docQuestions, func(qs *[]quiz.Question) error {
		*qs = append(*qs, q)
		return nil
	})
}

// UpdateQuestion replaces the record with the same id. An unknown id is
// a no-op, matching idempotent UI-driven editing.
func (s *DocStore) UpdateQuestion(ctx context.Context, q quiz.Question) error {
	return modifyDoc(ctx, s, docQuestions, func(qs *[]quiz.Question) error {
		for i := range *qs {
			if (*qs)[i].ID == q.ID {
				(*qs)[i] = q
				break
			}
		}
		return nil
	})
}

// DeleteQuestion removes the record. An unknown id is a no-op.
func (s *DocStore) DeleteQuestion(ctx context.Context, id string) error {
	return modifyDoc(ctx, s, docQuestions, func(qs *[]quiz.Question) error {
		for i := range *qs {
			if (*qs)[i].ID == id {
				*qs = append((*qs)[:i], (*qs)[i+1:]...)
				break
			}
		}
		return nil
	})
}

func (s *DocStore) AppendQuestions(ctx context.Context, add []quiz.Question) (int, error) {
	err := modifyDoc(ctx, s, docQuestions, func(qs *[]quiz.Question) error {
		*qs = append(*qs, add...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(add), nil
}

func (s *DocStore) ClearQuestions(ctx context.Context) error {
	return s.putDoc(ctx, docQuestions, []quiz.Question{})
}

// Config

func (s *DocStore) Config(ctx context.Context) (game.Config, error) {
	var cfg game.Config
	err := s.getDoc(ctx, docConfig, &cfg)
	if errors.Is(err, ErrNotFound) {
		return game.DefaultConfig, nil
	}
	if err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

func (s *DocStore) SaveConfig(ctx context.Context, cfg game.Config) error {
	return s.putDoc(ctx, docConfig, cfg)
}

// Sessions

func (s *DocStore) CreateSession(ctx context.Context, userID string) (string, error) {
	token := newToken()
	doc, err := json.Marshal(sessionDoc{UserID: userID, CreatedAt: nowUTC()})
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, data) VALUES (?, jsonb(?))`,
		token, string(doc),
	)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *DocStore) UserFromSession(ctx context.Context, token string) (User, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM sessions WHERE id = ?`, token,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	var sess sessionDoc
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return User{}, err
	}
	return s.UserByID(ctx, sess.UserID)
}

func (s *DocStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, token)
	return err
}

// Attempts

func (s *DocStore) CreateAttempt(ctx context.Context, a Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO attempts (id, data) VALUES (?, jsonb(?))`,
		a.ID, string(data),
	)
	return err
}

func (s *DocStore) Attempt(ctx context.Context, id string) (Attempt, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM attempts WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrNotFound
	}
	if err != nil {
		return Attempt{}, err
	}
	var a Attempt
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *DocStore) FinishAttempt(ctx context.Context, id string) error {
	a, err := s.Attempt(ctx, id)
	if err != nil {
		return err
	}
	a.Completed = true
	return s.CreateAttempt(ctx, a)
}

// Ensure DocStore implements Store at compile time.
var _ Store = (*DocStore)(nil)
