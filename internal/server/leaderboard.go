package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduplay/quizquest/internal/game"
)

const (
	leaderboardSize     = 10
	leaderboardCacheKey = "quizquest:leaderboard"
	leaderboardCacheTTL = 30 * time.Second
)

type LeaderboardEntry struct {
	Rank       int      `json:"rank"`
	Name       string   `json:"name"`
	Avatar     string   `json:"avatar"`
	TotalScore int      `json:"totalScore"`
	Badges     []string `json:"badges"`
}

// Leaderboard computes the ranking from the user store and caches the
// rendered result in Redis. The cache holds the full JSON payload, not
// a sorted set: ties keep registration order, which a score-keyed zset
// would not preserve.
type Leaderboard struct {
	store  Store
	rdb    *redis.Client
	logger *slog.Logger
}

func NewLeaderboard(store Store, rdb *redis.Client, logger *slog.Logger) *Leaderboard {
	return &Leaderboard{store: store, rdb: rdb, logger: logger}
}

func (l *Leaderboard) Top(ctx context.Context) ([]LeaderboardEntry, error) {
	if l.rdb != nil {
		cached, err := l.rdb.Get(ctx, leaderboardCacheKey).Bytes()
		if err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal(cached, &entries) == nil {
				return entries, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			l.logger.Warn("leaderboard cache read failed", "error", err)
		}
	}

	users, err := l.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	entries := rankUsers(users)

	if l.rdb != nil {
		data, _ := json.Marshal(entries)
		if err := l.rdb.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
			l.logger.Warn("leaderboard cache write failed", "error", err)
		}
	}
	return entries, nil
}

// Invalidate drops the cached ranking after a score change.
func (l *Leaderboard) Invalidate(ctx context.Context) {
	if l.rdb == nil {
		return
	}
	if err := l.rdb.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		l.logger.Warn("leaderboard cache invalidation failed", "error", err)
	}
}

// rankUsers sorts non-admin users by total score descending. The sort
// is stable so users with equal totals keep registration order.
func rankUsers(users []User) []LeaderboardEntry {
	var players []User
	for _, u := range users {
		if !u.IsAdmin {
			players = append(players, u)
		}
	}
	sort.SliceStable(players, func(i, j int) bool {
		return game.TotalScore(players[i].Scores) > game.TotalScore(players[j].Scores)
	})
	if len(players) > leaderboardSize {
		players = players[:leaderboardSize]
	}

	entries := make([]LeaderboardEntry, len(players))
	for i, u := range players {
		badges := u.Badges
		if badges == nil {
			badges = []string{}
		}
		entries[i] = LeaderboardEntry{
			Rank:       i + 1,
			Name:       u.Name,
			Avatar:     u.Avatar,
			TotalScore: game.TotalScore(u.Scores),
			Badges:     badges,
		}
	}
	return entries
}
