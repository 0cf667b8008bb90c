package game

// Badge is a permanent achievement earned when a user's total score
// reaches its threshold. Predicates are monotonic, so an earned badge
// can never be invalidated by a later evaluation.
type Badge struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	MinTotal int    `json:"minTotal"`
}

func (b Badge) Earned(totalScore int) bool {
	return totalScore >= b.MinTotal
}

// Badges is the fixed achievement ladder.
var Badges = []Badge{
	{ID: "bronze", Name: "Sử Gia Tập Sự", Icon: "🥉", MinTotal: 10},
	{ID: "silver", Name: "Nhà Thông Thái", Icon: "🥈", MinTotal: 30},
	{ID: "gold", Name: "Bác Học Sử Việt", Icon: "🥇", MinTotal: 45},
	{ID: "master", Name: "Huyền Thoại", Icon: "👑", MinTotal: 50},
}

// EvaluateBadges re-checks every badge against totalScore and returns
// the updated set plus the ids newly earned. All badges are evaluated
// every time, not just newly reached ones, so a retroactive score
// correction cannot miss an unlock. Membership only ever grows.
func EvaluateBadges(owned []string, totalScore int) (updated []string, earned []string) {
	have := make(map[string]bool, len(owned))
	updated = append(updated, owned...)
	for _, id := range owned {
		have[id] = true
	}
	for _, b := range Badges {
		if !have[b.ID] && b.Earned(totalScore) {
			updated = append(updated, b.ID)
			earned = append(earned, b.ID)
		}
	}
	return updated, earned
}

// BadgeByID looks up a badge definition.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
