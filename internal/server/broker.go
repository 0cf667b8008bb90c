package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload pushed to SSE subscribers.
type Event struct {
	Type     string `json:"type"`
	Level    int    `json:"level,omitempty"`
	Score    int    `json:"score,omitempty"`
	Passed   bool   `json:"passed,omitempty"`
	Badge    string `json:"badge,omitempty"`
	UserName string `json:"userName,omitempty"`
}

const (
	eventLevelCompleted     = "level_completed"
	eventBadgeEarned        = "badge_earned"
	eventLeaderboardUpdated = "leaderboard_updated"
)

// Broker is an in-process pub/sub for SSE events, keyed by user ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given user.
func (b *Broker) Subscribe(userID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan []byte]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the user's subscribers.
func (b *Broker) Unsubscribe(userID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[userID], ch)
	if len(b.subs[userID]) == 0 {
		delete(b.subs, userID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given user.
func (b *Broker) Publish(userID string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	b.send(b.subs[userID], data)
	b.mu.RUnlock()
}

// Broadcast sends an event to every subscriber.
func (b *Broker) Broadcast(event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for _, subs := range b.subs {
		b.send(subs, data)
	}
	b.mu.RUnlock()
}

func (b *Broker) send(subs map[chan []byte]struct{}, data []byte) {
	for ch := range subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
}
