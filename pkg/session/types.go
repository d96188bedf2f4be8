package session

import "time"

// Session is gateway-side conversation metadata. The transcript itself
// lives in the agent's working memory; the gateway only needs enough to
// list, route, and evict conversations.
type Session struct {
	ID           string    `json:"session_id"`
	Name         string    `json:"name"`
	ModelID      string    `json:"model_id,omitempty"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastActive   time.Time `json:"last_active"`
}

// Clone returns a copy safe to hand outside the store's lock.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
