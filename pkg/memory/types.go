package memory

import "time"

// Message is a single conversation turn held in working memory.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ArchivedSession is one completed conversation preserved in long-term memory.
type ArchivedSession struct {
	SessionID    string         `json:"session_id"`
	StartedAt    time.Time      `json:"start_time"`
	EndedAt      time.Time      `json:"end_time"`
	MessageCount int            `json:"message_count"`
	Summary      string         `json:"summary"`
	Preference   Preferences    `json:"user_preference"`
	Cities       []string       `json:"recommended_cities,omitempty"`
	Attractions  []string       `json:"recommended_attractions,omitempty"`
	Plan         map[string]any `json:"current_plan,omitempty"`
	Messages     []Message      `json:"messages"`
}

// ArchiveSummary is the listing form of an archived session, without the
// message bodies.
type ArchiveSummary struct {
	SessionID    string    `json:"session_id"`
	StartedAt    time.Time `json:"start_time"`
	EndedAt      time.Time `json:"end_time"`
	MessageCount int       `json:"message_count"`
	Summary      string    `json:"summary"`
}
