// Package memory implements the agent's two-tier conversation memory: a
// bounded working window of recent turns plus an archive of completed
// sessions. Travel preferences are extracted from user messages as they
// arrive so later turns can be personalized without re-reading history.
package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wayfarer-ai/wayfarer/pkg/llm"
)

const (
	// DefaultWorkingSize bounds the rolling conversation window.
	DefaultWorkingSize = 10
	// DefaultArchiveSize bounds how many completed sessions are retained.
	DefaultArchiveSize = 50
)

// Manager holds the conversation state for one agent session. All methods
// are safe for concurrent use.
type Manager struct {
	maxWorking  int
	maxArchived int

	mu          sync.RWMutex
	sessionID   string
	startedAt   time.Time
	history     []Message
	preference  Preferences
	cities      []string
	attractions []string
	plan        map[string]any
	archived    []ArchivedSession
}

// NewManager creates a memory manager. Non-positive sizes fall back to the
// package defaults.
func NewManager(maxWorking, maxArchived int) *Manager {
	if maxWorking <= 0 {
		maxWorking = DefaultWorkingSize
	}
	if maxArchived <= 0 {
		maxArchived = DefaultArchiveSize
	}
	m := &Manager{maxWorking: maxWorking, maxArchived: maxArchived}
	m.beginSessionLocked()
	return m
}

// Caller must hold mu (or own the manager exclusively).
func (m *Manager) beginSessionLocked() {
	now := time.Now()
	m.sessionID = fmt.Sprintf("session_%d", now.Unix())
	m.startedAt = now
}

// SessionID returns the identifier of the conversation currently in
// working memory.
func (m *Manager) SessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// AddMessage appends a turn to the working window, evicting the oldest
// turn once the window is full. User turns also feed preference
// extraction.
func (m *Manager) AddMessage(role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, Message{Role: role, Content: content, Timestamp: time.Now()})
	if len(m.history) > m.maxWorking {
		m.history = m.history[len(m.history)-m.maxWorking:]
	}

	if role == llm.RoleUser {
		m.preference.UpdateFromText(content)
	}
}

// History returns the most recent turns, newest last. A non-positive
// limit returns the whole window.
func (m *Manager) History(limit int) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.historyLocked(limit)
}

// Caller must hold mu.
func (m *Manager) historyLocked(limit int) []Message {
	h := m.history
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	return append([]Message(nil), h...)
}

// MessagesForLLM returns the recent turns in the chat-completions shape,
// ready to prepend to an outgoing request.
func (m *Manager) MessagesForLLM(limit int) []llm.Message {
	history := m.History(limit)
	msgs := make([]llm.Message, len(history))
	for i, msg := range history {
		msgs[i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}
	return msgs
}

// Preference returns a copy of the extracted travel preferences.
func (m *Manager) Preference() Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preference.Clone()
}

// SetPreference replaces the extracted preferences, for restoring state
// carried over from elsewhere.
func (m *Manager) SetPreference(p Preferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preference = p.Clone()
}

// RecordCities remembers the cities most recently recommended to the user.
func (m *Manager) RecordCities(cities []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities = append([]string(nil), cities...)
}

// RecordAttractions remembers the attractions most recently recommended.
func (m *Manager) RecordAttractions(names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attractions = append([]string(nil), names...)
}

// RecordPlan remembers the route plan most recently produced.
func (m *Manager) RecordPlan(plan map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = plan
}

// Clear empties the working window and starts a fresh session. When
// archive is true the outgoing conversation is preserved in long-term
// memory first.
func (m *Manager) Clear(archive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if archive {
		m.archiveLocked()
	}
	m.history = nil
	m.beginSessionLocked()
}

// Archive preserves the current conversation in long-term memory and
// returns the archived record.
func (m *Manager) Archive() ArchivedSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.archiveLocked()
}

// Caller must hold mu.
func (m *Manager) archiveLocked() ArchivedSession {
	messages := m.historyLocked(0)
	record := ArchivedSession{
		SessionID:    m.sessionID,
		StartedAt:    m.startedAt,
		EndedAt:      time.Now(),
		MessageCount: len(messages),
		Summary:      m.summarizeLocked(messages),
		Preference:   m.preference.Clone(),
		Cities:       append([]string(nil), m.cities...),
		Attractions:  append([]string(nil), m.attractions...),
		Plan:         m.plan,
		Messages:     messages,
	}

	m.archived = append(m.archived, record)
	if len(m.archived) > m.maxArchived {
		m.archived = m.archived[len(m.archived)-m.maxArchived:]
	}
	return record
}

// Caller must hold mu.
func (m *Manager) summarizeLocked(messages []Message) string {
	var parts []string

	userCount := 0
	for _, msg := range messages {
		if msg.Role == llm.RoleUser {
			userCount++
		}
	}
	if userCount > 0 {
		parts = append(parts, fmt.Sprintf("用户消息数: %d", userCount))
	}

	if len(m.cities) > 0 {
		shown := m.cities
		if len(shown) > 5 {
			shown = shown[:5]
		}
		parts = append(parts, "推荐城市: "+strings.Join(shown, ", "))
	}

	if hasRoutePlan(m.plan) {
		parts = append(parts, "已规划路线")
	}

	if len(parts) == 0 {
		return "一般对话"
	}
	return strings.Join(parts, " | ")
}

func hasRoutePlan(plan map[string]any) bool {
	if plan == nil {
		return false
	}
	switch v := plan["route_plan"].(type) {
	case []any:
		return len(v) > 0
	case []map[string]any:
		return len(v) > 0
	}
	return false
}

// ArchivedSessions lists up to limit archived conversations, newest first.
func (m *Manager) ArchivedSessions(limit int) []ArchiveSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.archived
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	out := make([]ArchiveSummary, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		out = append(out, ArchiveSummary{
			SessionID:    r.SessionID,
			StartedAt:    r.StartedAt,
			EndedAt:      r.EndedAt,
			MessageCount: r.MessageCount,
			Summary:      r.Summary,
		})
	}
	return out
}

// ArchiveDetail returns the full record for an archived session.
func (m *Manager) ArchiveDetail(sessionID string) (ArchivedSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.archived {
		if r.SessionID == sessionID {
			return r, true
		}
	}
	return ArchivedSession{}, false
}

// ContextSummary renders the known preferences and recommendation state
// as a short text block for inclusion in prompts.
func (m *Manager) ContextSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var parts []string
	if m.preference.Budget != nil {
		parts = append(parts, fmt.Sprintf("预算范围：%d-%d元/天", m.preference.Budget.Min, m.preference.Budget.Max))
	}
	if m.preference.TravelDays > 0 {
		parts = append(parts, fmt.Sprintf("旅行天数：%d天", m.preference.TravelDays))
	}
	if len(m.preference.Interests) > 0 {
		parts = append(parts, "兴趣偏好："+strings.Join(m.preference.Interests, ", "))
	}
	if len(m.preference.Cities) > 0 {
		parts = append(parts, "偏好城市："+strings.Join(m.preference.Cities, ", "))
	}
	if len(m.cities) > 0 {
		parts = append(parts, "已推荐城市："+strings.Join(m.cities, ", "))
	}

	if len(parts) == 0 {
		return "暂无用户偏好信息"
	}
	return strings.Join(parts, "\n")
}
