package session

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for operations on unknown session ids.
var ErrSessionNotFound = errors.New("会话不存在")

// Default lifetimes applied when the session config leaves them unset.
const (
	DefaultTTL          = 24 * time.Hour
	DefaultReapInterval = time.Hour
)

// Store keeps gateway-side session metadata in memory. Conversation
// content lives agent-side; the store only tracks identity, the chosen
// model, and activity for listing and eviction.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	interval time.Duration
	log      *slog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	started  bool
}

// NewStore creates a store. Non-positive ttl or interval fall back to
// the defaults.
func NewStore(ttl, interval time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		interval: interval,
		log:      slog.With("component", "session_store"),
		stopCh:   make(chan struct{}),
	}
}

// Create registers a new session. name may be empty; the UI shows a
// placeholder for unnamed sessions.
func (s *Store) Create(name string) *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.New().String(),
		Name:       name,
		CreatedAt:  now,
		LastActive: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Info("Session created", "session_id", sess.ID, "name", name)
	return sess.Clone()
}

// Get returns a copy of the session.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// List returns sessions sorted by last activity, newest first. Unless
// includeEmpty is set, sessions with no messages are skipped.
func (s *Store) List(includeEmpty bool) []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if !includeEmpty && sess.MessageCount == 0 {
			continue
		}
		out = append(out, sess.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActive.After(out[j].LastActive)
	})
	return out
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Delete removes the session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Rename sets the session name.
func (s *Store) Rename(id, name string) error {
	return s.update(id, func(sess *Session) {
		sess.Name = name
	})
}

// SetModel pins the session to a model profile. The next chat turn
// carries it downstream, which rebuilds the agent-side orchestrator.
func (s *Store) SetModel(id, modelID string) error {
	return s.update(id, func(sess *Session) {
		sess.ModelID = modelID
	})
}

// Model returns the session's pinned model id, empty for the default.
func (s *Store) Model(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	return sess.ModelID, nil
}

// Touch records activity: bumps LastActive and adds messages to the
// count.
func (s *Store) Touch(id string, messages int) error {
	return s.update(id, func(sess *Session) {
		sess.MessageCount += messages
	})
}

// Clear resets the message count, keeping the session itself.
func (s *Store) Clear(id string) error {
	return s.update(id, func(sess *Session) {
		sess.MessageCount = 0
	})
}

func (s *Store) update(id string, fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	fn(sess)
	sess.LastActive = time.Now()
	return nil
}

// Start launches the idle-session reaper. Safe to call once; later
// calls are no-ops.
func (s *Store) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.reap()
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop halts the reaper and waits for it to exit.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Store) reap() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var evicted []string
	for id, sess := range s.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	for _, id := range evicted {
		s.log.Info("Session evicted", "session_id", id, "ttl", s.ttl)
	}
}
