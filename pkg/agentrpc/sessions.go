package agentrpc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wayfarer-ai/wayfarer/pkg/agent"
)

// Default lifetimes applied when the session config leaves them unset.
const (
	DefaultSessionTTL   = 24 * time.Hour
	DefaultReapInterval = time.Hour
)

// Runner is the per-session orchestration surface the service drives.
// *agent.Orchestrator satisfies it; tests substitute scripted fakes.
type Runner interface {
	Process(ctx context.Context, userInput string) map[string]any
	ProcessStream(ctx context.Context, userInput string, cb agent.Callbacks) map[string]any
}

// RunnerFactory builds a runner bound to the given model profile id.
// An empty id selects the configured default model.
type RunnerFactory func(modelID string) (Runner, error)

type sessionEntry struct {
	// turnMu serializes turns: at most one request drives the runner
	// at a time. The orchestrator is single-turn by construction, so
	// concurrent requests on the same session queue here.
	turnMu  sync.Mutex
	runner  Runner
	modelID string

	// lastActive is guarded by Sessions.mu, not turnMu, so the reaper
	// can inspect it without waiting on an in-flight turn.
	lastActive time.Time
}

// Sessions keeps one runner per conversation so tool registries and
// working memory survive across turns. Idle sessions are evicted by a
// background reaper.
type Sessions struct {
	factory  RunnerFactory
	ttl      time.Duration
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	entries map[string]*sessionEntry

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	started  bool
}

// NewSessions creates a registry over the factory. Non-positive ttl or
// interval fall back to the defaults.
func NewSessions(factory RunnerFactory, ttl, interval time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &Sessions{
		factory:  factory,
		ttl:      ttl,
		interval: interval,
		log:      slog.With("component", "sessions"),
		entries:  make(map[string]*sessionEntry),
		stopCh:   make(chan struct{}),
	}
}

// Acquire returns the runner for the session, creating it on first use,
// and locks the session for the caller's turn. Concurrent requests on
// the same session serialize: Acquire blocks until the previous turn
// calls the returned release func. A changed model id rebuilds the
// runner, which resets the session's working memory on the new model.
func (s *Sessions) Acquire(sessionID, modelID string) (Runner, func(), error) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if !ok {
		entry = &sessionEntry{}
		s.entries[sessionID] = entry
	}
	entry.lastActive = time.Now()
	s.mu.Unlock()

	entry.turnMu.Lock()

	if entry.runner == nil || entry.modelID != modelID {
		runner, err := s.factory(modelID)
		if err != nil {
			// A failed first build leaves a dead entry; drop it while
			// the turn lock still excludes other acquirers.
			if entry.runner == nil {
				s.mu.Lock()
				if current, ok := s.entries[sessionID]; ok && current == entry {
					delete(s.entries, sessionID)
				}
				s.mu.Unlock()
			}
			entry.turnMu.Unlock()
			return nil, nil, err
		}
		if entry.runner == nil {
			s.log.Info("Session created", "session_id", sessionID, "model_id", modelID)
		} else {
			s.log.Info("Session model switched", "session_id", sessionID, "model_id", modelID)
		}
		entry.runner = runner
		entry.modelID = modelID
	}

	return entry.runner, entry.turnMu.Unlock, nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start launches the eviction loop. Safe to call once; later calls are
// no-ops.
func (s *Sessions) Start() {
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

// Stop halts the eviction loop and waits for it to exit.
func (s *Sessions) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Sessions) reap() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var evicted []string
	for id, entry := range s.entries {
		if !entry.lastActive.Before(cutoff) {
			continue
		}
		// A held turn lock means the session is mid-turn; leave it
		// for the next sweep.
		if !entry.turnMu.TryLock() {
			continue
		}
		entry.turnMu.Unlock()
		delete(s.entries, id)
		evicted = append(evicted, id)
	}
	s.mu.Unlock()

	for _, id := range evicted {
		s.log.Info("Session evicted", "session_id", id, "ttl", s.ttl)
	}
}
