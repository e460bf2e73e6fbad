// internal/game/game_store.go
package game

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is one client's slot in the store. Hold its lock while touching Game.
type Session struct {
	ID   uuid.UUID
	Game *Lucky21

	mu       sync.Mutex
	recorded bool
	lastSeen time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Reset replaces the session's game and clears the recorded flag. Caller holds the lock.
func (s *Session) Reset(g *Lucky21) {
	s.Game = g
	s.recorded = false
}

// MarkRecorded returns true the first time it is called for the current game.
// Caller holds the lock.
func (s *Session) MarkRecorded() bool {
	if s.recorded {
		return false
	}
	s.recorded = true
	return true
}

// GameStore keeps the in-memory games of every session, evicting sessions
// that have been idle for longer than the idle timeout.
type GameStore struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]*Session
	clock       quartz.Clock
	idleTimeout time.Duration
}

// NewGameStore creates a store. An idleTimeout of 0 disables eviction.
func NewGameStore(clock quartz.Clock, idleTimeout time.Duration) *GameStore {
	return &GameStore{
		sessions:    make(map[uuid.UUID]*Session),
		clock:       clock,
		idleTimeout: idleTimeout,
	}
}

// Session returns the session for id, creating it if needed, and marks it as active.
func (s *GameStore) Session(id uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}
	sess.lastSeen = s.clock.Now()
	return sess
}

// Lookup returns an existing session without touching its activity time.
func (s *GameStore) Lookup(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *GameStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *GameStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout and returns how many were dropped.
func (s *GameStore) Sweep() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	dropped := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.idleTimeout {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// RunJanitor sweeps every interval until ctx is cancelled.
func (s *GameStore) RunJanitor(ctx context.Context, interval time.Duration, logger *logrus.Logger) {
	if s.idleTimeout <= 0 {
		return
	}
	w := s.clock.TickerFunc(ctx, interval, func() error {
		if n := s.Sweep(); n > 0 {
			logger.WithField("evicted", n).Info("evicted idle sessions")
		}
		return nil
	}, "janitor")
	_ = w.Wait()
}
