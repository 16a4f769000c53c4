package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-analyzer/internal/logger"
)

// Store keeps sessions in memory and is safe for concurrent use.
// Nothing survives a restart.
type Store struct {
	extractor Extractor

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store whose sessions share extractor.
func NewStore(extractor Extractor) *Store {
	return &Store{
		extractor: extractor,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a new idle session with a random ID.
func (s *Store) Create() *Session {
	sess := New(uuid.NewString(), s.extractor)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session with the given ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Delete removes a session. Any in-flight analysis is abandoned.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.Clear()
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions that have not changed for maxIdle. Loading sessions
// are always kept. It returns the number of sessions removed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		updated, idle := sess.idleSince()
		if idle && updated.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps the store every interval until ctx is cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) error {
	log := logger.FromContext(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Session janitor stopped")
			return nil
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				log.Debug().Int("removed", n).Int("remaining", s.Len()).Msg("Swept idle sessions")
			}
		}
	}
}
