package memory

import (
	"context"
	"sync"
	"time"

	"terragrow/internal/domain/season"
)

type entry struct {
	session *season.Session
	touched time.Time
}

// Store keeps sessions in process memory. A positive ttl evicts sessions that
// have not been read or written for that long.
type Store struct {
	locks keyedLocks

	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewStore() *Store {
	return NewStoreWithTTL(0)
}

func NewStoreWithTTL(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) expired(e entry, at time.Time) bool {
	return s.ttl > 0 && at.Sub(e.touched) > s.ttl
}

// Sweep drops expired sessions and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, at) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
