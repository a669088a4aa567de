package session

import (
	"sync"
	"time"

	"vidbot/internal/domain"
)

type entry struct {
	state     domain.StateData
	expiresAt time.Time
}

// Store keeps the transient conversation state of every user.
// A zero ttl means expectations never expire.
type Store struct {
	mu     sync.Mutex
	states map[int64]entry
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a new session store
func NewStore(ttl time.Duration) *Store {
	return &Store{
		states: make(map[int64]entry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Expect marks the user as awaiting a URL for the platform, replacing any
// previous expectation.
func (s *Store) Expect(userID int64, platform domain.Platform) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{state: domain.AwaitingURL(platform)}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.states[userID] = e
}

// Take returns and clears the user's expectation
func (s *Store) Take(userID int64) (domain.Platform, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[userID]
	if !ok {
		return "", false
	}
	delete(s.states, userID)

	if s.expired(e) {
		return "", false
	}
	return e.state.Platform, true
}

// Get returns the user's current state without changing it
func (s *Store) Get(userID int64) domain.StateData {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[userID]
	if !ok || s.expired(e) {
		return domain.Idle()
	}
	return e.state
}

// Clear resets the user to idle
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// Sweep drops expired expectations and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, e := range s.states {
		if s.expired(e) {
			delete(s.states, userID)
			removed++
		}
	}
	return removed
}

// TTL returns how long an expectation lives. Zero means forever.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Len returns the number of users with a pending expectation
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
