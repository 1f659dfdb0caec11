package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Round couples a session with its server-side start time so transport
// callers that do not track elapsed time themselves can still poll frames.
type Round struct {
	ID        string
	Session   *RevealSession
	StartedAt time.Time
}

// Elapsed returns the wall-clock seconds since the round started.
func (r *Round) Elapsed() float64 {
	return time.Since(r.StartedAt).Seconds()
}

// Registry is an in-memory store of active rounds keyed by id. It belongs to
// the presentation plumbing: sessions themselves hold no cross-round state.
type Registry struct {
	mu     sync.RWMutex
	rounds map[string]*Round
}

// NewRegistry creates an empty round registry.
func NewRegistry() *Registry {
	return &Registry{rounds: make(map[string]*Round)}
}

// Add stores a new session and returns the created round.
func (r *Registry) Add(s *RevealSession) *Round {
	round := &Round{
		ID:        uuid.NewString(),
		Session:   s,
		StartedAt: time.Now(),
	}
	r.mu.Lock()
	r.rounds[round.ID] = round
	r.mu.Unlock()
	return round
}

// Get looks up an active round by id.
func (r *Registry) Get(id string) (*Round, bool) {
	r.mu.RLock()
	round, ok := r.rounds[id]
	r.mu.RUnlock()
	return round, ok
}

// Remove closes a round. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.rounds, id)
	r.mu.Unlock()
}

// Count returns the number of active rounds.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rounds)
}

// PruneExpired removes rounds older than ttl and returns how many were
// dropped.
func (r *Registry) PruneExpired(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, round := range r.rounds {
		if round.StartedAt.Before(cutoff) {
			delete(r.rounds, id)
			removed++
		}
	}
	return removed
}
