package search

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/metadata"
	"github.com/reelfinder/reelfinder/internal/metrics"
)

var ErrSessionNotFound = errors.New("search session not found")

// Registry keeps live search sessions in memory, keyed by id.
type Registry struct {
	mu            sync.RWMutex
	sessions      map[string]*registryEntry
	client        metadata.OMDBClient
	broadcaster   Broadcaster
	logger        zerolog.Logger
	sessionLogger zerolog.Logger
	now           func() time.Time
}

type registryEntry struct {
	session    *Session
	lastAccess time.Time
}

// NewRegistry creates an empty registry whose sessions search with client.
func NewRegistry(client metadata.OMDBClient, logger zerolog.Logger) *Registry {
	return &Registry{
		sessions:      make(map[string]*registryEntry),
		client:        client,
		logger:        logger.With().Str("component", "sessions").Logger(),
		sessionLogger: logger.With().Str("component", "search").Logger(),
		now:           time.Now,
	}
}

// SetBroadcaster sets the broadcaster handed to sessions created afterwards.
func (r *Registry) SetBroadcaster(b Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcaster = b
}

// Create starts a new empty session.
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	session := NewSession(id, r.client, r.sessionLogger)

	r.mu.Lock()
	if r.broadcaster != nil {
		session.SetBroadcaster(r.broadcaster)
	}
	r.sessions[id] = &registryEntry{session: session, lastAccess: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	r.logger.Debug().Str("session", id).Msg("Created search session")
	return session
}

// Get returns the session with the given id and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastAccess = r.now()
	return entry.session, nil
}

// Delete removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	if _, ok := r.sessions[id]; !ok {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return nil
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepIdle removes sessions unused for longer than ttl and returns how
// many were removed. Sessions with a search in flight are kept.
func (r *Registry) SweepIdle(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	removed := 0
	for id, entry := range r.sessions {
		if entry.lastAccess.Before(cutoff) && !entry.session.Loading() {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	if removed > 0 {
		r.logger.Info().Int("removed", removed).Int("remaining", n).Msg("Swept idle search sessions")
	}
	return removed
}
