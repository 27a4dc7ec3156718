package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// DefaultTTL is how long an untouched session survives before the registry
// reaps it
const DefaultTTL = 30 * time.Minute

// Registry tracks in-flight streaming answer sessions. Sessions live only
// in process memory; a replica can only report on streams it started.
type Registry struct {
	sessions map[string]*types.Session
	timers   map[string]*time.Timer
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewRegistry creates a session registry with the default TTL
func NewRegistry() *Registry {
	return NewRegistryWithTTL(DefaultTTL)
}

// NewRegistryWithTTL creates a session registry with a custom TTL
func NewRegistryWithTTL(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*types.Session),
		timers:   make(map[string]*time.Timer),
		ttl:      ttl,
	}
}

// NewSessionID generates a stream session identifier
func NewSessionID() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return "stream_" + hex.EncodeToString(bytes), nil
}

// Create registers a new session for the query and returns it. The session
// is reaped automatically when the TTL elapses.
func (r *Registry) Create(query *types.QueryRequest) (*types.Session, error) {
	id, err := NewSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &types.Session{
		ID:        id,
		Query:     query,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	r.mu.Lock()
	r.sessions[id] = session
	r.timers[id] = time.AfterFunc(r.ttl, func() { r.Remove(id) })
	r.mu.Unlock()

	return session, nil
}

// Get returns a copy of the session, or false when it does not exist
func (r *Registry) Get(id string) (types.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return types.Session{}, false
	}
	return *session, true
}

// Append adds streamed content to the session's accumulated answer
func (r *Registry) Append(id, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[id]; exists {
		session.CurrentContent += token
	}
}

// Complete marks the session's stream as finished
func (r *Registry) Complete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[id]; exists {
		session.IsComplete = true
	}
}

// Remove deletes the session and cancels its expiry timer
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, exists := r.timers[id]; exists {
		timer.Stop()
		delete(r.timers, id)
	}
	delete(r.sessions, id)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
