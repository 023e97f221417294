package bot

import (
	"errors"
	"sync"
)

var ErrDuplicateSession = errors.New("session already exists for credential")

// Registry is the in-memory map of live bot sessions, keyed by credential.
// It is the single source of truth for "is this vendor's bot running". State
// is not persisted; the reconciler rebuilds it from the database on startup.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Lookup returns the live session for a credential, or nil.
func (r *Registry) Lookup(token string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[token]
}

// Insert registers a session under its credential. Inserting over an
// existing entry fails with ErrDuplicateSession; the existing session is
// kept.
func (r *Registry) Insert(token string, session *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[token]; exists {
		return ErrDuplicateSession
	}
	r.sessions[token] = session
	return nil
}

// Remove deletes and returns the session for a credential so the caller can
// tear it down. Returns nil if no entry exists.
func (r *Registry) Remove(token string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[token]
	if !exists {
		return nil
	}
	delete(r.sessions, token)
	return session
}

// Credentials returns the credentials with a live session.
func (r *Registry) Credentials() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.sessions))
	for token := range r.sessions {
		tokens = append(tokens, token)
	}
	return tokens
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
