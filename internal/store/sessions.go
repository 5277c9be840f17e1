package store

import (
	"sync"

	"github.com/ascendo/trainboard/internal/models"
	"github.com/ascendo/trainboard/pkg/auth"
)

// SessionStore maps opaque bearer tokens to usernames. It is memory-only:
// a restart invalidates every session. Tokens are 256-bit random values, so
// no collision check is performed on insert.
//
// There is no TTL; sessions live until explicitly revoked.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]string)}
}

// Create issues a fresh token for username and records the session.
func (s *SessionStore) Create(username string) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = username
	s.mu.Unlock()

	return token, nil
}

// Lookup resolves a token to its username. A missing token is not an error,
// just "no session".
func (s *SessionStore) Lookup(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.sessions[token]
	return username, ok
}

// Revoke removes the session for token and returns the username it belonged
// to, if any.
func (s *SessionStore) Revoke(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.sessions[token]
	if ok {
		delete(s.sessions, token)
	}
	return username, ok
}

// Rotate atomically replaces oldToken with a freshly issued token for the
// same user. Returns models.ErrInvalidToken when no such session exists.
func (s *SessionStore) Rotate(oldToken string) (string, error) {
	newToken, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.sessions[oldToken]
	if !ok {
		return "", models.ErrInvalidToken
	}
	delete(s.sessions, oldToken)
	s.sessions[newToken] = username

	return newToken, nil
}
