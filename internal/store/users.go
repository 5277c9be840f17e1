package store

import (
	"sync"

	"github.com/ascendo/trainboard/internal/models"
)

// UserStore holds the registered users behind its own reader/writer lock.
// Users are append-only: there is no deletion or password-change path.
type UserStore struct {
	mu    sync.RWMutex
	users []models.User
}

// NewUserStore wraps an already-loaded user collection.
func NewUserStore(users []models.User) *UserStore {
	return &UserStore{users: users}
}

// Get returns the user with the given username (case-sensitive).
func (s *UserStore) Get(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// Create appends a new user. Uniqueness is enforced under the write lock;
// a duplicate username returns models.ErrUsernameExists.
func (s *UserStore) Create(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return models.ErrUsernameExists
		}
	}
	s.users = append(s.users, user)
	return nil
}

// Snapshot returns a copy of the full collection for serialization.
func (s *UserStore) Snapshot() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Len returns the number of registered users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
