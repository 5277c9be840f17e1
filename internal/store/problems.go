package store

import (
	"sync"

	"github.com/ascendo/trainboard/internal/models"
)

// ProblemStore holds the problem collection and the next-id counter behind a
// single reader/writer lock. All reads return deep copies so callers never
// alias the guarded data.
type ProblemStore struct {
	mu       sync.RWMutex
	problems []models.Problem
	nextID   uint32
}

// NewProblemStore wraps an already-loaded problem collection. The next-id
// counter starts at max(existing ids)+1, or 1 for an empty collection.
func NewProblemStore(problems []models.Problem) *ProblemStore {
	var maxID uint32
	for i := range problems {
		if problems[i].ID > maxID {
			maxID = problems[i].ID
		}
	}
	return &ProblemStore{problems: problems, nextID: maxID + 1}
}

// NextID returns the id the next inserted problem will receive.
func (s *ProblemStore) NextID() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

// Snapshot returns a deep copy of the full collection.
func (s *ProblemStore) Snapshot() []models.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Problem, 0, len(s.problems))
	for i := range s.problems {
		out = append(out, s.problems[i].Clone())
	}
	return out
}

// Get returns a copy of the problem with the given id.
func (s *ProblemStore) Get(id uint32) (models.Problem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.problems {
		if s.problems[i].ID == id {
			return s.problems[i].Clone(), true
		}
	}
	return models.Problem{}, false
}

// AllocateID hands out the next problem id and advances the counter.
func (s *ProblemStore) AllocateID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

// Insert appends p to the collection. The caller is expected to have set the
// id via AllocateID.
func (s *ProblemStore) Insert(p models.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems = append(s.problems, p)
}

// Mutate applies fn to the problem with the given id under the write lock and
// returns the updated copy. If fn returns an error the mutation is treated as
// applied-or-not by fn itself; the error is passed through unchanged.
// A missing id returns models.ErrNotFound.
func (s *ProblemStore) Mutate(id uint32, fn func(*models.Problem) error) (models.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.problems {
		if s.problems[i].ID == id {
			if err := fn(&s.problems[i]); err != nil {
				return models.Problem{}, err
			}
			return s.problems[i].Clone(), nil
		}
	}
	return models.Problem{}, models.ErrNotFound
}

// Delete removes the problem with the given id, reporting whether it existed.
func (s *ProblemStore) Delete(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.problems {
		if s.problems[i].ID == id {
			s.problems = append(s.problems[:i], s.problems[i+1:]...)
			return true
		}
	}
	return false
}
