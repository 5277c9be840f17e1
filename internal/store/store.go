package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ascendo/trainboard/internal/models"
)

const (
	usersFile    = "users.json"
	problemsFile = "problems.json"
	settingsFile = "settings.json"
)

// Store owns the durable collections and the dirty flag. Each collection has
// its own lock; the flag is an atomic so mutation paths can mark the store
// dirty without ever blocking on I/O. The actual flush happens out of band
// (internal/background) or on demand via SaveIfDirty.
type Store struct {
	Users    *UserStore
	Problems *ProblemStore

	dataDir string
	dirty   atomic.Bool
	logger  *slog.Logger
}

// Open loads users.json and problems.json from dataDir, creating the
// directory if needed. A missing file yields an empty collection; a malformed
// one is logged and likewise treated as empty. Load problems never abort
// startup: availability wins over strict consistency with prior disk state.
func Open(dataDir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	users := loadCollection[models.User](filepath.Join(dataDir, usersFile), logger)
	problems := loadCollection[models.Problem](filepath.Join(dataDir, problemsFile), logger)

	return &Store{
		Users:    NewUserStore(users),
		Problems: NewProblemStore(problems),
		dataDir:  dataDir,
		logger:   logger,
	}, nil
}

// MarkDirty records that in-memory state has diverged from the last snapshot.
// Safe to call from any mutation path; never blocks.
func (s *Store) MarkDirty() {
	s.dirty.Store(true)
}

// Dirty reports whether a flush is pending.
func (s *Store) Dirty() bool {
	return s.dirty.Load()
}

// SaveIfDirty flushes to disk only when a mutation has occurred since the
// last successful flush. The check-and-clear is a single atomic swap, cleared
// before the write: a mutation that lands mid-save re-sets the flag and is
// picked up on the next tick (its data may also already be in the snapshot
// just written; both outcomes are safe). A failed save re-sets the flag so
// the next tick retries.
func (s *Store) SaveIfDirty() error {
	if !s.dirty.Swap(false) {
		return nil
	}
	if err := s.Save(); err != nil {
		s.dirty.Store(true)
		return err
	}
	return nil
}

// Save serializes both collections wholesale to their JSON documents. Each
// collection is snapshotted under its read lock and written with no locks
// held. A partial failure (users written, problems failed) leaves disk state
// inconsistent with memory; it is reported but not fatal.
func (s *Store) Save() error {
	users := s.Users.Snapshot()
	if err := writeJSON(filepath.Join(s.dataDir, usersFile), users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}

	problems := s.Problems.Snapshot()
	if err := writeJSON(filepath.Join(s.dataDir, problemsFile), problems); err != nil {
		return fmt.Errorf("failed to save problems: %w", err)
	}

	return nil
}

// LoadSettings reads settings.json from dataDir, falling back to defaults
// when the file is missing or unreadable. Settings are never written back.
func LoadSettings(dataDir string, logger *slog.Logger) models.Settings {
	path := filepath.Join(dataDir, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read settings file", slog.String("path", path), slog.Any("error", err))
		}
		return models.DefaultSettings()
	}

	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		logger.Warn("malformed settings file, using defaults", slog.String("path", path), slog.Any("error", err))
		return models.DefaultSettings()
	}
	return settings
}

func loadCollection[T any](path string, logger *slog.Logger) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read data file", slog.String("path", path), slog.Any("error", err))
		}
		return nil
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn("malformed data file, starting empty", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	return out
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
