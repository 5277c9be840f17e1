package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/ascendo/trainboard/internal/store"
)

// FlushManager periodically drains the store's dirty flag by writing the
// in-memory collections to disk. A failed flush is logged and retried on the
// next tick; it never crashes the server or touches in-flight requests.
type FlushManager struct {
	store    *store.Store
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	done     chan struct{}
}

// NewFlushManager creates a new flush manager.
func NewFlushManager(s *store.Store, logger *slog.Logger, interval time.Duration) *FlushManager {
	return &FlushManager{
		store:    s,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the periodic flush loop until Stop is called or ctx is
// cancelled. On the way out it attempts one final flush so a clean shutdown
// does not lose the last mutations.
func (fm *FlushManager) Start(ctx context.Context) {
	defer close(fm.done)

	ticker := time.NewTicker(fm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fm.flush()
		case <-fm.stopCh:
			fm.flush()
			fm.logger.Info("flush manager stopped")
			return
		case <-ctx.Done():
			fm.flush()
			fm.logger.Info("flush manager context cancelled")
			return
		}
	}
}

func (fm *FlushManager) flush() {
	if err := fm.store.SaveIfDirty(); err != nil {
		fm.logger.Error("failed to save data", slog.Any("error", err))
	}
}

// Stop signals the flush manager to stop and blocks until the loop, final
// flush included, has finished. Start must have been called, in a goroutine
// or otherwise, or Stop waits forever.
func (fm *FlushManager) Stop() {
	close(fm.stopCh)
	<-fm.done
}
