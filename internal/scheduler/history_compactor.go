package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/qrgen/internal/logger"
)

// Compactor is satisfied by history.Store.
type Compactor interface {
	Compact(ctx context.Context, keep int) (int, error)
}

// HistoryCompactor trims stored history down to a retention count. The
// visible view is bounded separately; this only bounds storage growth.
type HistoryCompactor struct {
	store     Compactor
	logger    logger.Logger
	interval  time.Duration
	retention int
	stopCh    chan struct{}
}

// NewHistoryCompactor creates a new compactor. A retention of zero or less
// disables it.
func NewHistoryCompactor(
	store Compactor,
	log logger.Logger,
	interval time.Duration,
	retention int,
) *HistoryCompactor {
	return &HistoryCompactor{
		store:     store,
		logger:    log,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Enabled reports whether a retention limit is configured.
func (hc *HistoryCompactor) Enabled() bool {
	return hc.retention > 0 && hc.interval > 0
}

// Start begins the periodic compaction process
func (hc *HistoryCompactor) Start(ctx context.Context) error {
	if !hc.Enabled() {
		hc.logger.Info("history compaction disabled")
		return nil
	}

	// Run immediately on start
	if err := hc.Compact(ctx); err != nil {
		hc.logger.Warn("initial history compaction failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(hc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := hc.Compact(ctx); err != nil {
					hc.logger.Error("history compaction failed",
						logger.Error(err))
				}
			case <-hc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the compactor
func (hc *HistoryCompactor) Stop() {
	close(hc.stopCh)
}

// Compact deletes stored entries beyond the retention count
func (hc *HistoryCompactor) Compact(ctx context.Context) error {
	deleted, err := hc.store.Compact(ctx, hc.retention)
	if err != nil {
		return err
	}

	if deleted > 0 {
		hc.logger.Info("history compaction completed",
			logger.Int("deleted", deleted),
			logger.Int("retention", hc.retention))
	} else {
		hc.logger.Debug("no history entries to compact")
	}

	return nil
}
