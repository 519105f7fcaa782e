package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
)

// HistoryLoader is satisfied by history.Store.
type HistoryLoader interface {
	Load(ctx context.Context) ([]domain.HistoryEntry, error)
}

// HistorySyncer warms the history view from storage on startup
type HistorySyncer struct {
	store  HistoryLoader
	logger logger.Logger
}

// NewHistorySyncer creates a new history syncer
func NewHistorySyncer(store HistoryLoader, log logger.Logger) *HistorySyncer {
	return &HistorySyncer{
		store:  store,
		logger: log,
	}
}

// Sync loads the most recent entries into the view
func (hs *HistorySyncer) Sync(ctx context.Context) error {
	hs.logger.Info("loading history from storage")

	entries, err := hs.store.Load(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		hs.logger.Info("no history found in storage")
		return nil
	}

	hs.logger.Info("loaded history",
		logger.Int("count", len(entries)),
		logger.Time("newest", entries[0].CreatedAt()))

	return nil
}
