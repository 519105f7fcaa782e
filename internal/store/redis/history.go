package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
)

// ErrEntryNotFound is returned by GetEntry for a missing key.
var ErrEntryNotFound = errors.New("history entry not found in redis")

// Store persists history entries in Redis: one JSON value per entry plus a
// set indexing every ID.
type Store struct {
	client *redis.Client
	logger logger.Logger
}

// NewStore creates a new Redis history store
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log,
	}
}

// Put stores an entry and indexes its ID in one transaction
func (s *Store) Put(ctx context.Context, entry domain.HistoryEntry) error {
	data, err := json.Marshal(entry.ToRecord())
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, HistoryKey(entry.ID()), data, 0)
		pipe.SAdd(ctx, AllHistoryKey(), entry.ID())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// GetEntry retrieves one entry by ID
func (s *Store) GetEntry(ctx context.Context, id string) (domain.HistoryEntry, error) {
	data, err := s.client.Get(ctx, HistoryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.HistoryEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
		}
		return domain.HistoryEntry{}, fmt.Errorf("failed to get history entry: %w", err)
	}

	var rec domain.HistoryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("failed to unmarshal history entry: %w", err)
	}

	return rec.Entry()
}

// GetAll retrieves every indexed entry. IDs whose value vanished or cannot be
// decoded are skipped.
func (s *Store) GetAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	ids, err := s.client.SMembers(ctx, AllHistoryKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history IDs: %w", err)
	}

	if len(ids) == 0 {
		return []domain.HistoryEntry{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = HistoryKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history entries: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			s.logger.Debug("history id without value", logger.String("id", ids[i]))
			continue
		}

		var rec domain.HistoryRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			s.logger.Warn("skipping unreadable history entry",
				logger.String("id", ids[i]),
				logger.Error(err))
			continue
		}
		entry, err := rec.Entry()
		if err != nil {
			s.logger.Warn("skipping invalid history entry",
				logger.String("id", ids[i]),
				logger.Error(err))
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Delete removes an entry and its index membership
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, HistoryKey(id))
		pipe.SRem(ctx, AllHistoryKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// DeleteAll removes every history key, including orphans not in the index
func (s *Store) DeleteAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixHistory+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete history key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan history keys: %w", err)
	}

	if err := s.client.Del(ctx, AllHistoryKey()).Err(); err != nil {
		return fmt.Errorf("failed to delete history index: %w", err)
	}
	return nil
}
