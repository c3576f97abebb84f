package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"popcorn/models"
	"popcorn/shared/logger"
	"popcorn/storage"
)

// WatchedKey is the fixed storage key holding a browser's watched list.
const WatchedKey = "watched"

// WatchedStore persists one watched list per owner.
type WatchedStore interface {
	Load(ctx context.Context, owner string) ([]models.WatchedEntry, error)
	Save(ctx context.Context, owner string, list []models.WatchedEntry) error
}

// WatchedRepository stores the watched list as a JSON array in a
// storage.Store, overwriting the whole value on every Save.
type WatchedRepository struct {
	store storage.Store
	log   *slog.Logger
}

func NewWatchedRepository(store storage.Store) *WatchedRepository {
	return &WatchedRepository{store: store, log: logger.With("component", "watched_repository")}
}

// Load returns an empty list when nothing was saved yet or the saved value
// cannot be decoded. Only storage failures are returned as errors.
func (r *WatchedRepository) Load(ctx context.Context, owner string) ([]models.WatchedEntry, error) {
	data, ok, err := r.store.Get(ctx, owner, WatchedKey)
	if err != nil {
		return nil, fmt.Errorf("load watched list: %w", err)
	}
	list := []models.WatchedEntry{}
	if !ok || len(data) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(data, &list); err != nil {
		r.log.Warn("Ignoring malformed watched list", "owner", owner, "error", err)
		return []models.WatchedEntry{}, nil
	}
	if list == nil {
		list = []models.WatchedEntry{}
	}
	return list, nil
}

func (r *WatchedRepository) Save(ctx context.Context, owner string, list []models.WatchedEntry) error {
	if list == nil {
		list = []models.WatchedEntry{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode watched list: %w", err)
	}
	if err := r.store.Set(ctx, owner, WatchedKey, data); err != nil {
		return fmt.Errorf("save watched list: %w", err)
	}
	return nil
}
