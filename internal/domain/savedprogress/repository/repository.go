package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// StorageKey ключ сохраненного прогресса в BlobStore
const StorageKey = "progress"

// ProgressRepository хранит прогресс всех пользователей одной JSON-картой
type ProgressRepository struct {
	store database.BlobStore
	mu    sync.Mutex
}

// NewProgressRepository создает новый экземпляр ProgressRepository
func NewProgressRepository(store database.BlobStore) *ProgressRepository {
	return &ProgressRepository{store: store}
}

// Get возвращает прогресс пользователя
func (r *ProgressRepository) Get(_ context.Context, username string) (model.ProgressMap, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load()
	if err != nil {
		return nil, false, err
	}
	m, ok := all[username]
	return m, ok, nil
}

// Save заменяет прогресс пользователя
func (r *ProgressRepository) Save(_ context.Context, username string, m model.ProgressMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load()
	if err != nil {
		return err
	}
	all[username] = m
	return r.save(all)
}

// Delete удаляет прогресс пользователя. Возвращает false, если прогресса не было.
func (r *ProgressRepository) Delete(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load()
	if err != nil {
		return false, err
	}
	if _, ok := all[username]; !ok {
		return false, nil
	}
	delete(all, username)
	return true, r.save(all)
}

func (r *ProgressRepository) load() (map[string]model.ProgressMap, error) {
	all := make(map[string]model.ProgressMap)
	if _, err := database.LoadJSON(r.store, StorageKey, &all); err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if all == nil {
		all = make(map[string]model.ProgressMap)
	}
	return all, nil
}

func (r *ProgressRepository) save(all map[string]model.ProgressMap) error {
	if err := database.SaveJSON(r.store, StorageKey, all); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}
