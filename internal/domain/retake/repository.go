package retake

import (
	"fmt"
	"sync"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// StorageKey ключ заявок в хранилище
const StorageKey = "retakeRequests"

// Repository хранит заявки на пересдачу целиком в BlobStore
type Repository struct {
	store database.BlobStore
	mu    sync.Mutex
}

// NewRepository создает новый экземпляр Repository
func NewRepository(store database.BlobStore) *Repository {
	return &Repository{store: store}
}

// LoadAll читает все заявки
func (r *Repository) LoadAll() ([]model.RetakeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadAll()
}

// SaveAll перезаписывает все заявки
func (r *Repository) SaveAll(requests []model.RetakeRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveAll(requests)
}

// Update выполняет read-modify-write под блокировкой
func (r *Repository) Update(fn func([]model.RetakeRequest) ([]model.RetakeRequest, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	requests, err := r.loadAll()
	if err != nil {
		return err
	}
	updated, err := fn(requests)
	if err != nil {
		return err
	}
	return r.saveAll(updated)
}

func (r *Repository) loadAll() ([]model.RetakeRequest, error) {
	var requests []model.RetakeRequest
	if _, err := database.LoadJSON(r.store, StorageKey, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *Repository) saveAll(requests []model.RetakeRequest) error {
	if requests == nil {
		requests = []model.RetakeRequest{}
	}
	if err := database.SaveJSON(r.store, StorageKey, requests); err != nil {
		return fmt.Errorf("failed to save retake requests: %w", err)
	}
	return nil
}
