package repository

import (
	"fmt"
	"strings"
	"sync"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// StorageKey ключ коллекции администраторов в хранилище
const StorageKey = "app_admins"

// ReservedUsername зарезервированный суперадминистратор, его нельзя удалить
const ReservedUsername = "superadmin"

// AdminRepository хранит администраторов целиком в BlobStore
type AdminRepository struct {
	store database.BlobStore
	mu    sync.Mutex
}

// NewAdminRepository создает новый экземпляр AdminRepository
func NewAdminRepository(store database.BlobStore) *AdminRepository {
	return &AdminRepository{store: store}
}

// LoadAll читает всех администраторов. Если суперадминистратора нет, он создается.
func (r *AdminRepository) LoadAll() ([]model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadAll()
}

// SaveAll перезаписывает коллекцию администраторов
func (r *AdminRepository) SaveAll(admins []model.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveAll(admins)
}

// Update выполняет read-modify-write под блокировкой репозитория
func (r *AdminRepository) Update(fn func([]model.AdminUser) ([]model.AdminUser, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	admins, err := r.loadAll()
	if err != nil {
		return err
	}
	updated, err := fn(admins)
	if err != nil {
		return err
	}
	return r.saveAll(updated)
}

func (r *AdminRepository) loadAll() ([]model.AdminUser, error) {
	var admins []model.AdminUser
	if _, err := database.LoadJSON(r.store, StorageKey, &admins); err != nil {
		admins = nil
	}
	for _, a := range admins {
		if strings.EqualFold(a.Username, ReservedUsername) {
			return admins, nil
		}
	}
	admins = append(admins, model.AdminUser{Username: ReservedUsername, Password: "dq.adm", Role: model.RoleSuper})
	if err := r.saveAll(admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *AdminRepository) saveAll(admins []model.AdminUser) error {
	if admins == nil {
		admins = []model.AdminUser{}
	}
	if err := database.SaveJSON(r.store, StorageKey, admins); err != nil {
		return fmt.Errorf("failed to save admins: %w", err)
	}
	return nil
}
