package repository

import (
	"fmt"
	"strings"
	"sync"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// StorageKey ключ коллекции пользователей в хранилище
const StorageKey = "app_users"

// ReservedUsername зарезервированный демо-пользователь, его нельзя удалить
const ReservedUsername = "demo"

// UserRepository хранит пользователей целиком в BlobStore
type UserRepository struct {
	store database.BlobStore
	mu    sync.Mutex
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(store database.BlobStore) *UserRepository {
	return &UserRepository{store: store}
}

// LoadAll читает всех пользователей.
// Записи очищаются от пробелов, пустой статус становится active, записи без логина отбрасываются.
// Если демо-пользователя нет, он добавляется и коллекция сохраняется.
func (r *UserRepository) LoadAll() ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadAll()
}

// SaveAll перезаписывает коллекцию пользователей
func (r *UserRepository) SaveAll(users []model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveAll(users)
}

// Update выполняет read-modify-write под блокировкой репозитория
func (r *UserRepository) Update(fn func([]model.User) ([]model.User, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadAll()
	if err != nil {
		return err
	}
	updated, err := fn(users)
	if err != nil {
		return err
	}
	return r.saveAll(updated)
}

func (r *UserRepository) loadAll() ([]model.User, error) {
	var raw []model.User
	if _, err := database.LoadJSON(r.store, StorageKey, &raw); err != nil {
		// повреждённая коллекция сбрасывается, как при первом запуске
		raw = nil
	}

	users := make([]model.User, 0, len(raw)+1)
	hasReserved := false
	for _, u := range raw {
		u.Username = strings.TrimSpace(u.Username)
		u.FullName = strings.TrimSpace(u.FullName)
		if u.Username == "" {
			continue
		}
		if u.Status == "" {
			u.Status = model.UserActive
		}
		if strings.EqualFold(u.Username, ReservedUsername) {
			hasReserved = true
		}
		users = append(users, u)
	}

	if !hasReserved || len(users) != len(raw) {
		if !hasReserved {
			users = append(users, model.User{FullName: "Demo User", Username: "Demo", Password: "Demo", Status: model.UserActive})
		}
		if err := r.saveAll(users); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *UserRepository) saveAll(users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	if err := database.SaveJSON(r.store, StorageKey, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}
