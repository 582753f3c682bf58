package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// ErrInvalidProgress пустое тело запроса сохранения
var ErrInvalidProgress = errors.New("Invalid progress data.")

// ProgressRepository хранилище прогресса (blob или postgres)
type ProgressRepository interface {
	Get(ctx context.Context, username string) (model.ProgressMap, bool, error)
	Save(ctx context.Context, username string, m model.ProgressMap) error
	Delete(ctx context.Context, username string) (bool, error)
}

// ProgressService хранит незавершенный прогресс пользователей между сессиями.
// Логин приводится к нижнему регистру.
type ProgressService struct {
	repo ProgressRepository
}

// NewProgressService создает новый экземпляр ProgressService
func NewProgressService(repo ProgressRepository) *ProgressService {
	return &ProgressService{repo: repo}
}

// Get возвращает прогресс пользователя
func (s *ProgressService) Get(ctx context.Context, username string) (model.ProgressMap, bool, error) {
	return s.repo.Get(ctx, normalize(username))
}

// Save заменяет прогресс пользователя
func (s *ProgressService) Save(ctx context.Context, username string, m model.ProgressMap) error {
	if m == nil {
		return ErrInvalidProgress
	}
	key := normalize(username)
	if err := s.repo.Save(ctx, key, m); err != nil {
		return err
	}
	log.Printf("Progress saved for user: %s", key)
	return nil
}

// Delete удаляет прогресс пользователя. Возвращает false, если прогресса не было.
func (s *ProgressService) Delete(ctx context.Context, username string) (bool, error) {
	key := normalize(username)
	deleted, err := s.repo.Delete(ctx, key)
	if err != nil {
		return false, err
	}
	if deleted {
		log.Printf("Progress deleted for user: %s", key)
	}
	return deleted, nil
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
