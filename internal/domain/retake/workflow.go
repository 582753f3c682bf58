package retake

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// AccountActivator возвращает пользователю статус active
type AccountActivator interface {
	Activate(username string) error
}

// ProgressClearer синхронно очищает удаленный прогресс пользователя
type ProgressClearer interface {
	Purge(ctx context.Context, username string) error
}

// Workflow обрабатывает заявки на повторное прохождение обучения
type Workflow struct {
	repo     *Repository
	accounts AccountActivator
	progress ProgressClearer
	now      func() time.Time
}

// NewWorkflow создает Workflow
func NewWorkflow(repo *Repository, accounts AccountActivator, progress ProgressClearer) *Workflow {
	return &Workflow{repo: repo, accounts: accounts, progress: progress, now: time.Now}
}

// Request создает заявку, если итог не пройден и заявки от этого пользователя еще нет.
// Возвращает true, если заявка создана.
func (w *Workflow) Request(user model.ReportUser, overallResult bool) (bool, error) {
	if overallResult {
		return false, nil
	}
	created := false
	err := w.repo.Update(func(requests []model.RetakeRequest) ([]model.RetakeRequest, error) {
		if indexOf(requests, user.Username) >= 0 {
			return requests, nil
		}
		created = true
		return append(requests, model.RetakeRequest{
			Username:    user.Username,
			FullName:    user.FullName,
			RequestDate: w.now().UTC().Format(time.RFC3339),
		}), nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to store retake request: %w", err)
	}
	return created, nil
}

// Approve удаляет удаленный прогресс пользователя, активирует его и удаляет заявку.
// Если прогресс удалить не удалось, ничего не меняется и заявка остается.
// Без заявки ничего не делает и возвращает false.
func (w *Workflow) Approve(ctx context.Context, username string) (bool, error) {
	requests, err := w.repo.LoadAll()
	if err != nil {
		return false, err
	}
	i := indexOf(requests, username)
	if i < 0 {
		return false, nil
	}
	stored := requests[i].Username

	if err := w.progress.Purge(ctx, stored); err != nil {
		return false, fmt.Errorf("failed to clear saved progress for %s: %w", stored, err)
	}
	if err := w.accounts.Activate(stored); err != nil {
		return false, fmt.Errorf("failed to activate %s: %w", stored, err)
	}
	if err := w.remove(stored); err != nil {
		return false, err
	}
	log.Printf("retake approved for %s", stored)
	return true, nil
}

// Deny удаляет заявку, статус пользователя не меняется
func (w *Workflow) Deny(username string) (bool, error) {
	requests, err := w.repo.LoadAll()
	if err != nil {
		return false, err
	}
	if indexOf(requests, username) < 0 {
		return false, nil
	}
	if err := w.remove(username); err != nil {
		return false, err
	}
	return true, nil
}

// Pending возвращает заявки, новые первыми
func (w *Workflow) Pending() ([]model.RetakeRequest, error) {
	requests, err := w.repo.LoadAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].RequestDate > requests[j].RequestDate
	})
	return requests, nil
}

// Search ищет заявки по имени или логину
func (w *Workflow) Search(term string) ([]model.RetakeRequest, error) {
	requests, err := w.Pending()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return requests, nil
	}
	var out []model.RetakeRequest
	for _, r := range requests {
		if strings.Contains(strings.ToLower(r.FullName), term) || strings.Contains(strings.ToLower(r.Username), term) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (w *Workflow) remove(username string) error {
	return w.repo.Update(func(requests []model.RetakeRequest) ([]model.RetakeRequest, error) {
		out := requests[:0]
		for _, r := range requests {
			if !strings.EqualFold(r.Username, username) {
				out = append(out, r)
			}
		}
		return out, nil
	})
}

func indexOf(requests []model.RetakeRequest, username string) int {
	for i, r := range requests {
		if strings.EqualFold(r.Username, strings.TrimSpace(username)) {
			return i
		}
	}
	return -1
}
