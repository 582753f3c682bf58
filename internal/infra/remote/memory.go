package remote

import (
	"context"
	"strings"
	"sync"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// Memory хранит отчеты и прогресс в памяти процесса.
// Используется, когда адрес сервера не задан, и в тестах.
type Memory struct {
	mu       sync.Mutex
	reports  []model.TrainingReport
	progress map[string]model.ProgressMap

	// FailSubmit и FailSync имитируют сетевые ошибки
	FailSubmit error
	FailSync   error
}

// NewMemory создает пустое хранилище
func NewMemory() *Memory {
	return &Memory{progress: make(map[string]model.ProgressMap)}
}

func (m *Memory) ListReports(_ context.Context) ([]model.TrainingReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.TrainingReport(nil), m.reports...), nil
}

func (m *Memory) SubmitReport(_ context.Context, report model.TrainingReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSubmit != nil {
		return m.FailSubmit
	}
	for _, r := range m.reports {
		if r.ID == report.ID {
			return nil
		}
	}
	m.reports = append(m.reports, report)
	return nil
}

func (m *Memory) ClearReports(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = nil
	return nil
}

func (m *Memory) GetProgress(_ context.Context, username string) (model.ProgressMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSync != nil {
		return nil, m.FailSync
	}
	p, ok := m.progress[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (m *Memory) SaveProgress(_ context.Context, username string, p model.ProgressMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSync != nil {
		return m.FailSync
	}
	m.progress[strings.ToLower(username)] = p.Clone()
	return nil
}

func (m *Memory) DeleteProgress(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSync != nil {
		return m.FailSync
	}
	key := strings.ToLower(username)
	if _, ok := m.progress[key]; !ok {
		return ErrNotFound
	}
	delete(m.progress, key)
	return nil
}

// SetFailures меняет имитацию ошибок под блокировкой
func (m *Memory) SetFailures(submit, sync error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailSubmit = submit
	m.FailSync = sync
}
