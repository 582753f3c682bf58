package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// StorageKey ключ отчетов в BlobStore
const StorageKey = "reports"

// ReportRepository хранит отчеты одним JSON-массивом в BlobStore
type ReportRepository struct {
	store database.BlobStore
	mu    sync.Mutex
}

// NewReportRepository создает новый экземпляр ReportRepository
func NewReportRepository(store database.BlobStore) *ReportRepository {
	return &ReportRepository{store: store}
}

// List возвращает отчеты в порядке поступления
func (r *ReportRepository) List(_ context.Context) ([]model.TrainingReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Get возвращает отчет по id
func (r *ReportRepository) Get(_ context.Context, id string) (model.TrainingReport, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reports, err := r.load()
	if err != nil {
		return model.TrainingReport{}, false, err
	}
	for _, report := range reports {
		if report.ID == id {
			return report, true, nil
		}
	}
	return model.TrainingReport{}, false, nil
}

// Add сохраняет отчет. Отчет с уже известным id игнорируется, возвращается false.
func (r *ReportRepository) Add(_ context.Context, report model.TrainingReport) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reports, err := r.load()
	if err != nil {
		return false, err
	}
	for _, existing := range reports {
		if existing.ID == report.ID {
			return false, nil
		}
	}
	if err := r.save(append(reports, report)); err != nil {
		return false, err
	}
	return true, nil
}

// Clear удаляет все отчеты
func (r *ReportRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(nil)
}

func (r *ReportRepository) load() ([]model.TrainingReport, error) {
	var reports []model.TrainingReport
	if _, err := database.LoadJSON(r.store, StorageKey, &reports); err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) save(reports []model.TrainingReport) error {
	if reports == nil {
		reports = []model.TrainingReport{}
	}
	if err := database.SaveJSON(r.store, StorageKey, reports); err != nil {
		return fmt.Errorf("failed to save reports: %w", err)
	}
	return nil
}
