package service

import (
	"context"
	"errors"
	"log"

	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidReport отчет без id или пользователя
var ErrInvalidReport = errors.New("Invalid report data.")

// ReportRepository хранилище отчетов (blob или postgres)
type ReportRepository interface {
	List(ctx context.Context) ([]model.TrainingReport, error)
	Get(ctx context.Context, id string) (model.TrainingReport, bool, error)
	Add(ctx context.Context, report model.TrainingReport) (bool, error)
	Clear(ctx context.Context) error
}

// ReportService принимает и выдает отчеты о прохождении обучения
type ReportService struct {
	repo     ReportRepository
	validate *validator.Validate
}

// NewReportService создает новый экземпляр ReportService
func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo, validate: validator.New()}
}

// List возвращает все отчеты в порядке поступления
func (s *ReportService) List(ctx context.Context) ([]model.TrainingReport, error) {
	return s.repo.List(ctx)
}

// Get возвращает отчет по id
func (s *ReportService) Get(ctx context.Context, id string) (model.TrainingReport, bool, error) {
	return s.repo.Get(ctx, id)
}

// Submit сохраняет отчет. Повторная отправка того же id не создает дубликат.
func (s *ReportService) Submit(ctx context.Context, report model.TrainingReport) error {
	if err := s.validate.Struct(report); err != nil {
		return ErrInvalidReport
	}
	if report.User.Username == "" {
		return ErrInvalidReport
	}
	added, err := s.repo.Add(ctx, report)
	if err != nil {
		return err
	}
	if added {
		log.Printf("New report received for user: %s", report.User.Username)
	} else {
		log.Printf("Duplicate report %s ignored", report.ID)
	}
	return nil
}

// Clear удаляет все отчеты
func (s *ReportService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	log.Println("All reports have been cleared.")
	return nil
}

// Stats возвращает сводку по отчетам
func (s *ReportService) Stats(ctx context.Context) (dashboard.Stats, error) {
	reports, err := s.repo.List(ctx)
	if err != nil {
		return dashboard.Stats{}, err
	}
	return dashboard.ComputeStats(reports), nil
}
