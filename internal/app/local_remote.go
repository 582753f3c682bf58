package app

import (
	"context"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
	progressService "github.com/IT-Nick/compliance-bot/internal/domain/savedprogress/service"
	"github.com/IT-Nick/compliance-bot/internal/infra/remote"
)

// Remote сервер отчетов и прогресса, с которым работает бот
type Remote interface {
	ListReports(ctx context.Context) ([]model.TrainingReport, error)
	SubmitReport(ctx context.Context, report model.TrainingReport) error
	ClearReports(ctx context.Context) error
	GetProgress(ctx context.Context, username string) (model.ProgressMap, error)
	SaveProgress(ctx context.Context, username string, m model.ProgressMap) error
	DeleteProgress(ctx context.Context, username string) error
}

// localRemote обращается к сервисам в том же процессе, когда внешний сервер не задан.
// Ошибки совпадают с ошибками remote.Client.
type localRemote struct {
	reports  *reportsService.ReportService
	progress *progressService.ProgressService
}

func newLocalRemote(reports *reportsService.ReportService, progress *progressService.ProgressService) *localRemote {
	return &localRemote{reports: reports, progress: progress}
}

func (l *localRemote) ListReports(ctx context.Context) ([]model.TrainingReport, error) {
	return l.reports.List(ctx)
}

func (l *localRemote) SubmitReport(ctx context.Context, report model.TrainingReport) error {
	return l.reports.Submit(ctx, report)
}

func (l *localRemote) ClearReports(ctx context.Context) error {
	return l.reports.Clear(ctx)
}

func (l *localRemote) GetProgress(ctx context.Context, username string) (model.ProgressMap, error) {
	m, ok, err := l.progress.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, remote.ErrNotFound
	}
	return m, nil
}

func (l *localRemote) SaveProgress(ctx context.Context, username string, m model.ProgressMap) error {
	return l.progress.Save(ctx, username, m)
}

func (l *localRemote) DeleteProgress(ctx context.Context, username string) error {
	ok, err := l.progress.Delete(ctx, username)
	if err != nil {
		return err
	}
	if !ok {
		return remote.ErrNotFound
	}
	return nil
}
