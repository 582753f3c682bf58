package submission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/progress"
)

// ErrSubmissionFailed отчет не принят сервером, можно повторить отправку
var ErrSubmissionFailed = errors.New("There was an error submitting your report. Please check your internet connection and try again.")

// ReportSubmitter удаленное хранилище отчетов
type ReportSubmitter interface {
	SubmitReport(ctx context.Context, report model.TrainingReport) error
}

// ProgressClearer очищает удаленный прогресс пользователя
type ProgressClearer interface {
	Delete(username string) string
}

// AccountExpirer переводит учетную запись в expired
type AccountExpirer interface {
	Expire(username string) error
}

// Pipeline собирает отчет, отправляет его и выполняет побочные эффекты только после успеха
type Pipeline struct {
	reports  ReportSubmitter
	progress ProgressClearer
	accounts AccountExpirer
	now      func() time.Time
}

// NewPipeline создает конвейер отправки отчета
func NewPipeline(reports ReportSubmitter, progress ProgressClearer, accounts AccountExpirer) *Pipeline {
	return &Pipeline{reports: reports, progress: progress, accounts: accounts, now: time.Now}
}

// Build собирает отчет. Id - логин и время в миллисекундах.
func (p *Pipeline) Build(user model.ReportUser, m model.ProgressMap, quizzes []model.Quiz) model.TrainingReport {
	now := p.now()
	return model.TrainingReport{
		ID:             fmt.Sprintf("%s-%d", user.Username, now.UnixMilli()),
		User:           &user,
		QuizProgress:   m.Clone(),
		OverallResult:  progress.OverallResult(m, quizzes),
		SubmissionDate: now.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// Submit отправляет отчет. При ошибке возвращает ErrSubmissionFailed и ничего не меняет.
func (p *Pipeline) Submit(ctx context.Context, user model.ReportUser, m model.ProgressMap, quizzes []model.Quiz) (model.TrainingReport, error) {
	report := p.Build(user, m, quizzes)

	if err := p.reports.SubmitReport(ctx, report); err != nil {
		log.Printf("failed to submit report %s: %v", report.ID, err)
		return model.TrainingReport{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	p.progress.Delete(user.Username)
	if err := p.accounts.Expire(user.Username); err != nil {
		// отчет уже принят, повторная отправка создала бы дубликат
		log.Printf("report %s accepted but failed to expire user %s: %v", report.ID, user.Username, err)
	}
	return report, nil
}
