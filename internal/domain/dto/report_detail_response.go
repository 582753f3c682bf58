package dto

import "github.com/IT-Nick/compliance-bot/internal/domain/progress"

// ReportDetailResponse структура для детального отчета пользователя
type ReportDetailResponse struct {
	ID             string                `json:"id"`
	FullName       string                `json:"full_name"`
	Username       string                `json:"username"`
	Status         string                `json:"status"`
	SubmissionDate string                `json:"submission_date"`
	CompletionDate string                `json:"completion_date"`
	Quizzes        []progress.QuizResult `json:"quizzes"`
	CertificateURL string                `json:"certificate_url,omitempty"`
}
