package dto

import "github.com/IT-Nick/compliance-bot/internal/domain/dashboard"

// ReportStatsResponse структура для сводки по отчетам
type ReportStatsResponse struct {
	dashboard.Stats
	Filter  string           `json:"filter"`
	Search  string           `json:"search,omitempty"`
	Reports []ReportListItem `json:"reports"`
}

// ReportListItem строка списка отчетов
type ReportListItem struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Username       string `json:"username"`
	Status         string `json:"status"`
	SubmissionDate string `json:"submission_date"`
}
