package reports_dashboard_handler

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/infra/export"
	"github.com/IT-Nick/compliance-bot/report"
	"gopkg.in/telebot.v4"
)

// ReportSource хранилище отчетов на сервере
type ReportSource interface {
	ListReports(ctx context.Context) ([]model.TrainingReport, error)
	ClearReports(ctx context.Context) error
}

// QuizSource каталог квизов
type QuizSource interface {
	Quizzes() []model.Quiz
}

// ReportsDashboardHandler команды панели отчетов
type ReportsDashboardHandler struct {
	reports   ReportSource
	quizzes   QuizSource
	publicURL string
	timeout   time.Duration
	now       func() time.Time
}

// NewReportsDashboardHandler возвращает структуру обработчика
func NewReportsDashboardHandler(reports ReportSource, quizzes QuizSource, publicURL string, timeout time.Duration) *ReportsDashboardHandler {
	return &ReportsDashboardHandler{
		reports:   reports,
		quizzes:   quizzes,
		publicURL: publicURL,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Reports /reports [all|passed|failed] [search]
func (h *ReportsDashboardHandler) Reports(c telebot.Context) error {
	reports, err := h.fetch()
	if err != nil {
		return c.Send("Could not connect to the live server to fetch reports. Please check your internet connection and try again.")
	}
	filter, term := ParseQuery(c.Args())
	return screens.SendLong(c, FormatDashboard(reports, filter, term))
}

// Report /report <id>: детализация и PDF
func (h *ReportsDashboardHandler) Report(c telebot.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /report <id>")
	}
	reports, err := h.fetch()
	if err != nil {
		return c.Send("Could not connect to the live server to fetch reports. Please check your internet connection and try again.")
	}
	r, ok := dashboard.Find(reports, args[0])
	if !ok {
		return c.Send("Report not found.")
	}

	quizzes := h.quizzes.Quizzes()
	if err := screens.SendLong(c, dashboard.ShareText(r, quizzes)); err != nil {
		return err
	}
	data, err := report.GeneratePDF(r, quizzes, report.Options{VerifyURL: report.CertificateURL(h.publicURL, r.ID)})
	if err != nil {
		log.Printf("failed to generate pdf for %s: %v", r.ID, err)
		return c.Send("Failed to generate PDF.")
	}
	return c.Send(&telebot.Document{
		File:     telebot.FromReader(bytes.NewReader(data)),
		FileName: report.Filename(r),
	})
}

// ExportCSV /export_csv
func (h *ReportsDashboardHandler) ExportCSV(c telebot.Context) error {
	return h.export(c, "csv", func(reports []model.TrainingReport) ([]byte, error) {
		return export.ReportsCSV(reports)
	})
}

// ExportXLSX /export_xlsx
func (h *ReportsDashboardHandler) ExportXLSX(c telebot.Context) error {
	return h.export(c, "xlsx", func(reports []model.TrainingReport) ([]byte, error) {
		return export.ReportsXLSX(reports, h.quizzes.Quizzes())
	})
}

// Clear /clear_reports confirm
func (h *ReportsDashboardHandler) Clear(c telebot.Context) error {
	if args := c.Args(); len(args) != 1 || args[0] != "confirm" {
		return c.Send("Are you sure you want to clear all submitted reports? This action cannot be undone.\nSend /clear_reports confirm to proceed.")
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.reports.ClearReports(ctx); err != nil {
		log.Printf("Failed to clear reports from server: %v", err)
		return c.Send("Could not clear reports from the server. Please check the server status.")
	}
	return c.Send("All reports cleared successfully.")
}

func (h *ReportsDashboardHandler) export(c telebot.Context, ext string, encode func([]model.TrainingReport) ([]byte, error)) error {
	reports, err := h.fetch()
	if err != nil {
		return c.Send("Could not connect to the live server to fetch reports. Please check your internet connection and try again.")
	}
	filter, term := ParseQuery(c.Args())
	reports = dashboard.Query(reports, filter, term)
	if len(reports) == 0 {
		return c.Send("There are no reports to export in the current view.")
	}
	data, err := encode(reports)
	if err != nil {
		log.Printf("failed to export reports: %v", err)
		return c.Send("Failed to export reports.")
	}
	return c.Send(&telebot.Document{
		File:     telebot.FromReader(bytes.NewReader(data)),
		FileName: export.ReportsFilename(h.now(), ext),
	})
}

func (h *ReportsDashboardHandler) fetch() ([]model.TrainingReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	reports, err := h.reports.ListReports(ctx)
	if err != nil {
		log.Printf("Failed to fetch reports from server: %v", err)
		return nil, err
	}
	return reports, nil
}

// ParseQuery разбирает аргументы: первый может быть фильтром, остальное - поиск
func ParseQuery(args []string) (dashboard.Filter, string) {
	if len(args) == 0 {
		return dashboard.FilterAll, ""
	}
	if filter, ok := dashboard.ParseFilter(args[0]); ok {
		return filter, strings.Join(args[1:], " ")
	}
	return dashboard.FilterAll, strings.Join(args, " ")
}

// FormatDashboard сводка и список отчетов. Сводка считается по всем отчетам.
func FormatDashboard(reports []model.TrainingReport, filter dashboard.Filter, term string) string {
	stats := dashboard.ComputeStats(reports)
	var b strings.Builder
	b.WriteString("Reports Dashboard\n\n")
	fmt.Fprintf(&b, "Total Submissions: %d\nPassed: %d\nFailed: %d\nPass Rate: %d%%\n\n", stats.Total, stats.Passed, stats.Failed, stats.PassRate)

	if stats.Total == 0 {
		b.WriteString("No reports submitted. As users complete their training, reports will appear here.")
		return b.String()
	}

	found := dashboard.Query(reports, filter, term)
	fmt.Fprintf(&b, "Filter by: %s", filter)
	if term != "" {
		fmt.Fprintf(&b, ", search: %q", term)
	}
	b.WriteString("\n\n")
	if len(found) == 0 {
		b.WriteString("No Reports Found. Your search did not match any reports. Try different keywords.")
		return b.String()
	}
	for _, r := range found {
		name, username := "", ""
		if r.User != nil {
			name, username = r.User.FullName, r.User.Username
		}
		fmt.Fprintf(&b, "%s (%s) - %s - %s\n/report %s\n", name, username, dashboard.ResultLabel(r.OverallResult), dashboard.CompletionDate(r), r.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}
