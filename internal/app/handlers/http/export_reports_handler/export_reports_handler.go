package export_reports_handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/catalog"
	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
	"github.com/IT-Nick/compliance-bot/internal/infra/export"
	httpError "github.com/IT-Nick/compliance-bot/pkg/http"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportReportsHandler выгружает отчеты в CSV или XLSX
type ExportReportsHandler struct {
	reportService *reportsService.ReportService
	catalog       *catalog.Catalog
	now           func() time.Time
}

// NewExportReportsHandler создает новый экземпляр обработчика
func NewExportReportsHandler(reportService *reportsService.ReportService, catalog *catalog.Catalog) *ExportReportsHandler {
	return &ExportReportsHandler{
		reportService: reportService,
		catalog:       catalog,
		now:           time.Now,
	}
}

// ServeHTTP метод для обработки запроса. Параметр format=csv|xlsx, по умолчанию csv.
func (h *ExportReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.List(r.Context())
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get reports: %v", err))
		return
	}
	reports = dashboard.SortNewestFirst(reports)

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		data, err = export.ReportsCSV(reports)
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case "xlsx":
		data, err = export.ReportsXLSX(reports, h.catalog.Quizzes())
		contentType, ext = xlsxContentType, "xlsx"
	default:
		httpError.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Unsupported export format %q", format))
		return
	}
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to export reports: %v", err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ReportsFilename(h.now(), ext)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
