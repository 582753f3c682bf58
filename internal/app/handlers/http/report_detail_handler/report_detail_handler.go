package report_detail_handler

import (
	"fmt"
	"net/http"

	"github.com/IT-Nick/compliance-bot/internal/domain/catalog"
	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/dto"
	"github.com/IT-Nick/compliance-bot/internal/domain/progress"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
	httpError "github.com/IT-Nick/compliance-bot/pkg/http"
	"github.com/IT-Nick/compliance-bot/report"
)

// ReportDetailHandler возвращает детализацию отчета по квизам
type ReportDetailHandler struct {
	reportService *reportsService.ReportService
	catalog       *catalog.Catalog
	publicURL     string
}

// NewReportDetailHandler создает новый экземпляр обработчика
func NewReportDetailHandler(reportService *reportsService.ReportService, catalog *catalog.Catalog, publicURL string) *ReportDetailHandler {
	return &ReportDetailHandler{
		reportService: reportService,
		catalog:       catalog,
		publicURL:     publicURL,
	}
}

// ServeHTTP метод для обработки запроса
func (h *ReportDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tr, ok, err := h.reportService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get report: %v", err))
		return
	}
	if !ok {
		httpError.ErrorResponse(w, http.StatusNotFound, "Report not found.")
		return
	}

	response := dto.ReportDetailResponse{
		ID:             tr.ID,
		Status:         dashboard.ResultLabel(tr.OverallResult),
		SubmissionDate: tr.SubmissionDate,
		CompletionDate: dashboard.CompletionDate(tr),
		Quizzes:        progress.Breakdown(tr.QuizProgress, h.catalog.Quizzes()),
		CertificateURL: report.CertificateURL(h.publicURL, tr.ID),
	}
	if tr.User != nil {
		response.FullName = tr.User.FullName
		response.Username = tr.User.Username
	}

	httpError.JSONResponse(w, http.StatusOK, response)
}
