package certificate_handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/IT-Nick/compliance-bot/internal/domain/catalog"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
	httpError "github.com/IT-Nick/compliance-bot/pkg/http"
	"github.com/IT-Nick/compliance-bot/report"
)

// CertificateHandler отдает PDF сертификата (или отчета при неудачном итоге)
type CertificateHandler struct {
	reportService *reportsService.ReportService
	catalog       *catalog.Catalog
	publicURL     string
}

// NewCertificateHandler создает новый экземпляр обработчика
func NewCertificateHandler(reportService *reportsService.ReportService, catalog *catalog.Catalog, publicURL string) *CertificateHandler {
	return &CertificateHandler{
		reportService: reportService,
		catalog:       catalog,
		publicURL:     publicURL,
	}
}

// ServeHTTP метод для обработки запроса
func (h *CertificateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tr, ok, err := h.reportService.Get(r.Context(), id)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get report: %v", err))
		return
	}
	if !ok {
		httpError.ErrorResponse(w, http.StatusNotFound, "Report not found.")
		return
	}

	data, err := report.GeneratePDF(tr, h.catalog.Quizzes(), report.Options{
		VerifyURL: report.CertificateURL(h.publicURL, tr.ID),
	})
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate certificate: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(tr)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
