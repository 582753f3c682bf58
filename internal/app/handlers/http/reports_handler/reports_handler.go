package reports_handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
	httpError "github.com/IT-Nick/compliance-bot/pkg/http"
)

// ListReportsHandler возвращает все отчеты
type ListReportsHandler struct {
	reportService *reportsService.ReportService
}

// NewListReportsHandler создает новый экземпляр обработчика
func NewListReportsHandler(reportService *reportsService.ReportService) *ListReportsHandler {
	return &ListReportsHandler{reportService: reportService}
}

// ServeHTTP метод для обработки запроса
func (h *ListReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.List(r.Context())
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get reports: %v", err))
		return
	}
	if reports == nil {
		reports = []model.TrainingReport{}
	}
	httpError.JSONResponse(w, http.StatusOK, reports)
}

// SubmitReportHandler принимает отчет о прохождении обучения
type SubmitReportHandler struct {
	reportService *reportsService.ReportService
}

// NewSubmitReportHandler создает новый экземпляр обработчика
func NewSubmitReportHandler(reportService *reportsService.ReportService) *SubmitReportHandler {
	return &SubmitReportHandler{reportService: reportService}
}

// ServeHTTP метод для обработки запроса
func (h *SubmitReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var report model.TrainingReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		httpError.ErrorResponse(w, http.StatusBadRequest, reportsService.ErrInvalidReport.Error())
		return
	}

	if err := h.reportService.Submit(r.Context(), report); err != nil {
		if errors.Is(err, reportsService.ErrInvalidReport) {
			httpError.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save report: %v", err))
		return
	}

	httpError.MessageResponse(w, http.StatusCreated, "Report submitted successfully.")
}

// ClearReportsHandler удаляет все отчеты
type ClearReportsHandler struct {
	reportService *reportsService.ReportService
}

// NewClearReportsHandler создает новый экземпляр обработчика
func NewClearReportsHandler(reportService *reportsService.ReportService) *ClearReportsHandler {
	return &ClearReportsHandler{reportService: reportService}
}

// ServeHTTP метод для обработки запроса
func (h *ClearReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.reportService.Clear(r.Context()); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to clear reports: %v", err))
		return
	}
	httpError.MessageResponse(w, http.StatusOK, "All reports cleared successfully.")
}
