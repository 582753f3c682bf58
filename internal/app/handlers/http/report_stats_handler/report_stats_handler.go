package report_stats_handler

import (
	"fmt"
	"net/http"

	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/dto"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
	httpError "github.com/IT-Nick/compliance-bot/pkg/http"
)

// ReportStatsHandler возвращает сводку и отфильтрованный список отчетов
type ReportStatsHandler struct {
	reportService *reportsService.ReportService
}

// NewReportStatsHandler создает новый экземпляр обработчика
func NewReportStatsHandler(reportService *reportsService.ReportService) *ReportStatsHandler {
	return &ReportStatsHandler{reportService: reportService}
}

// ServeHTTP метод для обработки запроса. Параметры: filter=all|passed|failed, search.
func (h *ReportStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter, ok := dashboard.ParseFilter(r.URL.Query().Get("filter"))
	if !ok && r.URL.Query().Get("filter") != "" {
		httpError.ErrorResponse(w, http.StatusBadRequest, "Unknown filter, expected all, passed or failed")
		return
	}
	search := r.URL.Query().Get("search")

	reports, err := h.reportService.List(r.Context())
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get reports: %v", err))
		return
	}

	// сводка считается по всем отчетам, фильтр влияет только на список
	response := dto.ReportStatsResponse{
		Stats:   dashboard.ComputeStats(reports),
		Filter:  string(filter),
		Search:  search,
		Reports: []dto.ReportListItem{},
	}
	for _, rep := range dashboard.Query(reports, filter, search) {
		item := dto.ReportListItem{
			ID:             rep.ID,
			Status:         dashboard.ResultLabel(rep.OverallResult),
			SubmissionDate: rep.SubmissionDate,
		}
		if rep.User != nil {
			item.FullName = rep.User.FullName
			item.Username = rep.User.Username
		}
		response.Reports = append(response.Reports, item)
	}

	httpError.JSONResponse(w, http.StatusOK, response)
}
