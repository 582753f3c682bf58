package report_stats_handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/dto"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/reports/repository"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
)

// TestReportStatsHandler проверяет сводку, сортировку и фильтр.
func TestReportStatsHandler(t *testing.T) {
	ctx := context.Background()
	s := reportsService.NewReportService(repository.NewReportRepository(database.NewMemoryStore()))
	seed := []model.TrainingReport{
		{ID: "a-1", User: &model.ReportUser{FullName: "Alice", Username: "alice"}, OverallResult: true, SubmissionDate: "2024-05-01T10:00:00Z"},
		{ID: "b-1", User: &model.ReportUser{FullName: "Bob", Username: "bob"}, OverallResult: false, SubmissionDate: "2024-05-02T10:00:00Z"},
		{ID: "c-1", User: &model.ReportUser{FullName: "Carol", Username: "carol"}, OverallResult: true, SubmissionDate: "2024-05-03T10:00:00Z"},
	}
	for _, r := range seed {
		if err := s.Submit(ctx, r); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	h := NewReportStatsHandler(s)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/stats?filter=passed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получено %d", rec.Code)
	}
	var resp dto.ReportStatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if resp.Total != 3 || resp.Passed != 2 || resp.Failed != 1 || resp.PassRate != 67 {
		t.Errorf("неверная сводка: %+v", resp.Stats)
	}
	if len(resp.Reports) != 2 || resp.Reports[0].ID != "c-1" || resp.Reports[1].ID != "a-1" {
		t.Errorf("ожидались c-1, a-1, получено %+v", resp.Reports)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/stats?filter=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("неизвестный фильтр: ожидался статус 400, получено %d", rec.Code)
	}
}
