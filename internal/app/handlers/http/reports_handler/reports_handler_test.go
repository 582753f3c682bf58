package reports_handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/reports/repository"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
)

func newMux() *http.ServeMux {
	s := reportsService.NewReportService(repository.NewReportRepository(database.NewMemoryStore()))
	mx := http.NewServeMux()
	mx.Handle("GET /reports", NewListReportsHandler(s))
	mx.Handle("POST /reports", NewSubmitReportHandler(s))
	mx.Handle("DELETE /reports", NewClearReportsHandler(s))
	return mx
}

func do(t *testing.T, mx http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mx.ServeHTTP(rec, httptest.NewRequest(method, "/reports", strings.NewReader(body)))
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	return body.Message
}

// TestReportsLifecycle проверяет отправку, дубликат, список и очистку.
func TestReportsLifecycle(t *testing.T) {
	mx := newMux()

	rec := do(t, mx, http.MethodGet, "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("пустой список: %d %s", rec.Code, rec.Body.String())
	}

	report := `{"id":"demo-1","user":{"fullName":"Demo User","username":"demo"},"quizProgress":{},"overallResult":true,"submissionDate":"2024-05-01T10:00:00Z"}`
	for i := 0; i < 2; i++ {
		rec = do(t, mx, http.MethodPost, report)
		if rec.Code != http.StatusCreated {
			t.Fatalf("ожидался статус 201, получено %d", rec.Code)
		}
		if msg := message(t, rec); msg != "Report submitted successfully." {
			t.Errorf("неверное сообщение: %q", msg)
		}
	}

	rec = do(t, mx, http.MethodGet, "")
	var reports []model.TrainingReport
	if err := json.NewDecoder(rec.Body).Decode(&reports); err != nil {
		t.Fatalf("не удалось разобрать список: %v", err)
	}
	if len(reports) != 1 || reports[0].User.Username != "demo" {
		t.Errorf("ожидался один отчет, получено %+v", reports)
	}

	rec = do(t, mx, http.MethodDelete, "")
	if rec.Code != http.StatusOK || message(t, rec) != "All reports cleared successfully." {
		t.Errorf("очистка: статус %d", rec.Code)
	}
}

// TestSubmitReport_Invalid проверяет ответ 400 на отчет без id или пользователя.
func TestSubmitReport_Invalid(t *testing.T) {
	mx := newMux()
	for _, body := range []string{``, `{}`, `{"id":"x"}`, `{"user":{"username":"demo"}}`} {
		rec := do(t, mx, http.MethodPost, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: ожидался статус 400, получено %d", body, rec.Code)
			continue
		}
		if msg := message(t, rec); msg != "Invalid report data." {
			t.Errorf("%q: неверное сообщение %q", body, msg)
		}
	}
}
