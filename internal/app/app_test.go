package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/catalog"
	reportsRepo "github.com/IT-Nick/compliance-bot/internal/domain/reports/repository"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
	savedProgressRepo "github.com/IT-Nick/compliance-bot/internal/domain/savedprogress/repository"
	progressService "github.com/IT-Nick/compliance-bot/internal/domain/savedprogress/service"
	"github.com/IT-Nick/compliance-bot/internal/infra/config"
)

func newTestApp() *App {
	store := database.NewMemoryStore()
	cfg := &config.Config{}
	cfg.Server.CORSOrigin = "*"

	app := &App{config: cfg, store: store}
	app.reportService = reportsService.NewReportService(reportsRepo.NewReportRepository(store))
	app.progressService = progressService.NewProgressService(savedProgressRepo.NewProgressRepository(store))
	app.catalog = catalog.New(catalog.Default())
	return app
}

// TestRoutes проверяет маршруты REST API с префиксом /api и без него.
func TestRoutes(t *testing.T) {
	h := newTestApp().routes()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"submit report", http.MethodPost, "/api/reports", `{"id":"bob-1","user":{"fullName":"Bob","username":"bob"},"overallResult":true}`, http.StatusCreated},
		{"invalid report", http.MethodPost, "/reports", `{"id":"x"}`, http.StatusBadRequest},
		{"list reports", http.MethodGet, "/reports", "", http.StatusOK},
		{"stats", http.MethodGet, "/api/reports/stats", "", http.StatusOK},
		{"detail", http.MethodGet, "/reports/bob-1", "", http.StatusOK},
		{"missing detail", http.MethodGet, "/reports/nobody", "", http.StatusNotFound},
		{"missing progress", http.MethodGet, "/api/progress/bob", "", http.StatusNotFound},
		{"save progress", http.MethodPost, "/api/progress/bob", `{}`, http.StatusOK},
		{"get progress", http.MethodGet, "/progress/bob", "", http.StatusOK},
		{"delete progress", http.MethodDelete, "/progress/bob", "", http.StatusOK},
		{"clear reports", http.MethodDelete, "/api/reports", "", http.StatusOK},
		{"preflight", http.MethodOptions, "/api/reports", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("%s %s: ожидался статус %d, получен %d (%s)", tt.method, tt.path, tt.want, rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("нет заголовка CORS, получено %q", got)
			}
		})
	}
}
