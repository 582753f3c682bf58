package reports_dashboard_handler

import (
	"strings"
	"testing"

	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// TestParseQuery проверяет разбор фильтра и строки поиска.
func TestParseQuery(t *testing.T) {
	cases := []struct {
		args   []string
		filter dashboard.Filter
		term   string
	}{
		{nil, dashboard.FilterAll, ""},
		{[]string{"passed"}, dashboard.FilterPassed, ""},
		{[]string{"Failed", "alice", "smith"}, dashboard.FilterFailed, "alice smith"},
		{[]string{"alice"}, dashboard.FilterAll, "alice"},
	}
	for _, c := range cases {
		filter, term := ParseQuery(c.args)
		if filter != c.filter || term != c.term {
			t.Errorf("%v: ожидалось %s/%q, получено %s/%q", c.args, c.filter, c.term, filter, term)
		}
	}
}

// TestFormatDashboard проверяет сводку, порядок и пустые состояния.
func TestFormatDashboard(t *testing.T) {
	if text := FormatDashboard(nil, dashboard.FilterAll, ""); !strings.Contains(text, "No reports submitted") {
		t.Errorf("пустой список: %s", text)
	}

	reports := []model.TrainingReport{
		{ID: "a-1", User: &model.ReportUser{FullName: "Alice", Username: "alice"}, OverallResult: true, SubmissionDate: "2024-05-01T10:00:00Z"},
		{ID: "b-1", User: &model.ReportUser{FullName: "Bob", Username: "bob"}, OverallResult: false, SubmissionDate: "2024-05-02T10:00:00Z"},
	}
	text := FormatDashboard(reports, dashboard.FilterAll, "")
	if !strings.Contains(text, "Total Submissions: 2") || !strings.Contains(text, "Pass Rate: 50%") {
		t.Errorf("неверная сводка: %s", text)
	}
	if strings.Index(text, "Bob") > strings.Index(text, "Alice") {
		t.Errorf("новые отчеты должны идти первыми: %s", text)
	}

	if text := FormatDashboard(reports, dashboard.FilterPassed, "bob"); !strings.Contains(text, "No Reports Found") {
		t.Errorf("ожидался пустой результат поиска: %s", text)
	}
}
