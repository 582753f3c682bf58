package dashboard

import (
	"strings"
	"testing"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

func report(id, fullName, username, date string, passed bool) model.TrainingReport {
	return model.TrainingReport{
		ID:             id,
		User:           &model.ReportUser{FullName: fullName, Username: username},
		OverallResult:  passed,
		SubmissionDate: date,
	}
}

func sampleReports() []model.TrainingReport {
	return []model.TrainingReport{
		report("alice-1", "Alice Smith", "alice", "2024-05-01T10:00:00.000Z", true),
		report("bob-2", "Bob Jones", "bob", "2024-05-03T10:00:00.000Z", false),
		report("carol-3", "Carol White", "carol", "2024-05-02T10:00:00.000Z", true),
	}
}

// TestComputeStats проверяет сводку и округление процента.
func TestComputeStats(t *testing.T) {
	got := ComputeStats(sampleReports())
	want := Stats{Total: 3, Passed: 2, Failed: 1, PassRate: 67}
	if got != want {
		t.Errorf("ожидалось %+v, получено %+v", want, got)
	}
	if empty := ComputeStats(nil); empty != (Stats{}) {
		t.Errorf("для пустого списка ожидались нули, получено %+v", empty)
	}
}

// TestQuery проверяет сортировку, поиск и фильтр.
func TestQuery(t *testing.T) {
	all := Query(sampleReports(), FilterAll, "")
	if len(all) != 3 || all[0].ID != "bob-2" || all[2].ID != "alice-1" {
		t.Errorf("неверный порядок: %v %v %v", all[0].ID, all[1].ID, all[2].ID)
	}

	passed := Query(sampleReports(), FilterPassed, "")
	if len(passed) != 2 || passed[0].ID != "carol-3" {
		t.Errorf("фильтр passed: %+v", passed)
	}

	found := Query(sampleReports(), FilterFailed, "  JONES ")
	if len(found) != 1 || found[0].ID != "bob-2" {
		t.Errorf("поиск: %+v", found)
	}
	if none := Query(sampleReports(), FilterPassed, "bob"); len(none) != 0 {
		t.Errorf("поиск и фильтр должны применяться вместе: %+v", none)
	}
}

// TestParseFilter проверяет разбор фильтра.
func TestParseFilter(t *testing.T) {
	if f, ok := ParseFilter(" Passed "); !ok || f != FilterPassed {
		t.Errorf("ожидался passed, получено %s", f)
	}
	if f, ok := ParseFilter("unknown"); ok || f != FilterAll {
		t.Errorf("неизвестный фильтр должен давать all")
	}
}

// TestShareText проверяет текст отчета и слабые места непройденного квиза.
func TestShareText(t *testing.T) {
	quizzes := []model.Quiz{
		{ID: "a", Name: "Passwords"},
		{ID: "b", Name: "Phishing"},
		{ID: "c", Name: "Skipped"},
	}
	r := report("bob-2", "Bob Jones", "bob", "2024-05-03T10:00:00.000Z", false)
	r.QuizProgress = model.ProgressMap{
		"a": {Status: model.StatusCompleted, Score: 2, Total: 2},
		"b": {Status: model.StatusCompleted, Score: 1, Total: 3, UserAnswers: []model.UserAnswer{
			{QuestionID: 1, IsCorrect: false, QuestionText: "Spot the link"},
			{QuestionID: 2, IsCorrect: true, QuestionText: "Report it"},
			{QuestionID: 3, IsCorrect: false, QuestionText: "Spot the link"},
		}},
	}

	text := ShareText(r, quizzes)
	for _, want := range []string{
		"Subject: Training Report - Bob Jones - 2024-05-03",
		"(Username: bob)",
		"Overall result: Fail",
		"Quiz: Passwords\nResult: Pass (2/2 - 100%)\n\n",
		"Quiz: Phishing\nResult: Fail (1/3 - 33%)\nAreas of Weakness:\n- Spot the link\n\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("в тексте нет %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Skipped") {
		t.Errorf("квиз без записи не должен выводиться")
	}
	if strings.Count(text, "Spot the link") != 1 {
		t.Errorf("слабые места должны быть без повторов")
	}
}
