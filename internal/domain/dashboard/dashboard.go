package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/progress"
)

// Filter фильтр отчетов по итогу
type Filter string

const (
	FilterAll    Filter = "all"
	FilterPassed Filter = "passed"
	FilterFailed Filter = "failed"
)

// ParseFilter разбирает фильтр, неизвестное значение - all
func ParseFilter(s string) (Filter, bool) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll:
		return FilterAll, true
	case FilterPassed:
		return FilterPassed, true
	case FilterFailed:
		return FilterFailed, true
	}
	return FilterAll, false
}

// Stats сводка по всем отчетам
type Stats struct {
	Total    int `json:"total_submissions"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	PassRate int `json:"pass_rate"`
}

// ComputeStats считает сводку. При отсутствии отчетов все нули.
func ComputeStats(reports []model.TrainingReport) Stats {
	s := Stats{Total: len(reports)}
	if s.Total == 0 {
		return s
	}
	for _, r := range reports {
		if r.OverallResult {
			s.Passed++
		}
	}
	s.Failed = s.Total - s.Passed
	s.PassRate = int(math.Round(float64(s.Passed) / float64(s.Total) * 100))
	return s
}

// SortNewestFirst сортирует отчеты по дате отправки, новые первыми
func SortNewestFirst(reports []model.TrainingReport) []model.TrainingReport {
	out := append([]model.TrainingReport(nil), reports...)
	sort.SliceStable(out, func(i, j int) bool {
		return submittedAt(out[i]).After(submittedAt(out[j]))
	})
	return out
}

// Query сортирует отчеты и применяет поиск по имени или логину и фильтр по итогу
func Query(reports []model.TrainingReport, filter Filter, term string) []model.TrainingReport {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]model.TrainingReport, 0, len(reports))
	for _, r := range SortNewestFirst(reports) {
		if term != "" && !matches(r, term) {
			continue
		}
		switch filter {
		case FilterPassed:
			if !r.OverallResult {
				continue
			}
		case FilterFailed:
			if r.OverallResult {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Find ищет отчет по id
func Find(reports []model.TrainingReport, id string) (model.TrainingReport, bool) {
	for _, r := range reports {
		if r.ID == id {
			return r, true
		}
	}
	return model.TrainingReport{}, false
}

// ResultLabel Pass или Fail
func ResultLabel(passed bool) string {
	if passed {
		return "Pass"
	}
	return "Fail"
}

// ShareText формирует текст отчета для пересылки администратору
func ShareText(r model.TrainingReport, quizzes []model.Quiz) string {
	user := reportUser(r)
	date := CompletionDate(r)

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: Training Report - %s - %s\n\n", user.FullName, date)
	b.WriteString("Administrator,\n\n")
	fmt.Fprintf(&b, "Please find the training results for %s (Username: %s) on %s:\n\n", user.FullName, user.Username, date)
	fmt.Fprintf(&b, "Overall result: %s\n\n", ResultLabel(r.OverallResult))
	b.WriteString("--- DETAILED BREAKDOWN ---\n\n")

	for _, q := range quizzes {
		entry, ok := r.QuizProgress[q.ID]
		if !ok {
			continue
		}
		passed := progress.QuizPassed(entry)
		fmt.Fprintf(&b, "Quiz: %s\n", q.Name)
		fmt.Fprintf(&b, "Result: %s (%d/%d - %d%%)\n", ResultLabel(passed), entry.Score, entry.Total, progress.QuizPercentage(entry))
		if !passed {
			if weaknesses := progress.Weaknesses(entry); len(weaknesses) > 0 {
				b.WriteString("Areas of Weakness:\n")
				for _, w := range weaknesses {
					fmt.Fprintf(&b, "- %s\n", w)
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CompletionDate дата отправки отчета в формате 2006-01-02
func CompletionDate(r model.TrainingReport) string {
	t := submittedAt(r)
	if t.IsZero() {
		return r.SubmissionDate
	}
	return t.Format("2006-01-02")
}

func submittedAt(r model.TrainingReport) time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.SubmissionDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

func matches(r model.TrainingReport, term string) bool {
	user := reportUser(r)
	return strings.Contains(strings.ToLower(user.FullName), term) ||
		strings.Contains(strings.ToLower(user.Username), term)
}

func reportUser(r model.TrainingReport) model.ReportUser {
	if r.User == nil {
		return model.ReportUser{}
	}
	return *r.User
}
