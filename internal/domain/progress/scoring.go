package progress

import (
	"math"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// PassingPercentage проходной порог в процентах
const PassingPercentage = 70

// QuizNotTaken отметка для квиза без записи в отчете
const QuizNotTaken = "Quiz not taken"

// QuizPercentage процент верных ответов по квизу, 0 для пустого квиза
func QuizPercentage(entry model.ProgressEntry) int {
	if entry.Total <= 0 {
		return 0
	}
	return percent(entry.Score, entry.Total)
}

// QuizPassed проверяет, что квиз пройден
func QuizPassed(entry model.ProgressEntry) bool {
	return QuizPercentage(entry) >= PassingPercentage
}

// OverallResult итоговый результат обучения.
// Считается по суммарному проценту всех вопросов, а не как "все квизы пройдены".
// Пока хотя бы один квиз не завершен, результат false.
func OverallResult(m model.ProgressMap, quizzes []model.Quiz) bool {
	if !AllCompleted(m, quizzes) {
		return false
	}
	score, total := 0, 0
	for _, q := range quizzes {
		entry := m[q.ID]
		score += entry.Score
		total += entry.Total
	}
	if total == 0 {
		return false
	}
	return percent(score, total) >= PassingPercentage
}

// Weaknesses тексты вопросов с неверными ответами без повторов, в порядке первого появления
func Weaknesses(entry model.ProgressEntry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range entry.UserAnswers {
		if a.IsCorrect || seen[a.QuestionText] {
			continue
		}
		seen[a.QuestionText] = true
		out = append(out, a.QuestionText)
	}
	return out
}

// QuizResult строка детализации отчета по одному квизу
type QuizResult struct {
	QuizID     string   `json:"quiz_id"`
	Name       string   `json:"name"`
	Score      int      `json:"score"`
	Total      int      `json:"total"`
	Percentage int      `json:"percentage"`
	Passed     bool     `json:"passed"`
	Weaknesses []string `json:"weaknesses"`
}

// Breakdown детализация по квизам каталога. Слабые места выводятся только для
// непройденных квизов, для отсутствующих записей - "Quiz not taken".
func Breakdown(m model.ProgressMap, quizzes []model.Quiz) []QuizResult {
	out := make([]QuizResult, 0, len(quizzes))
	for _, q := range quizzes {
		entry, ok := m[q.ID]
		if !ok {
			out = append(out, QuizResult{QuizID: q.ID, Name: q.Name, Weaknesses: []string{QuizNotTaken}})
			continue
		}
		r := QuizResult{
			QuizID:     q.ID,
			Name:       q.Name,
			Score:      entry.Score,
			Total:      entry.Total,
			Percentage: QuizPercentage(entry),
			Passed:     QuizPassed(entry),
		}
		if !r.Passed {
			r.Weaknesses = Weaknesses(entry)
		}
		out = append(out, r)
	}
	return out
}

func percent(part, total int) int {
	return int(math.Round(100 * float64(part) / float64(total)))
}
