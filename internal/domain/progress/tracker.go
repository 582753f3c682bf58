package progress

import "github.com/IT-Nick/compliance-bot/internal/domain/model"

// Initialize создает свежую карту прогресса для каждого квиза каталога
func Initialize(quizzes []model.Quiz) model.ProgressMap {
	m := make(model.ProgressMap, len(quizzes))
	for _, q := range quizzes {
		m[q.ID] = freshEntry(q)
	}
	return m
}

// StartQuiz сбрасывает запись квиза в in_progress. Неизвестный id игнорируется.
func StartQuiz(m model.ProgressMap, quizID string) model.ProgressMap {
	entry, ok := m[quizID]
	if !ok {
		return m
	}
	out := m.Clone()
	entry.Status = model.StatusInProgress
	entry.Score = 0
	entry.UserAnswers = []model.UserAnswer{}
	out[quizID] = entry
	return out
}

// RecordAnswer добавляет ответ в журнал квиза и увеличивает счет, если ответ верный
func RecordAnswer(m model.ProgressMap, quizID string, question model.Question, isCorrect bool) model.ProgressMap {
	if _, ok := m[quizID]; !ok {
		return m
	}
	out := m.Clone()
	entry := out[quizID]
	entry.UserAnswers = append(entry.UserAnswers, model.UserAnswer{
		QuestionID:   question.ID,
		IsCorrect:    isCorrect,
		QuestionText: question.Question,
	})
	if isCorrect {
		entry.Score++
	}
	out[quizID] = entry
	return out
}

// CompleteQuiz помечает квиз завершенным.
// Вызывающий отвечает за то, что все вопросы пройдены.
func CompleteQuiz(m model.ProgressMap, quizID string) model.ProgressMap {
	if _, ok := m[quizID]; !ok {
		return m
	}
	out := m.Clone()
	entry := out[quizID]
	entry.Status = model.StatusCompleted
	out[quizID] = entry
	return out
}

// Reconcile приводит ключи карты к текущему каталогу: записи известных квизов
// сохраняются, для новых создаются свежие, лишние удаляются.
// Запись, у которой изменилось число вопросов, сбрасывается.
func Reconcile(m model.ProgressMap, quizzes []model.Quiz) model.ProgressMap {
	out := make(model.ProgressMap, len(quizzes))
	for _, q := range quizzes {
		entry, ok := m[q.ID]
		if !ok || entry.Total != len(q.Questions) {
			out[q.ID] = freshEntry(q)
			continue
		}
		entry.UserAnswers = append([]model.UserAnswer{}, entry.UserAnswers...)
		out[q.ID] = entry
	}
	return out
}

// AllCompleted проверяет, что все квизы каталога завершены
func AllCompleted(m model.ProgressMap, quizzes []model.Quiz) bool {
	for _, q := range quizzes {
		if m[q.ID].Status != model.StatusCompleted {
			return false
		}
	}
	return true
}

func freshEntry(q model.Quiz) model.ProgressEntry {
	return model.ProgressEntry{
		Status:      model.StatusNotStarted,
		Score:       0,
		Total:       len(q.Questions),
		UserAnswers: []model.UserAnswer{},
	}
}
