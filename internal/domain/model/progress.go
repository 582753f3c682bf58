package model

// QuizStatus статус прохождения квиза
type QuizStatus string

const (
	StatusNotStarted QuizStatus = "not_started"
	StatusInProgress QuizStatus = "in_progress"
	StatusCompleted  QuizStatus = "completed"
)

// ProgressEntry хранит прогресс пользователя по одному квизу
type ProgressEntry struct {
	Status      QuizStatus   `json:"status"`
	Score       int          `json:"score"`
	Total       int          `json:"total"`
	UserAnswers []UserAnswer `json:"userAnswers"`
}

// ProgressMap прогресс по всем квизам каталога, ключ - id квиза
type ProgressMap map[string]ProgressEntry

// Clone возвращает глубокую копию карты прогресса
func (m ProgressMap) Clone() ProgressMap {
	if m == nil {
		return nil
	}
	out := make(ProgressMap, len(m))
	for id, entry := range m {
		entry.UserAnswers = append([]UserAnswer{}, entry.UserAnswers...)
		out[id] = entry
	}
	return out
}
