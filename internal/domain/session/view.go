package session

import "github.com/IT-Nick/compliance-bot/internal/domain/model"

// View неизменяемый снимок сессии
type View struct {
	State         State
	User          *model.ReportUser
	Quizzes       []model.Quiz
	Progress      model.ProgressMap
	ActiveQuizID  string
	ActiveQuiz    *model.Quiz
	QuestionIndex int
	Selected      string
	Restored      bool
	AllCompleted  bool
	OverallResult bool
	Report        *model.TrainingReport
	Acknowledged  bool
	LastError     string
}

// CurrentQuestion возвращает текущий вопрос активного квиза
func (v View) CurrentQuestion() (model.Question, bool) {
	if v.ActiveQuiz == nil || v.QuestionIndex >= len(v.ActiveQuiz.Questions) {
		return model.Question{}, false
	}
	return v.ActiveQuiz.Questions[v.QuestionIndex], true
}
