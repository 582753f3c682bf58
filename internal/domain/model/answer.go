package model

// UserAnswer представляет ответ пользователя на вопрос квиза
type UserAnswer struct {
	QuestionID   int    `json:"questionId"`
	IsCorrect    bool   `json:"isCorrect"`
	QuestionText string `json:"questionText"`
}
