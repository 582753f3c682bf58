package start_quiz_handler

import (
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// StartQuizHandler структура для обработки кнопки запуска квиза. Data кнопки - id квиза.
type StartQuizHandler struct {
	sessions *session.Manager
}

// NewStartQuizHandler возвращает структуру обработчика
func NewStartQuizHandler(sessions *session.Manager) *StartQuizHandler {
	return &StartQuizHandler{sessions: sessions}
}

// Handle начинает квиз с первого вопроса
func (h *StartQuizHandler) Handle(c telebot.Context) error {
	s := h.sessions.Get(c.Chat().ID)
	if err := s.StartQuiz(c.Callback().Data); err != nil {
		return screens.Reject(c, s.View(), err)
	}
	return screens.Refresh(c, s.View())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartQuizHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
