package next_question_handler

import (
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// NextQuestionHandler структура для обработки кнопки перехода к следующему вопросу
type NextQuestionHandler struct {
	sessions *session.Manager
}

// NewNextQuestionHandler возвращает структуру обработчика
func NewNextQuestionHandler(sessions *session.Manager) *NextQuestionHandler {
	return &NextQuestionHandler{sessions: sessions}
}

// Handle засчитывает ответ и показывает следующий вопрос или итог квиза
func (h *NextQuestionHandler) Handle(c telebot.Context) error {
	s := h.sessions.Get(c.Chat().ID)
	if _, err := s.Next(); err != nil {
		return screens.Reject(c, s.View(), err)
	}
	return screens.Refresh(c, s.View())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *NextQuestionHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
