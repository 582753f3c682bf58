package answer_handler

import (
	"strconv"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// AnswerHandler структура для обработки выбора варианта ответа. Data кнопки - индекс варианта.
type AnswerHandler struct {
	sessions *session.Manager
}

// NewAnswerHandler возвращает структуру обработчика
func NewAnswerHandler(sessions *session.Manager) *AnswerHandler {
	return &AnswerHandler{sessions: sessions}
}

// Handle запоминает выбранный вариант. До перехода к следующему вопросу выбор можно менять.
func (h *AnswerHandler) Handle(c telebot.Context) error {
	s := h.sessions.Get(c.Chat().ID)

	question, _, _, err := s.CurrentQuestion()
	if err != nil {
		return screens.Reject(c, s.View(), err)
	}
	index, err := strconv.Atoi(c.Callback().Data)
	if err != nil || index < 0 || index >= len(question.Options) {
		return screens.Reject(c, s.View(), session.ErrInvalidOption)
	}
	if err := s.Answer(question.Options[index]); err != nil {
		return screens.Reject(c, s.View(), err)
	}
	return screens.Refresh(c, s.View())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
