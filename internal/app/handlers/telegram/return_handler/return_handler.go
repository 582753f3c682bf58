package return_handler

import (
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// ReturnHandler структура для обработки кнопки возврата на главный экран
type ReturnHandler struct {
	sessions *session.Manager
}

// NewReturnHandler возвращает структуру обработчика
func NewReturnHandler(sessions *session.Manager) *ReturnHandler {
	return &ReturnHandler{sessions: sessions}
}

// Handle возвращает на главный экран после квиза или из недоступного квиза
func (h *ReturnHandler) Handle(c telebot.Context) error {
	s := h.sessions.Get(c.Chat().ID)
	if err := s.ReturnToHub(); err != nil {
		return screens.Reject(c, s.View(), err)
	}
	return screens.Refresh(c, s.View())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ReturnHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
