package start_handler

import (
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// StartHandler структура для обработки команды /start
type StartHandler struct {
	sessions *session.Manager
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(sessions *session.Manager) *StartHandler {
	return &StartHandler{sessions: sessions}
}

// Handle показывает экран, соответствующий состоянию сессии чата
func (h *StartHandler) Handle(c telebot.Context) error {
	return screens.Refresh(c, h.sessions.Get(c.Chat().ID).View())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
