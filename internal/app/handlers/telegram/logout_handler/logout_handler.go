package logout_handler

import (
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"github.com/IT-Nick/compliance-bot/internal/infra/timer"
	"gopkg.in/telebot.v4"
)

// LogoutHandler структура для обработки /logout и кнопки выхода
type LogoutHandler struct {
	sessions *session.Manager
	timers   *timer.Manager
}

// NewLogoutHandler возвращает структуру обработчика
func NewLogoutHandler(sessions *session.Manager, timers *timer.Manager) *LogoutHandler {
	return &LogoutHandler{sessions: sessions, timers: timers}
}

// Handle завершает сессию чата
func (h *LogoutHandler) Handle(c telebot.Context) error {
	chatID := c.Chat().ID
	h.timers.Cancel(chatID)
	h.sessions.Get(chatID).Logout()
	return screens.Show(c, screens.Login("You have been logged out."))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *LogoutHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
