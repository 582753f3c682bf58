package middleware

import (
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// StateSource возвращает описание состояния чата для отладочного сообщения
type StateSource interface {
	Describe(chatID int64) string
}

// DebugUserActions при включенном режиме отладки отправляет пользователю сообщение
// с его ID, состоянием сессии и действием.
func DebugUserActions(enabled bool, states StateSource) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)
			if !enabled || c.Sender() == nil {
				return err
			}
			user := c.Sender()
			state := ""
			if states != nil && c.Chat() != nil {
				state = states.Describe(c.Chat().ID)
			}
			var action string
			if cb := c.Callback(); cb != nil {
				action = "Callback: " + cb.Data
			} else if msg := c.Message(); msg != nil {
				action = "Message: " + MaskSecrets(msg.Text)
			} else {
				action = "Unknown action"
			}
			debugMsg := fmt.Sprintf("DEBUG: User: %s (ID: %d), State: %s, Action: %s",
				user.FirstName, user.ID, state, action)
			go c.Bot().Send(user, debugMsg)
			return err
		}
	}
}
