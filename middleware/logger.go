package middleware

import (
	"encoding/json"
	"log"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// командам с паролем в аргументах аргументы в логе заменяются на ***
var secretCommands = []string{"/login", "/admin", "/add_user", "/add_admin"}

// Logger возвращает middleware, которое логирует входящие обновления Telegram.
// Если передан логгер, используется он, иначе log.Default().
func Logger(logger ...*log.Logger) tele.MiddlewareFunc {
	var l *log.Logger
	if len(logger) > 0 {
		l = logger[0]
	} else {
		l = log.Default()
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			update := c.Update()
			if update.Message != nil {
				masked := *update.Message
				masked.Text = MaskSecrets(masked.Text)
				update.Message = &masked
			}
			data, _ := json.MarshalIndent(update, "", "  ")
			l.Println(string(data))
			return next(c)
		}
	}
}

// MaskSecrets скрывает аргументы команд, содержащих пароль
func MaskSecrets(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return text
	}
	command := strings.SplitN(fields[0], "@", 2)[0]
	for _, secret := range secretCommands {
		if command == secret {
			return fields[0] + " ***"
		}
	}
	return text
}
