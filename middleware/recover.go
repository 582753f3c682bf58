package middleware

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"
)

// ErrPanic обработчик завершился паникой
var ErrPanic = errors.New("handler panicked")

// Recover перехватывает панику обработчика: пишет в лог апдейт, чат и стек,
// отправляет пользователю reply (пустой - не отвечать) и возвращает ошибку, оборачивающую ErrPanic.
// Если logger nil, используется log.Default().
func Recover(logger *log.Logger, reply string) tele.MiddlewareFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err = panicError(r)
				logger.Printf("panic while handling %s: %v\n%s", describe(c), r, debug.Stack())

				if reply == "" || c == nil || c.Chat() == nil {
					return
				}
				if sendErr := c.Send(reply); sendErr != nil {
					logger.Printf("failed to notify chat %d about panic: %v", c.Chat().ID, sendErr)
				}
			}()
			return next(c)
		}
	}
}

func panicError(r any) error {
	if e, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanic, e)
	}
	return fmt.Errorf("%w: %v", ErrPanic, r)
}

// describe апдейт для лога, пароли в командах скрыты
func describe(c tele.Context) string {
	if c == nil {
		return "unknown update"
	}
	s := fmt.Sprintf("update %d", c.Update().ID)
	if chat := c.Chat(); chat != nil {
		s += fmt.Sprintf(" in chat %d", chat.ID)
	}
	if text := c.Text(); text != "" {
		s += fmt.Sprintf(" (%q)", MaskSecrets(text))
	}
	return s
}
