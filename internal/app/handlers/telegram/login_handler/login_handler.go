package login_handler

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

var errAlreadyLoggedIn = errors.New("You are already logged in. Use /logout to switch accounts.")

// LoginHandler структура для обработки команды /login <username> <password>
type LoginHandler struct {
	sessions *session.Manager
}

// NewLoginHandler возвращает структуру обработчика
func NewLoginHandler(sessions *session.Manager) *LoginHandler {
	return &LoginHandler{sessions: sessions}
}

// Handle проверяет учетные данные и открывает главный экран
func (h *LoginHandler) Handle(c telebot.Context) error {
	// сообщение с паролем не должно оставаться в чате
	if err := c.Delete(); err != nil {
		log.Printf("failed to delete login message: %v", err)
	}

	args := c.Args()
	if len(args) < 2 {
		return screens.Show(c, screens.Login("Please enter both username and password."))
	}
	username, password := args[0], strings.Join(args[1:], " ")

	s := h.sessions.Get(c.Chat().ID)
	restored, err := s.Login(context.Background(), username, password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidTransition) {
			return screens.Reject(c, s.View(), errAlreadyLoggedIn)
		}
		return screens.Show(c, screens.Login(err.Error()))
	}

	notice := ""
	if restored {
		notice = "Your saved progress has been restored."
	}
	return screens.Show(c, screens.Hub(s.View(), notice))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *LoginHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
