package users_handler

import (
	"fmt"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	usersService "github.com/IT-Nick/compliance-bot/internal/domain/users/service"
	"gopkg.in/telebot.v4"
)

// UsersHandler команды управления пользователями
type UsersHandler struct {
	userService *usersService.UserService
}

// NewUsersHandler возвращает структуру обработчика
func NewUsersHandler(userService *usersService.UserService) *UsersHandler {
	return &UsersHandler{userService: userService}
}

// List /users [search]
func (h *UsersHandler) List(c telebot.Context) error {
	term := c.Message().Payload
	users, err := h.userService.Search(term)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to load users: %v", err))
	}
	return screens.SendLong(c, FormatUsers(users, term))
}

// Add /add_user Full Name;username;password
func (h *UsersHandler) Add(c telebot.Context) error {
	fullName, username, password, ok := ParseNewUser(c.Message().Payload)
	if !ok {
		return c.Send("Usage: /add_user Full Name;username;password")
	}
	user, err := h.userService.AddUser(fullName, username, password)
	if err != nil {
		return c.Send(err.Error())
	}
	return c.Send(fmt.Sprintf("User %s (%s) added.", user.FullName, user.Username))
}

// Delete /delete_user <username>
func (h *UsersHandler) Delete(c telebot.Context) error {
	username := strings.TrimSpace(c.Message().Payload)
	if username == "" {
		return c.Send("Usage: /delete_user <username>")
	}
	if err := h.userService.DeleteUser(username); err != nil {
		return c.Send(err.Error())
	}
	return c.Send(fmt.Sprintf("User %s deleted.", username))
}

// SetStatus /set_status <username> active|expired
func (h *UsersHandler) SetStatus(c telebot.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Send("Usage: /set_status <username> active|expired")
	}
	status := model.UserStatus(strings.ToLower(args[1]))
	if status != model.UserActive && status != model.UserExpired {
		return c.Send("Status must be active or expired.")
	}
	if err := h.userService.SetStatus(args[0], status); err != nil {
		return c.Send(err.Error())
	}
	return c.Send(fmt.Sprintf("User %s is now %s.", args[0], status))
}

// ParseNewUser разбирает "Full Name;username;password"
func ParseNewUser(payload string) (fullName, username, password string, ok bool) {
	parts := strings.SplitN(payload, ";", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), true
}

// FormatUsers список пользователей
func FormatUsers(users []model.User, term string) string {
	if len(users) == 0 {
		if strings.TrimSpace(term) != "" {
			return "No users match your search."
		}
		return "No users have been added."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Users (%d)\n\n", len(users))
	for _, u := range users {
		fmt.Fprintf(&b, "%s (%s) - %s\n", u.FullName, u.Username, u.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}
