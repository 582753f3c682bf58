package admins_handler

import (
	"fmt"
	"strings"

	adminsService "github.com/IT-Nick/compliance-bot/internal/domain/admins/service"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"gopkg.in/telebot.v4"
)

// AdminsHandler команды суперадминистратора
type AdminsHandler struct {
	adminService *adminsService.AdminService
}

// NewAdminsHandler возвращает структуру обработчика
func NewAdminsHandler(adminService *adminsService.AdminService) *AdminsHandler {
	return &AdminsHandler{adminService: adminService}
}

// List /admins
func (h *AdminsHandler) List(c telebot.Context) error {
	admins, err := h.adminService.List()
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to load admins: %v", err))
	}
	return c.Send(FormatAdmins(admins))
}

// Add /add_admin <username> <password> <super|editor|viewer>
func (h *AdminsHandler) Add(c telebot.Context) error {
	args := c.Args()
	if len(args) != 3 {
		return c.Send("Usage: /add_admin <username> <password> <super|editor|viewer>")
	}
	// пароль не должен оставаться в истории чата
	_ = c.Delete()

	admin := model.AdminUser{Username: args[0], Password: args[1], Role: model.AdminRole(strings.ToLower(args[2]))}
	if err := h.adminService.AddAdmin(admin); err != nil {
		return c.Send(err.Error())
	}
	return c.Send(fmt.Sprintf("Admin %s added with role %s.", admin.Username, admin.Role))
}

// Delete /delete_admin <username>
func (h *AdminsHandler) Delete(c telebot.Context) error {
	username := strings.TrimSpace(c.Message().Payload)
	if username == "" {
		return c.Send("Usage: /delete_admin <username>")
	}
	if err := h.adminService.DeleteAdmin(username); err != nil {
		return c.Send(err.Error())
	}
	return c.Send(fmt.Sprintf("Admin %s deleted.", username))
}

// FormatAdmins список администраторов без паролей
func FormatAdmins(admins []model.AdminUser) string {
	if len(admins) == 0 {
		return "No admins configured."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Admins (%d)\n\n", len(admins))
	for _, a := range admins {
		fmt.Fprintf(&b, "%s - %s\n", a.Username, a.Role)
	}
	return strings.TrimRight(b.String(), "\n")
}
