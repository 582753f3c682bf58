package admin_login_handler

import (
	"fmt"
	"log"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/adminauth"
	adminsService "github.com/IT-Nick/compliance-bot/internal/domain/admins/service"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"gopkg.in/telebot.v4"
)

// AdminLoginHandler структура для обработки /admin <username> <password> и /admin_logout
type AdminLoginHandler struct {
	adminService *adminsService.AdminService
	registry     *adminauth.Registry
}

// NewAdminLoginHandler возвращает структуру обработчика
func NewAdminLoginHandler(adminService *adminsService.AdminService, registry *adminauth.Registry) *AdminLoginHandler {
	return &AdminLoginHandler{adminService: adminService, registry: registry}
}

// Login проверяет учетные данные администратора и показывает доступные команды
func (h *AdminLoginHandler) Login(c telebot.Context) error {
	if err := c.Delete(); err != nil {
		log.Printf("failed to delete admin login message: %v", err)
	}

	args := c.Args()
	if len(args) < 2 {
		return c.Send("Usage: /admin <username> <password>")
	}
	admin, err := h.adminService.Authenticate(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return c.Send(err.Error())
	}
	h.registry.Login(c.Chat().ID, admin)
	log.Printf("admin %s logged in from chat %d", admin.Username, c.Chat().ID)
	return c.Send(Help(admin))
}

// Logout завершает сессию администратора
func (h *AdminLoginHandler) Logout(c telebot.Context) error {
	if !h.registry.Logout(c.Chat().ID) {
		return c.Send("You are not logged in as administrator.")
	}
	return c.Send("Admin session closed.")
}

// Help список команд, доступных роли
func Help(admin model.AdminUser) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Admin Panel: %s (%s)\n\n", admin.Username, admin.Role)
	b.WriteString("Reports\n")
	b.WriteString("/reports [all|passed|failed] [search]\n")
	b.WriteString("/report <id>\n")
	b.WriteString("/export_csv, /export_xlsx\n")
	b.WriteString("\nUsers\n/users [search]\n")
	b.WriteString("\nQuestions\n/questions [search]\n/export_quizzes, /export_quizzes_xlsx\n")
	b.WriteString("\nRetake requests\n/requests [search]\n")
	if adminsService.CanEdit(admin.Role) {
		b.WriteString("\nEditing\n")
		b.WriteString("/clear_reports confirm\n")
		b.WriteString("/add_user Full Name;username;password\n")
		b.WriteString("/delete_user <username>\n")
		b.WriteString("/set_status <username> active|expired\n")
		b.WriteString("/add_question quizId|question|opt1;opt2;...|correct\n")
		b.WriteString("/edit_question quizId|questionId|question|opt1;opt2;...|correct\n")
		b.WriteString("/delete_question <quizId> <questionId>\n")
		b.WriteString("Send a .json or .xlsx file to import quizzes\n")
		b.WriteString("/approve <username>, /deny <username>\n")
	}
	if adminsService.CanManageAdmins(admin.Role) {
		b.WriteString("\nAdmin Management\n/admins\n/add_admin <username> <password> <super|editor|viewer>\n/delete_admin <username>\n")
	}
	b.WriteString("\n/admin_logout")
	return b.String()
}
