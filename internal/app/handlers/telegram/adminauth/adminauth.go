package adminauth

import (
	"sync"

	adminsService "github.com/IT-Nick/compliance-bot/internal/domain/admins/service"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"gopkg.in/telebot.v4"
)

// Level уровень доступа команды
type Level int

const (
	LevelView Level = iota
	LevelEdit
	LevelSuper
)

const loginHint = "Admin Access required. Send /admin <username> <password> to log in."

// Allowed проверяет, что роли достаточно для уровня
func Allowed(role model.AdminRole, level Level) bool {
	switch level {
	case LevelEdit:
		return adminsService.CanEdit(role)
	case LevelSuper:
		return adminsService.CanManageAdmins(role)
	}
	return role.Valid()
}

// Registry хранит вошедших администраторов по id чата
type Registry struct {
	mu     sync.RWMutex
	admins map[int64]model.AdminUser
}

// NewRegistry создает пустой Registry
func NewRegistry() *Registry {
	return &Registry{admins: make(map[int64]model.AdminUser)}
}

// Login запоминает администратора для чата
func (r *Registry) Login(chatID int64, admin model.AdminUser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin.Password = ""
	r.admins[chatID] = admin
}

// Get возвращает администратора чата
func (r *Registry) Get(chatID int64) (model.AdminUser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.admins[chatID]
	return admin, ok
}

// Logout забывает администратора чата. Возвращает false, если вход не выполнялся.
func (r *Registry) Logout(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.admins[chatID]
	delete(r.admins, chatID)
	return ok
}

// Require пропускает команду только администраторам с достаточной ролью
func (r *Registry) Require(level Level) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if c.Chat() == nil {
				return nil
			}
			admin, ok := r.Get(c.Chat().ID)
			if !ok {
				return c.Send(loginHint)
			}
			if !Allowed(admin.Role, level) {
				return c.Send(adminsService.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
