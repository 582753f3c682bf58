package service

import (
	"errors"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/domain/admins/repository"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

var (
	ErrInvalidCredentials = errors.New("Invalid admin username or password.")
	ErrMissingFields      = errors.New("Please fill out all admin fields.")
	ErrInvalidRole        = errors.New("Role must be one of super, editor, viewer.")
	ErrAdminExists        = errors.New("Admin username already exists.")
	ErrAdminNotFound      = errors.New("Admin not found.")
	ErrReservedAccount    = errors.New("The Super Admin account cannot be deleted.")
	ErrForbidden          = errors.New("You do not have permission to perform this action.")
)

// CanEdit проверяет право изменять каталог, пользователей и заявки
func CanEdit(role model.AdminRole) bool {
	return role == model.RoleSuper || role == model.RoleEditor
}

// CanManageAdmins проверяет право управлять администраторами
func CanManageAdmins(role model.AdminRole) bool {
	return role == model.RoleSuper
}

// AdminService для работы с администраторами и их ролями
type AdminService struct {
	adminRepo *repository.AdminRepository
}

// NewAdminService создает новый экземпляр AdminService
func NewAdminService(adminRepo *repository.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

// Authenticate проверяет логин и пароль администратора
func (s *AdminService) Authenticate(username, password string) (model.AdminUser, error) {
	admins, err := s.adminRepo.LoadAll()
	if err != nil {
		return model.AdminUser{}, err
	}
	i := indexOf(admins, username)
	if i < 0 || admins[i].Password != password {
		return model.AdminUser{}, ErrInvalidCredentials
	}
	return admins[i], nil
}

// AddAdmin добавляет администратора
func (s *AdminService) AddAdmin(admin model.AdminUser) error {
	admin.Username = strings.TrimSpace(admin.Username)
	if admin.Username == "" || admin.Password == "" {
		return ErrMissingFields
	}
	if !admin.Role.Valid() {
		return ErrInvalidRole
	}
	return s.adminRepo.Update(func(admins []model.AdminUser) ([]model.AdminUser, error) {
		if indexOf(admins, admin.Username) >= 0 {
			return nil, ErrAdminExists
		}
		return append(admins, admin), nil
	})
}

// DeleteAdmin удаляет администратора. Суперадминистратор не удаляется.
func (s *AdminService) DeleteAdmin(username string) error {
	if strings.EqualFold(strings.TrimSpace(username), repository.ReservedUsername) {
		return ErrReservedAccount
	}
	return s.adminRepo.Update(func(admins []model.AdminUser) ([]model.AdminUser, error) {
		i := indexOf(admins, username)
		if i < 0 {
			return nil, ErrAdminNotFound
		}
		return append(admins[:i], admins[i+1:]...), nil
	})
}

// List возвращает всех администраторов
func (s *AdminService) List() ([]model.AdminUser, error) {
	return s.adminRepo.LoadAll()
}

func indexOf(admins []model.AdminUser, username string) int {
	clean := strings.ToLower(strings.TrimSpace(username))
	for i, a := range admins {
		if strings.ToLower(a.Username) == clean {
			return i
		}
	}
	return -1
}
