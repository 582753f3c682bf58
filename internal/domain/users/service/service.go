package service

import (
	"errors"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/users/repository"
)

var (
	ErrInvalidCredentials = errors.New("Invalid Username or password.")
	ErrAccountExpired     = errors.New("This account has already completed the training and is inactive. Please contact an administrator for a retake.")
	ErrMissingFields      = errors.New("Please fill out all user fields.")
	ErrUserExists         = errors.New("Username already exists.")
	ErrUserNotFound       = errors.New("User not found.")
	ErrReservedAccount    = errors.New("The default Demo user cannot be deleted.")
)

// UserService содержит логику бизнес-операций для пользователей
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService создает новый экземпляр UserService
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Authenticate проверяет логин и пароль. Логин сравнивается без учета регистра и пробелов.
func (s *UserService) Authenticate(username, password string) (model.User, error) {
	users, err := s.userRepo.LoadAll()
	if err != nil {
		return model.User{}, err
	}
	clean := strings.ToLower(strings.TrimSpace(username))
	for _, u := range users {
		if strings.ToLower(u.Username) != clean {
			continue
		}
		if u.Password != password {
			return model.User{}, ErrInvalidCredentials
		}
		if u.Status == model.UserExpired {
			return model.User{}, ErrAccountExpired
		}
		return u, nil
	}
	return model.User{}, ErrInvalidCredentials
}

// AddUser добавляет активного пользователя
func (s *UserService) AddUser(fullName, username, password string) (model.User, error) {
	user := model.User{
		FullName: strings.TrimSpace(fullName),
		Username: strings.TrimSpace(username),
		Password: password,
		Status:   model.UserActive,
	}
	if user.FullName == "" || user.Username == "" || user.Password == "" {
		return model.User{}, ErrMissingFields
	}
	err := s.userRepo.Update(func(users []model.User) ([]model.User, error) {
		if indexOf(users, user.Username) >= 0 {
			return nil, ErrUserExists
		}
		return append(users, user), nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// DeleteUser удаляет пользователя. Демо-пользователь не удаляется.
func (s *UserService) DeleteUser(username string) error {
	if strings.EqualFold(strings.TrimSpace(username), repository.ReservedUsername) {
		return ErrReservedAccount
	}
	return s.userRepo.Update(func(users []model.User) ([]model.User, error) {
		i := indexOf(users, username)
		if i < 0 {
			return nil, ErrUserNotFound
		}
		return append(users[:i], users[i+1:]...), nil
	})
}

// SetStatus меняет статус пользователя
func (s *UserService) SetStatus(username string, status model.UserStatus) error {
	return s.userRepo.Update(func(users []model.User) ([]model.User, error) {
		i := indexOf(users, username)
		if i < 0 {
			return nil, ErrUserNotFound
		}
		users[i].Status = status
		return users, nil
	})
}

// Expire переводит пользователя в expired после отправки отчета
func (s *UserService) Expire(username string) error {
	return s.SetStatus(username, model.UserExpired)
}

// Activate возвращает пользователю доступ к обучению
func (s *UserService) Activate(username string) error {
	return s.SetStatus(username, model.UserActive)
}

// GetUser возвращает пользователя по логину
func (s *UserService) GetUser(username string) (model.User, error) {
	users, err := s.userRepo.LoadAll()
	if err != nil {
		return model.User{}, err
	}
	i := indexOf(users, username)
	if i < 0 {
		return model.User{}, ErrUserNotFound
	}
	return users[i], nil
}

// List возвращает всех пользователей
func (s *UserService) List() ([]model.User, error) {
	return s.userRepo.LoadAll()
}

// Search ищет пользователей по подстроке в имени или логине
func (s *UserService) Search(term string) ([]model.User, error) {
	users, err := s.userRepo.LoadAll()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users, nil
	}
	var out []model.User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.FullName), term) || strings.Contains(strings.ToLower(u.Username), term) {
			out = append(out, u)
		}
	}
	return out, nil
}

func indexOf(users []model.User, username string) int {
	clean := strings.ToLower(strings.TrimSpace(username))
	for i, u := range users {
		if strings.ToLower(u.Username) == clean {
			return i
		}
	}
	return -1
}
