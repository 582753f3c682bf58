package model

// AdminRole роль администратора
type AdminRole string

const (
	RoleSuper  AdminRole = "super"
	RoleEditor AdminRole = "editor"
	RoleViewer AdminRole = "viewer"
)

// Valid проверяет, что роль входит в допустимый набор
func (r AdminRole) Valid() bool {
	switch r {
	case RoleSuper, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// AdminUser учетная запись администратора
type AdminUser struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     AdminRole `json:"role"`
}
