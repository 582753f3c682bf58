package model

// UserStatus статус учетной записи пользователя
type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserExpired UserStatus = "expired"
)

// User учетная запись обучаемого
type User struct {
	FullName string     `json:"fullName"`
	Username string     `json:"username"`
	Password string     `json:"password"`
	Status   UserStatus `json:"status"`
}

// Identity возвращает краткие данные пользователя для отчета
func (u User) Identity() ReportUser {
	return ReportUser{FullName: u.FullName, Username: u.Username}
}

// RetakeRequest заявка пользователя на повторное прохождение
type RetakeRequest struct {
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	RequestDate string `json:"requestDate"`
}
