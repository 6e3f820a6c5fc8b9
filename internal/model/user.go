package model

import "time"

// Role is the capability level of a user. Only RoleAdmin bypasses grant checks.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin checks if user has administrative override
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsTeacher checks if user is a teacher (admins count as teachers too)
func (u *User) IsTeacher() bool {
	return u != nil && (u.Role == RoleTeacher || u.Role == RoleAdmin)
}
