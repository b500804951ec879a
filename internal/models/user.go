package models

import "time"

// Roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Never return password in JSON
	Role      string    `json:"role" db:"role"`  // "admin" or "staff"
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserResponse is the public shape used by the task assignment dropdown
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Username,
		Email: u.Email,
		Role:  u.Role,
	}
}

// IsValidRole reports whether role is assignable
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
