package models

import "time"

// Role defines the access level of a user account
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// IsValid checks whether the role is one of the known values
func (r Role) IsValid() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// User represents a staff account that can register students
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user has administrative privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
