package model

import "time"

// Role is a user's application role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
)

type User struct {
	ID           string     `json:"id" db:"id"`
	EmployeeID   string     `json:"employee_id,omitempty" db:"employee_id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"full_name" db:"full_name"`
	Department   string     `json:"department,omitempty" db:"department"`
	Designation  string     `json:"designation,omitempty" db:"designation"`
	ManagerID    *string    `json:"manager_id,omitempty" db:"manager_id"`
	Role         Role       `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DirSynced    bool       `json:"dir_synced" db:"dir_synced"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
