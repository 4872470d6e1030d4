package models

import "time"

// UserRole represents the role hierarchy levels.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleVendor  UserRole = "VENDOR"
	RoleMentor  UserRole = "MENTOR"
	RoleStudent UserRole = "STUDENT"
)

// User represents an identity stored in the users table.
type User struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	FullName      string    `db:"full_name" json:"full_name"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	Role          UserRole  `db:"role" json:"role"`
	Active        bool      `db:"is_active" json:"is_active"`
	EmailVerified bool      `db:"is_email_verified" json:"is_email_verified"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
