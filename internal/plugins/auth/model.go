// Package auth handles admin authentication for Resonora. The public site
// needs no accounts; only the admin panel is protected. Sessions are random
// tokens stored in Redis, passwords are hashed with argon2id.
package auth

import "time"

// AdminUser is a row in the admin_users table. Every account is an
// administrator; there are no roles.
type AdminUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// LoginRequest holds the data submitted by the admin login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginInput is the validated input for authenticating an admin.
type LoginInput struct {
	Email    string
	Password string
}

// CreateAdminInput is the input for creating an admin account (seed command
// or an existing admin adding a colleague).
type CreateAdminInput struct {
	Email    string
	Name     string
	Password string
}

// Session is an authenticated admin session stored in Redis. The session
// token is the key, this struct is the JSON-encoded value.
type Session struct {
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
