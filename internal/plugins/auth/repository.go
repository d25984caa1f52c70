package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// AdminRepository defines the data access contract for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *AdminUser) error
	FindByID(ctx context.Context, id string) (*AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Count(ctx context.Context) (int, error)
}

// adminRepository implements AdminRepository with MariaDB queries.
type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new admin repository.
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create inserts a new admin account.
func (r *adminRepository) Create(ctx context.Context, admin *AdminUser) error {
	query := `INSERT INTO admin_users (id, email, name, password_hash, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		admin.ID, admin.Email, admin.Name, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting admin: %w", err)
	}
	return nil
}

// FindByID retrieves an admin account by UUID.
func (r *adminRepository) FindByID(ctx context.Context, id string) (*AdminUser, error) {
	query := `SELECT id, email, name, password_hash, created_at, last_login_at
	          FROM admin_users WHERE id = ?`

	admin := &AdminUser{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&admin.ID, &admin.Email, &admin.Name, &admin.PasswordHash,
		&admin.CreatedAt, &admin.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("admin not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin by id: %w", err)
	}
	return admin, nil
}

// FindByEmail retrieves an admin account by email.
func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*AdminUser, error) {
	query := `SELECT id, email, name, password_hash, created_at, last_login_at
	          FROM admin_users WHERE email = ?`

	admin := &AdminUser{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.Name, &admin.PasswordHash,
		&admin.CreatedAt, &admin.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("admin not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin by email: %w", err)
	}
	return admin, nil
}

// EmailExists reports whether an admin with the given email already exists.
func (r *adminRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking admin email: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin stamps the last_login_at column.
func (r *adminRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET last_login_at = NOW() WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password hash.
func (r *adminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("admin not found")
	}
	return nil
}

// Count returns the number of admin accounts. The seed command refuses to run
// when accounts already exist.
func (r *adminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return count, nil
}
