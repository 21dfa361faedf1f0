package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/smarttransit/seat-booking-backend/internal/models"
)

// AdminUserRepository handles admin user database operations
type AdminUserRepository struct {
	db DB
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository(db DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByUsername retrieves an admin user by username
func (r *AdminUserRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	query := `
		SELECT id, username, password_hash, full_name, is_active, last_login_at, created_at
		FROM admin_users
		WHERE username = $1
	`

	var admin models.AdminUser
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&admin.ID, &admin.Username, &admin.PasswordHash, &admin.FullName,
		&admin.IsActive, &admin.LastLoginAt, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("admin user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	return &admin, nil
}

// Create creates a new admin user
func (r *AdminUserRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (username, password_hash, full_name, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		admin.Username,
		admin.PasswordHash,
		admin.FullName,
		admin.IsActive,
	).Scan(&admin.ID, &admin.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

// UpdateLastLogin updates the last login timestamp
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query := `
		UPDATE admin_users
		SET last_login_at = $1
		WHERE id = $2
	`

	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}
