package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/models"
	"github.com/smarttransit/seat-booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced when admin accounts are created
const MinPasswordLength = 8

// AdminAuthService handles admin authentication business logic
type AdminAuthService struct {
	adminRepo  database.AdminUserStore
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(
	adminRepo database.AdminUserStore,
	jwtService *jwt.Service,
	bcryptCost int,
	logger *logrus.Logger,
) *AdminAuthService {
	return &AdminAuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Login authenticates an admin user and returns an access token.
// Unknown users, inactive users and wrong passwords fail the same way.
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (*models.AdminLoginResponse, error) {
	invalid := fmt.Errorf("%w: invalid username or password", ErrUnauthorized)

	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}

	if !admin.IsActive {
		return nil, invalid
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	accessToken, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Username, []string{jwt.RoleAdmin})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// Update last login
	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID); err != nil {
		// Log error but don't fail the login
		s.logger.WithError(err).WithField("admin_id", admin.ID).Warn("Failed to update last login")
	}

	return &models.AdminLoginResponse{
		Token:     accessToken,
		ExpiresIn: int64(s.jwtService.AccessTokenExpiry().Seconds()),
	}, nil
}

// CreateAdmin creates a new active admin user
func (s *AdminAuthService) CreateAdmin(ctx context.Context, username, password, fullName string) (*models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError(errors.New("username is required"))
	}
	if len(password) < MinPasswordLength {
		return nil, validationError(fmt.Errorf("password must be at least %d characters", MinPasswordLength))
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminUser{
		Username:     username,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(fullName),
		IsActive:     true,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return admin, nil
}

// EnsureAdmin creates the admin user unless the username already exists
func (s *AdminAuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin user: %w", err)
	}
	if _, err := s.CreateAdmin(ctx, username, password, "Administrator"); err != nil {
		return false, err
	}
	return true, nil
}
