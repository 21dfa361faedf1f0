package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/models"
)

// AdminUsers is an in-memory database.AdminUserStore
type AdminUsers struct {
	mu     sync.RWMutex
	lastID int64
	byName map[string]models.AdminUser
}

// NewAdminUsers creates an empty admin user store
func NewAdminUsers() *AdminUsers {
	return &AdminUsers{byName: make(map[string]models.AdminUser)}
}

var _ database.AdminUserStore = (*AdminUsers)(nil)

func (a *AdminUsers) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	admin, ok := a.byName[username]
	if !ok {
		return nil, fmt.Errorf("admin user: %w", database.ErrNotFound)
	}
	return &admin, nil
}

func (a *AdminUsers) Create(ctx context.Context, admin *models.AdminUser) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.byName[admin.Username]; exists {
		return fmt.Errorf("admin user %q already exists", admin.Username)
	}
	a.lastID++
	admin.ID = a.lastID
	admin.CreatedAt = time.Now()
	a.byName[admin.Username] = *admin
	return nil
}

func (a *AdminUsers) UpdateLastLogin(ctx context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for name, admin := range a.byName {
		if admin.ID == id {
			now := time.Now()
			admin.LastLoginAt = &now
			a.byName[name] = admin
			return nil
		}
	}
	return fmt.Errorf("admin user: %w", database.ErrNotFound)
}
