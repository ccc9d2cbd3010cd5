package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/traba/internal/models"
)

// Sentinel errors for tenant store operations
var (
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrTenantAlreadyExists = errors.New("tenant already exists")
)

// TenantStore defines the interface for tenant storage operations.
// Tenants are never deleted in-system.
type TenantStore interface {
	// Create creates a new tenant in the store.
	// Returns ErrTenantAlreadyExists if the ID or name is already taken.
	Create(ctx context.Context, tenant *models.Tenant) error

	// Get retrieves a tenant by ID.
	// Returns ErrTenantNotFound if the tenant doesn't exist.
	Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)

	// GetByName retrieves a tenant by its unique sign-in name.
	// Returns ErrTenantNotFound if the tenant doesn't exist.
	GetByName(ctx context.Context, name string) (*models.Tenant, error)

	// UpdateCredential replaces the stored credential hash.
	// Returns ErrTenantNotFound if the tenant doesn't exist.
	UpdateCredential(ctx context.Context, tenantID uuid.UUID, credentialHash string) error
}
