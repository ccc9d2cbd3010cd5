package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
)

// TenantStore implements store.TenantStore using in-memory storage.
// Data is lost on restart.
type TenantStore struct {
	mu sync.RWMutex

	tenants map[uuid.UUID]*models.Tenant // tenant_id -> Tenant
	byName  map[string]uuid.UUID         // lower(name) -> tenant_id
}

// NewTenantStore creates a new in-memory tenant store.
func NewTenantStore() *TenantStore {
	return &TenantStore{
		tenants: make(map[uuid.UUID]*models.Tenant),
		byName:  make(map[string]uuid.UUID),
	}
}

// Create creates a new tenant in memory.
func (s *TenantStore) Create(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(tenant.Name)
	if _, exists := s.tenants[tenant.TenantID]; exists {
		return store.ErrTenantAlreadyExists
	}
	if _, exists := s.byName[key]; exists {
		return store.ErrTenantAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *tenant
	s.tenants[tenant.TenantID] = &clone
	s.byName[key] = tenant.TenantID

	log.Debug().
		Str("tenant_id", tenant.TenantID.String()).
		Str("name", tenant.Name).
		Msg("Created tenant")

	return nil
}

// Get retrieves a tenant by ID.
func (s *TenantStore) Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, exists := s.tenants[tenantID]
	if !exists {
		return nil, store.ErrTenantNotFound
	}

	clone := *tenant
	return &clone, nil
}

// GetByName retrieves a tenant by name, ignoring case.
func (s *TenantStore) GetByName(ctx context.Context, name string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenantID, exists := s.byName[strings.ToLower(name)]
	if !exists {
		return nil, store.ErrTenantNotFound
	}

	clone := *s.tenants[tenantID]
	return &clone, nil
}

// UpdateCredential replaces the credential hash of a tenant.
func (s *TenantStore) UpdateCredential(ctx context.Context, tenantID uuid.UUID, credentialHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, exists := s.tenants[tenantID]
	if !exists {
		return store.ErrTenantNotFound
	}

	clone := *tenant
	clone.CredentialHash = credentialHash
	clone.UpdatedAt = time.Now()
	s.tenants[tenantID] = &clone

	log.Debug().
		Str("tenant_id", tenantID.String()).
		Msg("Rotated tenant credential")

	return nil
}
