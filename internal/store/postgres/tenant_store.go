package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
)

var _ store.TenantStore = (*TenantStore)(nil)

// TenantStore implements store.TenantStore using PostgreSQL.
type TenantStore struct {
	pool *pgxpool.Pool
}

// NewTenantStore creates a new PostgreSQL-backed tenant store.
// It shares the connection pool with other stores.
func NewTenantStore(pool *pgxpool.Pool) *TenantStore {
	return &TenantStore{
		pool: pool,
	}
}

// Create creates a new tenant in the database.
func (s *TenantStore) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (
			tenant_id, name, display_name, credential_hash, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.DisplayName,
		tenant.CredentialHash,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrTenantAlreadyExists
		}
		return fmt.Errorf("failed to create tenant: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("tenant_id", tenant.TenantID.String()).
		Str("name", tenant.Name).
		Msg("Created tenant")

	return nil
}

const selectTenant = `
	SELECT tenant_id, name, display_name, credential_hash, created_at, updated_at
	FROM tenants
`

// Get retrieves a tenant by ID.
func (s *TenantStore) Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	return s.scanOne(ctx, selectTenant+` WHERE tenant_id = $1`, tenantID)
}

// GetByName retrieves a tenant by name, ignoring case.
func (s *TenantStore) GetByName(ctx context.Context, name string) (*models.Tenant, error) {
	return s.scanOne(ctx, selectTenant+` WHERE lower(name) = lower($1)`, name)
}

func (s *TenantStore) scanOne(ctx context.Context, query string, arg any) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&tenant.TenantID,
		&tenant.Name,
		&tenant.DisplayName,
		&tenant.CredentialHash,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", mapPostgresError(err))
	}

	return &tenant, nil
}

// UpdateCredential replaces the credential hash of a tenant.
func (s *TenantStore) UpdateCredential(ctx context.Context, tenantID uuid.UUID, credentialHash string) error {
	query := `
		UPDATE tenants SET
			credential_hash = $2,
			updated_at = $3
		WHERE tenant_id = $1
	`

	result, err := s.pool.Exec(ctx, query, tenantID, credentialHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update tenant credential: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrTenantNotFound
	}

	log.Debug().
		Str("tenant_id", tenantID.String()).
		Msg("Rotated tenant credential")

	return nil
}
