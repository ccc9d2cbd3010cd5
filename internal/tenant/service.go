// Package tenant manages breeding operations (tenants): sign-up, sign-in and
// credential rotation. Credentials are stored as bcrypt hashes and sign-in
// returns an ES256 session token.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/auth"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/pedigree"
	"github.com/wolfeidau/traba/internal/store"
	"github.com/wolfeidau/traba/internal/telemetry"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
	maxNameLength     = 64
)

// ErrInvalidCredentials is returned for an unknown name or wrong password.
// It wraps pedigree.ErrUnauthorized.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid tenant name or password", pedigree.ErrUnauthorized)

// Service is the tenant registry.
type Service struct {
	store   store.TenantStore
	signer  *auth.Signer
	cost    int
	metrics *telemetry.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides the bcrypt cost, mainly to keep tests fast.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// NewService creates a tenant service.
func NewService(st store.TenantStore, signer *auth.Signer, opts ...Option) *Service {
	s := &Service{
		store:   st,
		signer:  signer,
		cost:    bcrypt.DefaultCost,
		metrics: telemetry.GetMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput holds the sign-up fields.
type RegisterInput struct {
	Name        string
	DisplayName string
	Password    string
}

// Session is the result of a successful sign-in.
type Session struct {
	Tenant    *models.Tenant
	Token     string
	ExpiresAt time.Time
}

// Register signs up a new tenant. A name already taken, ignoring case, is an
// integrity error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant id: %w", err)
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = name
	}

	now := time.Now().UTC()
	tenant := &models.Tenant{
		TenantID:       id,
		Name:           name,
		DisplayName:    displayName,
		CredentialHash: string(hash),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, tenant); err != nil {
		if errors.Is(err, store.ErrTenantAlreadyExists) {
			return nil, fmt.Errorf("%w: tenant name %q is already taken", pedigree.ErrIntegrity, name)
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.metrics.TenantsRegisteredTotal.Add(ctx, 1)

	log.Info().
		Str("tenant_id", tenant.TenantID.String()).
		Str("name", tenant.Name).
		Msg("Tenant registered")

	return tenant, nil
}

// Authenticate checks the name and password and issues a session token.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*Session, error) {
	tenant, err := s.store.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, store.ErrTenantNotFound) {
			s.metrics.AuthenticationsFailTotal.Add(ctx, 1)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.CredentialHash), []byte(password)); err != nil {
		s.metrics.AuthenticationsFailTotal.Add(ctx, 1)
		log.Debug().Str("tenant_id", tenant.TenantID.String()).Msg("Rejected sign-in")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.signer.Issue(tenant.TenantID, tenant.Name)
	if err != nil {
		return nil, err
	}

	return &Session{Tenant: tenant, Token: token, ExpiresAt: expiresAt}, nil
}

// Get returns a tenant by ID.
func (s *Service) Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.store.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrTenantNotFound) {
			return nil, fmt.Errorf("%w: tenant %s", pedigree.ErrNotFound, tenantID)
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	return tenant, nil
}

// RotateCredential replaces the tenant's password after checking the current one.
func (s *Service) RotateCredential(ctx context.Context, tenantID uuid.UUID, current, next string) error {
	if err := validatePassword(next); err != nil {
		return err
	}

	tenant, err := s.Get(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.CredentialHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash credential: %w", err)
	}

	if err := s.store.UpdateCredential(ctx, tenantID, string(hash)); err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	log.Info().
		Str("tenant_id", tenantID.String()).
		Msg("Tenant credential rotated")

	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: tenant name is required", pedigree.ErrValidation)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: tenant name must be at most %d characters", pedigree.ErrValidation, maxNameLength)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: tenant name must not contain spaces", pedigree.ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", pedigree.ErrValidation, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", pedigree.ErrValidation, maxPasswordLength)
	}
	return nil
}
