// Package pedigree implements the breeding registry core: individuals, their
// parentage, the bounded ancestry resolver, progenitor registration with
// placeholder synthesis, and the inbreeding cross registry.
//
// Every operation takes the caller's tenant explicitly. A record owned by a
// different tenant is reported as ErrUnauthorized, never returned.
package pedigree

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
	"github.com/wolfeidau/traba/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// syntheticCodePrefix starts every generated synthetic code.
const syntheticCodePrefix = "TR-"

// Service is the pedigree registry.
type Service struct {
	store   store.PedigreeStore
	metrics *telemetry.Metrics
}

// NewService creates a pedigree service backed by the given store.
func NewService(st store.PedigreeStore) *Service {
	return &Service{
		store:   st,
		metrics: telemetry.GetMetrics(),
	}
}

// IndividualInput carries the caller supplied attributes of an individual.
type IndividualInput struct {
	Tag          string
	SecondaryTag string
	Name         string
	Breed        string
	Color        string
	Appearance   string
	FightRecord  string
	PhotoRef     string

	// SyntheticCode is generated when empty. It is ignored on update.
	SyntheticCode string
}

func (in *IndividualInput) normalize() {
	in.Tag = strings.TrimSpace(in.Tag)
	in.SecondaryTag = strings.TrimSpace(in.SecondaryTag)
	in.Name = strings.TrimSpace(in.Name)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Color = strings.TrimSpace(in.Color)
	in.Appearance = strings.TrimSpace(in.Appearance)
	in.FightRecord = strings.TrimSpace(in.FightRecord)
	in.PhotoRef = strings.TrimSpace(in.PhotoRef)
	in.SyntheticCode = strings.TrimSpace(in.SyntheticCode)
}

// Validate checks that the required attributes are present and well formed.
func (in IndividualInput) Validate() error {
	in.normalize()

	var missing []string
	if in.Tag == "" {
		missing = append(missing, "tag")
	}
	if in.Breed == "" {
		missing = append(missing, "breed")
	}
	if in.Color == "" {
		missing = append(missing, "color")
	}
	if in.Appearance == "" {
		missing = append(missing, "appearance")
	}
	if len(missing) > 0 {
		return validationf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if !models.ValidAppearance(in.Appearance) {
		return validationf("unknown appearance %q", in.Appearance)
	}
	if !models.ValidPhotoRef(in.PhotoRef) {
		return validationf("photo %q must be one of %s", in.PhotoRef, strings.Join(models.PhotoExtensions, ", "))
	}

	return nil
}

// Parents is the mother and father recorded for a subject. Either may be nil.
type Parents struct {
	Mother *uuid.UUID
	Father *uuid.UUID
}

// CreateIndividual registers a new individual under the tenant.
func (s *Service) CreateIndividual(ctx context.Context, tenantID uuid.UUID, in IndividualInput) (*models.Individual, error) {
	var created *models.Individual
	err := s.store.InTx(ctx, func(q store.PedigreeQueries) error {
		var err error
		created, err = s.createIndividual(ctx, q, tenantID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createIndividual validates and inserts an individual through q.
func (s *Service) createIndividual(ctx context.Context, q store.PedigreeQueries, tenantID uuid.UUID, in IndividualInput) (*models.Individual, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.normalize()

	ind := &models.Individual{
		TenantID:      tenantID,
		Tag:           in.Tag,
		SecondaryTag:  in.SecondaryTag,
		Name:          in.Name,
		Breed:         in.Breed,
		Color:         in.Color,
		Appearance:    in.Appearance,
		FightRecord:   in.FightRecord,
		PhotoRef:      in.PhotoRef,
		SyntheticCode: in.SyntheticCode,
	}

	if err := s.insert(ctx, q, ind); err != nil {
		return nil, err
	}
	return ind, nil
}

// insert assigns identity and timestamps and writes the individual.
func (s *Service) insert(ctx context.Context, q store.PedigreeQueries, ind *models.Individual) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate individual id: %w", err)
	}
	ind.IndividualID = id

	if ind.SyntheticCode == "" {
		code, err := newSyntheticCode()
		if err != nil {
			return err
		}
		ind.SyntheticCode = code
	}

	now := time.Now().UTC()
	ind.CreatedAt = now
	ind.UpdatedAt = now

	if err := q.CreateIndividual(ctx, ind); err != nil {
		return translate(err)
	}

	s.metrics.IndividualsCreatedTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("placeholder", ind.Placeholder)))

	return nil
}

// GetIndividual returns an individual owned by the tenant.
func (s *Service) GetIndividual(ctx context.Context, tenantID, individualID uuid.UUID) (*models.Individual, error) {
	return owned(ctx, s.store, tenantID, individualID)
}

// ListIndividuals returns the tenant's individuals ordered by tag, optionally
// filtered by a case-insensitive query over tag, secondary tag, name and
// synthetic code.
func (s *Service) ListIndividuals(ctx context.Context, tenantID uuid.UUID, query string) ([]*models.Individual, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	individuals, err := s.store.ListIndividuals(ctx, tenantID, strings.TrimSpace(query))
	if err != nil {
		return nil, translate(err)
	}
	return individuals, nil
}

// UpdateIndividual replaces the editable attributes of an individual: tag,
// secondary tag, name, breed, color, appearance, fight record and photo.
// Ownership and synthetic code never change.
func (s *Service) UpdateIndividual(ctx context.Context, tenantID, individualID uuid.UUID, in IndividualInput) (*models.Individual, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.normalize()

	var updated *models.Individual
	err := s.store.InTx(ctx, func(q store.PedigreeQueries) error {
		ind, err := owned(ctx, q, tenantID, individualID)
		if err != nil {
			return err
		}

		ind.Tag = in.Tag
		ind.SecondaryTag = in.SecondaryTag
		ind.Name = in.Name
		ind.Breed = in.Breed
		ind.Color = in.Color
		ind.Appearance = in.Appearance
		ind.FightRecord = in.FightRecord
		ind.PhotoRef = in.PhotoRef

		if err := q.UpdateIndividual(ctx, ind); err != nil {
			return translate(err)
		}
		updated = ind
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteIndividual removes an individual together with every parentage row
// naming it as subject, mother or father, and every cross it takes part in.
// Other individuals are never deleted.
func (s *Service) DeleteIndividual(ctx context.Context, tenantID, individualID uuid.UUID) error {
	err := s.store.InTx(ctx, func(q store.PedigreeQueries) error {
		if _, err := owned(ctx, q, tenantID, individualID); err != nil {
			return err
		}
		return translate(q.DeleteIndividual(ctx, individualID))
	})
	if err != nil {
		return err
	}

	s.metrics.IndividualsDeletedTotal.Add(ctx, 1)

	log.Debug().
		Str("tenant_id", tenantID.String()).
		Str("individual_id", individualID.String()).
		Msg("Individual deleted")

	return nil
}

// SetParent records parentID as the subject's mother or father, creating the
// parentage row if needed and leaving the other role untouched.
//
// The edge is rejected when parentID is the subject itself or when the
// subject already appears among parentID's ancestors within the resolver's
// depth.
func (s *Service) SetParent(ctx context.Context, tenantID, subjectID uuid.UUID, role models.ParentRole, parentID uuid.UUID) error {
	if !role.Valid() {
		return validationf("unknown parent role %q", role)
	}
	if subjectID == parentID {
		return validationf("an individual cannot be its own %s", role)
	}

	return s.store.InTx(ctx, func(q store.PedigreeQueries) error {
		if _, err := owned(ctx, q, tenantID, subjectID); err != nil {
			return err
		}
		if _, err := owned(ctx, q, tenantID, parentID); err != nil {
			return err
		}

		cycle, err := isAncestor(ctx, q, tenantID, subjectID, parentID)
		if err != nil {
			return err
		}
		if cycle {
			return validationf("%s %s is a descendant of %s", role, parentID, subjectID)
		}

		return s.link(ctx, q, tenantID, subjectID, role, parentID)
	})
}

// link writes one parent role and counts it.
func (s *Service) link(ctx context.Context, q store.PedigreeQueries, tenantID, subjectID uuid.UUID, role models.ParentRole, parentID uuid.UUID) error {
	if err := q.SetParent(ctx, tenantID, subjectID, role, parentID); err != nil {
		return translate(err)
	}

	s.metrics.ParentLinksSetTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("role", string(role))))

	return nil
}

// GetParents returns the subject's mother and father. A subject without a
// parentage row yields two nil references, not an error.
func (s *Service) GetParents(ctx context.Context, tenantID, subjectID uuid.UUID) (Parents, error) {
	if _, err := owned(ctx, s.store, tenantID, subjectID); err != nil {
		return Parents{}, err
	}

	p, err := s.store.GetParentage(ctx, subjectID)
	if err != nil {
		return Parents{}, translate(err)
	}

	return Parents{
		Mother: p.Parent(models.RoleMother),
		Father: p.Parent(models.RoleFather),
	}, nil
}

func requireTenant(tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return fmt.Errorf("%w: no active tenant", ErrUnauthorized)
	}
	return nil
}

// owned loads an individual and checks that the tenant owns it.
func owned(ctx context.Context, q store.PedigreeQueries, tenantID, individualID uuid.UUID) (*models.Individual, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	ind, err := q.GetIndividual(ctx, individualID)
	if err != nil {
		if errors.Is(err, store.ErrIndividualNotFound) {
			return nil, fmt.Errorf("%w: individual %s", ErrNotFound, individualID)
		}
		return nil, translate(err)
	}

	if ind.TenantID != tenantID {
		return nil, fmt.Errorf("%w: individual %s belongs to another tenant", ErrUnauthorized, individualID)
	}

	return ind, nil
}

// newSyntheticCode returns "TR-" followed by 8 random bytes in base58.
func newSyntheticCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate synthetic code: %w", err)
	}
	return syntheticCodePrefix + base58.Encode(buf), nil
}
