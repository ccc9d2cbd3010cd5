package pedigree

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CrossInput carries the caller supplied fields of a cross. The percentage
// is not among them; it always comes from the generation.
type CrossInput struct {
	Type          string
	Individual1ID uuid.UUID
	Individual2ID uuid.UUID
	Generation    int
	Notes         string
	PhotoRef      string
}

// Validate checks the generation range, the photo reference and that the
// pairing names two distinct individuals.
func (in CrossInput) Validate() error {
	if _, ok := models.ConsanguinityPercentage(in.Generation); !ok {
		return validationf("generation %d must be between %d and %d",
			in.Generation, models.MinGeneration, models.MaxGeneration)
	}
	if in.Individual1ID == uuid.Nil || in.Individual2ID == uuid.Nil {
		return validationf("both individuals are required")
	}
	if in.Individual1ID == in.Individual2ID {
		return validationf("a cross needs two different individuals")
	}
	if !models.ValidPhotoRef(strings.TrimSpace(in.PhotoRef)) {
		return validationf("photo %q must be one of %s", in.PhotoRef, strings.Join(models.PhotoExtensions, ", "))
	}
	return nil
}

// RegisterCross records a pairing between two of the tenant's individuals
// with the percentage looked up from the declared generation.
func (s *Service) RegisterCross(ctx context.Context, tenantID uuid.UUID, in CrossInput) (*models.Cross, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	percentage, _ := models.ConsanguinityPercentage(in.Generation)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cross id: %w", err)
	}

	cross := &models.Cross{
		CrossID:       id,
		TenantID:      tenantID,
		Type:          strings.TrimSpace(in.Type),
		Individual1ID: in.Individual1ID,
		Individual2ID: in.Individual2ID,
		Generation:    in.Generation,
		Percentage:    percentage,
		Notes:         strings.TrimSpace(in.Notes),
		PhotoRef:      strings.TrimSpace(in.PhotoRef),
		CreatedAt:     time.Now().UTC(),
	}

	err = s.store.InTx(ctx, func(q store.PedigreeQueries) error {
		if _, err := owned(ctx, q, tenantID, in.Individual1ID); err != nil {
			return err
		}
		if _, err := owned(ctx, q, tenantID, in.Individual2ID); err != nil {
			return err
		}
		return translate(q.CreateCross(ctx, cross))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CrossesRegisteredTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.Int("generation", cross.Generation)))

	log.Debug().
		Str("tenant_id", tenantID.String()).
		Str("cross_id", cross.CrossID.String()).
		Int("generation", cross.Generation).
		Float64("percentage", cross.Percentage).
		Msg("Cross registered")

	return cross, nil
}

// ListCrosses returns the tenant's crosses newest first. A non-nil generation
// restricts the result to that generation.
func (s *Service) ListCrosses(ctx context.Context, tenantID uuid.UUID, generation *int) ([]*models.Cross, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if generation != nil {
		if _, ok := models.ConsanguinityPercentage(*generation); !ok {
			return nil, validationf("generation %d must be between %d and %d",
				*generation, models.MinGeneration, models.MaxGeneration)
		}
	}

	crosses, err := s.store.ListCrosses(ctx, tenantID, generation)
	if err != nil {
		return nil, translate(err)
	}
	return crosses, nil
}
