package pedigree

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ProgenitorResult describes the records written by RegisterProgenitor.
type ProgenitorResult struct {
	// Individual is the newly registered ancestor.
	Individual *models.Individual

	// Placeholder is the intermediate parent synthesized to carry a
	// grandparent, or nil when the intermediate already existed.
	Placeholder *models.Individual

	// AttachedTo is the individual whose parentage now names Individual.
	AttachedTo uuid.UUID
}

// RegisterProgenitor creates a new individual from in and attaches it to the
// target in the given role.
//
// Parent roles overwrite the target's mother or father; the previous parent
// stays registered. Grandparent roles attach to the target's mother or
// father, first synthesizing a placeholder parent when that side is empty.
// Everything is written in one transaction.
func (s *Service) RegisterProgenitor(ctx context.Context, tenantID, targetID uuid.UUID, in IndividualInput, role Role) (*ProgenitorResult, error) {
	if _, _, depth := role.Path(); depth == 0 {
		return nil, validationf("unknown role %q", role)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var result *ProgenitorResult
	err := s.store.InTx(ctx, func(q store.PedigreeQueries) error {
		target, err := owned(ctx, q, tenantID, targetID)
		if err != nil {
			return err
		}

		result, err = s.attachProgenitor(ctx, q, target, in, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ProgenitorsRegisteredTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("role", string(role))))

	log.Debug().
		Str("tenant_id", tenantID.String()).
		Str("target_id", targetID.String()).
		Str("role", string(role)).
		Str("individual_id", result.Individual.IndividualID.String()).
		Bool("placeholder", result.Placeholder != nil).
		Msg("Progenitor registered")

	return result, nil
}

// attachProgenitor is the transactional body shared by RegisterProgenitor and
// RegisterLineage. The target must already be ownership checked.
func (s *Service) attachProgenitor(ctx context.Context, q store.PedigreeQueries, target *models.Individual, in IndividualInput, role Role) (*ProgenitorResult, error) {
	side, slot, depth := role.Path()

	created, err := s.createIndividual(ctx, q, target.TenantID, in)
	if err != nil {
		return nil, err
	}

	result := &ProgenitorResult{Individual: created}

	if depth == 1 {
		if err := s.link(ctx, q, target.TenantID, target.IndividualID, side, created.IndividualID); err != nil {
			return nil, err
		}
		result.AttachedTo = target.IndividualID
		return result, nil
	}

	intermediate, placeholder, err := s.findOrCreateParent(ctx, q, target, side)
	if err != nil {
		return nil, err
	}
	result.Placeholder = placeholder

	if err := s.link(ctx, q, target.TenantID, intermediate.IndividualID, slot, created.IndividualID); err != nil {
		return nil, err
	}
	result.AttachedTo = intermediate.IndividualID

	return result, nil
}

// findOrCreateParent returns the target's parent on the given side. When the
// side is empty a placeholder is synthesized, linked to the target and also
// returned as the second value.
func (s *Service) findOrCreateParent(ctx context.Context, q store.PedigreeQueries, target *models.Individual, side models.ParentRole) (parent, placeholder *models.Individual, err error) {
	p, err := q.GetParentage(ctx, target.IndividualID)
	if err != nil {
		return nil, nil, translate(err)
	}

	parent, err = resolve(ctx, q, target.TenantID, p.Parent(side))
	if err != nil {
		return nil, nil, err
	}
	if parent != nil {
		return parent, nil, nil
	}

	placeholder = &models.Individual{
		TenantID:    target.TenantID,
		Tag:         target.Tag + placeholderSuffix(side),
		Breed:       models.UnknownBreed,
		Color:       models.UnknownColor,
		Placeholder: true,
	}
	if err := s.insert(ctx, q, placeholder); err != nil {
		return nil, nil, err
	}
	if err := s.link(ctx, q, target.TenantID, target.IndividualID, side, placeholder.IndividualID); err != nil {
		return nil, nil, err
	}

	s.metrics.PlaceholdersSynthesizedTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("side", string(side))))

	return placeholder, placeholder, nil
}
