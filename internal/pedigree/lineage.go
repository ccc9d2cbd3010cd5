package pedigree

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
)

// LineageInput registers an individual together with any known ancestors.
// Nil ancestors are skipped.
type LineageInput struct {
	Subject IndividualInput

	Mother              *IndividualInput
	Father              *IndividualInput
	MaternalGrandmother *IndividualInput
	MaternalGrandfather *IndividualInput
	PaternalGrandmother *IndividualInput
	PaternalGrandfather *IndividualInput
}

// ancestors returns the supplied ancestors, parents before grandparents so
// that grandparents attach to a registered parent rather than a placeholder.
func (in LineageInput) ancestors() []lineageAncestor {
	all := []lineageAncestor{
		{RoleMother, in.Mother},
		{RoleFather, in.Father},
		{RoleMaternalGrandmother, in.MaternalGrandmother},
		{RoleMaternalGrandfather, in.MaternalGrandfather},
		{RolePaternalGrandmother, in.PaternalGrandmother},
		{RolePaternalGrandfather, in.PaternalGrandfather},
	}

	var supplied []lineageAncestor
	for _, a := range all {
		if a.input != nil {
			supplied = append(supplied, a)
		}
	}
	return supplied
}

type lineageAncestor struct {
	role  Role
	input *IndividualInput
}

// LineageResult lists everything RegisterLineage created.
type LineageResult struct {
	Subject      *models.Individual
	Ancestors    map[Role]*models.Individual
	Placeholders []*models.Individual
}

// RegisterLineage creates the subject and each supplied ancestor in a single
// transaction. Any invalid ancestor aborts the whole registration.
func (s *Service) RegisterLineage(ctx context.Context, tenantID uuid.UUID, in LineageInput) (*LineageResult, error) {
	if err := in.Subject.Validate(); err != nil {
		return nil, err
	}
	for _, a := range in.ancestors() {
		if err := a.input.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", a.role, err)
		}
	}

	result := &LineageResult{Ancestors: make(map[Role]*models.Individual)}
	err := s.store.InTx(ctx, func(q store.PedigreeQueries) error {
		subject, err := s.createIndividual(ctx, q, tenantID, in.Subject)
		if err != nil {
			return err
		}
		result.Subject = subject

		for _, a := range in.ancestors() {
			attached, err := s.attachProgenitor(ctx, q, subject, *a.input, a.role)
			if err != nil {
				return err
			}
			result.Ancestors[a.role] = attached.Individual
			if attached.Placeholder != nil {
				result.Placeholders = append(result.Placeholders, attached.Placeholder)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("tenant_id", tenantID.String()).
		Str("individual_id", result.Subject.IndividualID.String()).
		Int("ancestors", len(result.Ancestors)).
		Int("placeholders", len(result.Placeholders)).
		Msg("Lineage registered")

	return result, nil
}
