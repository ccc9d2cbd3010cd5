package pedigree

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
)

// maxDepth bounds every ancestry walk: self, parents and grandparents.
const maxDepth = 3

// Tree is the three generation ancestry view of an individual. Self is
// always set; any other slot may be nil.
type Tree struct {
	Self *models.Individual

	Mother *models.Individual
	Father *models.Individual

	MaternalGrandmother *models.Individual
	MaternalGrandfather *models.Individual
	PaternalGrandmother *models.Individual
	PaternalGrandfather *models.Individual
}

// BuildTree resolves self, both parents and all four grandparents.
//
// Self must exist and be owned by the tenant. Any other slot whose reference
// is unset, dangling or owned by another tenant is left nil. Ancestors beyond
// the grandparents are never read.
func (s *Service) BuildTree(ctx context.Context, tenantID, individualID uuid.UUID) (*Tree, error) {
	start := time.Now()

	self, err := owned(ctx, s.store, tenantID, individualID)
	if err != nil {
		return nil, err
	}

	tree := &Tree{Self: self}

	mother, father, err := parentsOf(ctx, s.store, tenantID, self.IndividualID)
	if err != nil {
		return nil, err
	}
	tree.Mother, tree.Father = mother, father

	if mother != nil {
		tree.MaternalGrandmother, tree.MaternalGrandfather, err = parentsOf(ctx, s.store, tenantID, mother.IndividualID)
		if err != nil {
			return nil, err
		}
	}

	if father != nil {
		tree.PaternalGrandmother, tree.PaternalGrandfather, err = parentsOf(ctx, s.store, tenantID, father.IndividualID)
		if err != nil {
			return nil, err
		}
	}

	s.metrics.TreesBuiltTotal.Add(ctx, 1)
	s.metrics.TreeBuildDuration.Record(ctx, float64(time.Since(start).Milliseconds()))

	return tree, nil
}

// FindChildren returns every individual of the tenant whose parentage names
// individualID as mother or father. No children is an empty list.
func (s *Service) FindChildren(ctx context.Context, tenantID, individualID uuid.UUID) ([]models.IndividualSummary, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	children, err := s.store.ListChildren(ctx, tenantID, individualID)
	if err != nil {
		return nil, translate(err)
	}

	result := make([]models.IndividualSummary, 0, len(children))
	for _, child := range children {
		result = append(result, child.Summary())
	}
	return result, nil
}

// parentsOf returns the resolvable mother and father of a subject.
func parentsOf(ctx context.Context, q store.PedigreeQueries, tenantID, subjectID uuid.UUID) (mother, father *models.Individual, err error) {
	p, err := q.GetParentage(ctx, subjectID)
	if err != nil {
		return nil, nil, translate(err)
	}

	mother, err = resolve(ctx, q, tenantID, p.Parent(models.RoleMother))
	if err != nil {
		return nil, nil, err
	}

	father, err = resolve(ctx, q, tenantID, p.Parent(models.RoleFather))
	if err != nil {
		return nil, nil, err
	}

	return mother, father, nil
}

// resolve loads a referenced ancestor. Unset, dangling and foreign
// references resolve to nil.
func resolve(ctx context.Context, q store.PedigreeQueries, tenantID uuid.UUID, id *uuid.UUID) (*models.Individual, error) {
	if id == nil {
		return nil, nil
	}

	ind, err := q.GetIndividual(ctx, *id)
	if err != nil {
		if errors.Is(err, store.ErrIndividualNotFound) {
			return nil, nil
		}
		return nil, translate(err)
	}

	if ind.TenantID != tenantID {
		return nil, nil
	}

	return ind, nil
}

// isAncestor reports whether candidate appears among the ancestors of start
// within maxDepth generations.
func isAncestor(ctx context.Context, q store.PedigreeQueries, tenantID, candidate, start uuid.UUID) (bool, error) {
	frontier := []uuid.UUID{start}
	seen := map[uuid.UUID]bool{start: true}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []uuid.UUID
		for _, id := range frontier {
			p, err := q.GetParentage(ctx, id)
			if err != nil {
				return false, translate(err)
			}
			if p == nil || p.TenantID != tenantID {
				continue
			}
			for _, parent := range []*uuid.UUID{p.MotherID, p.FatherID} {
				if parent == nil {
					continue
				}
				if *parent == candidate {
					return true, nil
				}
				if !seen[*parent] {
					seen[*parent] = true
					next = append(next, *parent)
				}
			}
		}
		frontier = next
	}

	return false, nil
}
