package memory

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
)

var (
	_ store.PedigreeStore   = (*PedigreeStore)(nil)
	_ store.PedigreeQueries = (*pedigreeState)(nil)
)

// PedigreeStore implements store.PedigreeStore using in-memory storage.
//
// Transactions work on a copy of the state and swap it in on success, so a
// failed transaction leaves no trace. Stored records are never mutated in
// place, which keeps the copy shallow.
type PedigreeStore struct {
	mu    sync.RWMutex
	state *pedigreeState
}

// NewPedigreeStore creates a new in-memory pedigree store.
func NewPedigreeStore() *PedigreeStore {
	return &PedigreeStore{state: newPedigreeState()}
}

// InTx runs fn against a private copy of the store and commits it only if fn
// succeeds. fn must use q rather than the store itself.
func (s *PedigreeStore) InTx(ctx context.Context, fn func(q store.PedigreeQueries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(work); err != nil {
		return err
	}

	s.state = work
	return nil
}

func (s *PedigreeStore) CreateIndividual(ctx context.Context, ind *models.Individual) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateIndividual(ctx, ind)
}

func (s *PedigreeStore) GetIndividual(ctx context.Context, individualID uuid.UUID) (*models.Individual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetIndividual(ctx, individualID)
}

func (s *PedigreeStore) UpdateIndividual(ctx context.Context, ind *models.Individual) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateIndividual(ctx, ind)
}

func (s *PedigreeStore) DeleteIndividual(ctx context.Context, individualID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteIndividual(ctx, individualID)
}

func (s *PedigreeStore) ListIndividuals(ctx context.Context, tenantID uuid.UUID, query string) ([]*models.Individual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListIndividuals(ctx, tenantID, query)
}

func (s *PedigreeStore) GetParentage(ctx context.Context, subjectID uuid.UUID) (*models.Parentage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetParentage(ctx, subjectID)
}

func (s *PedigreeStore) SetParent(ctx context.Context, tenantID, subjectID uuid.UUID, role models.ParentRole, parentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SetParent(ctx, tenantID, subjectID, role, parentID)
}

func (s *PedigreeStore) ListChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]*models.Individual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListChildren(ctx, tenantID, parentID)
}

func (s *PedigreeStore) CreateCross(ctx context.Context, cross *models.Cross) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateCross(ctx, cross)
}

func (s *PedigreeStore) ListCrosses(ctx context.Context, tenantID uuid.UUID, generation *int) ([]*models.Cross, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListCrosses(ctx, tenantID, generation)
}

// pedigreeState holds the records. It does no locking of its own.
type pedigreeState struct {
	individuals map[uuid.UUID]*models.Individual // individual_id -> Individual
	codes       map[string]uuid.UUID             // synthetic_code -> individual_id
	parentage   map[uuid.UUID]*models.Parentage  // subject_id -> Parentage
	crosses     map[uuid.UUID]*models.Cross      // cross_id -> Cross
}

func newPedigreeState() *pedigreeState {
	return &pedigreeState{
		individuals: make(map[uuid.UUID]*models.Individual),
		codes:       make(map[string]uuid.UUID),
		parentage:   make(map[uuid.UUID]*models.Parentage),
		crosses:     make(map[uuid.UUID]*models.Cross),
	}
}

func (st *pedigreeState) clone() *pedigreeState {
	return &pedigreeState{
		individuals: maps.Clone(st.individuals),
		codes:       maps.Clone(st.codes),
		parentage:   maps.Clone(st.parentage),
		crosses:     maps.Clone(st.crosses),
	}
}

func (st *pedigreeState) CreateIndividual(ctx context.Context, ind *models.Individual) error {
	if _, exists := st.individuals[ind.IndividualID]; exists {
		return store.ErrIndividualAlreadyExists
	}
	if _, exists := st.codes[ind.SyntheticCode]; exists {
		return store.ErrIndividualAlreadyExists
	}

	clone := *ind
	st.individuals[ind.IndividualID] = &clone
	st.codes[ind.SyntheticCode] = ind.IndividualID

	log.Debug().
		Str("individual_id", ind.IndividualID.String()).
		Str("tenant_id", ind.TenantID.String()).
		Str("tag", ind.Tag).
		Bool("placeholder", ind.Placeholder).
		Msg("Created individual")

	return nil
}

func (st *pedigreeState) GetIndividual(ctx context.Context, individualID uuid.UUID) (*models.Individual, error) {
	ind, exists := st.individuals[individualID]
	if !exists {
		return nil, store.ErrIndividualNotFound
	}

	clone := *ind
	return &clone, nil
}

func (st *pedigreeState) UpdateIndividual(ctx context.Context, ind *models.Individual) error {
	existing, exists := st.individuals[ind.IndividualID]
	if !exists {
		return store.ErrIndividualNotFound
	}

	// Ownership, identity and creation fields are immutable
	clone := *ind
	clone.TenantID = existing.TenantID
	clone.SyntheticCode = existing.SyntheticCode
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	st.individuals[ind.IndividualID] = &clone
	*ind = clone

	log.Debug().
		Str("individual_id", ind.IndividualID.String()).
		Msg("Updated individual")

	return nil
}

func (st *pedigreeState) DeleteIndividual(ctx context.Context, individualID uuid.UUID) error {
	ind, exists := st.individuals[individualID]
	if !exists {
		return store.ErrIndividualNotFound
	}

	var rows int
	for subjectID, p := range st.parentage {
		if p.References(individualID) {
			delete(st.parentage, subjectID)
			rows++
		}
	}

	var crosses int
	for crossID, c := range st.crosses {
		if c.Individual1ID == individualID || c.Individual2ID == individualID {
			delete(st.crosses, crossID)
			crosses++
		}
	}

	delete(st.codes, ind.SyntheticCode)
	delete(st.individuals, individualID)

	log.Debug().
		Str("individual_id", individualID.String()).
		Int("parentage_rows", rows).
		Int("crosses", crosses).
		Msg("Deleted individual")

	return nil
}

func (st *pedigreeState) ListIndividuals(ctx context.Context, tenantID uuid.UUID, query string) ([]*models.Individual, error) {
	var result []*models.Individual
	for _, ind := range st.individuals {
		if ind.TenantID != tenantID || !ind.Matches(query) {
			continue
		}
		clone := *ind
		result = append(result, &clone)
	}

	sortByTag(result)
	return result, nil
}

func (st *pedigreeState) GetParentage(ctx context.Context, subjectID uuid.UUID) (*models.Parentage, error) {
	p, exists := st.parentage[subjectID]
	if !exists {
		return nil, nil
	}

	clone := *p
	if p.MotherID != nil {
		id := *p.MotherID
		clone.MotherID = &id
	}
	if p.FatherID != nil {
		id := *p.FatherID
		clone.FatherID = &id
	}
	return &clone, nil
}

func (st *pedigreeState) SetParent(ctx context.Context, tenantID, subjectID uuid.UUID, role models.ParentRole, parentID uuid.UUID) error {
	if _, exists := st.individuals[subjectID]; !exists {
		return store.ErrInvalidReference
	}
	if _, exists := st.individuals[parentID]; !exists {
		return store.ErrInvalidReference
	}

	row := models.Parentage{SubjectID: subjectID, TenantID: tenantID}
	if existing, exists := st.parentage[subjectID]; exists {
		row = *existing
	}
	row.SetParent(role, parentID)
	row.UpdatedAt = time.Now()
	st.parentage[subjectID] = &row

	log.Debug().
		Str("subject_id", subjectID.String()).
		Str("role", string(role)).
		Str("parent_id", parentID.String()).
		Msg("Set parent")

	return nil
}

func (st *pedigreeState) ListChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]*models.Individual, error) {
	var result []*models.Individual
	for subjectID, p := range st.parentage {
		if p.TenantID != tenantID || !p.HasParent(parentID) {
			continue
		}
		ind, exists := st.individuals[subjectID]
		if !exists || ind.TenantID != tenantID {
			continue
		}
		clone := *ind
		result = append(result, &clone)
	}

	sortByTag(result)
	return result, nil
}

func (st *pedigreeState) CreateCross(ctx context.Context, cross *models.Cross) error {
	if _, exists := st.crosses[cross.CrossID]; exists {
		return store.ErrCrossAlreadyExists
	}
	for _, id := range []uuid.UUID{cross.Individual1ID, cross.Individual2ID} {
		if _, exists := st.individuals[id]; !exists {
			return store.ErrInvalidReference
		}
	}

	clone := *cross
	st.crosses[cross.CrossID] = &clone

	log.Debug().
		Str("cross_id", cross.CrossID.String()).
		Str("tenant_id", cross.TenantID.String()).
		Int("generation", cross.Generation).
		Msg("Created cross")

	return nil
}

func (st *pedigreeState) ListCrosses(ctx context.Context, tenantID uuid.UUID, generation *int) ([]*models.Cross, error) {
	var result []*models.Cross
	for _, c := range st.crosses {
		if c.TenantID != tenantID {
			continue
		}
		if generation != nil && c.Generation != *generation {
			continue
		}
		clone := *c
		result = append(result, &clone)
	}

	slices.SortFunc(result, func(a, b *models.Cross) int {
		if n := b.CreatedAt.Compare(a.CreatedAt); n != 0 {
			return n
		}
		return bytes.Compare(b.CrossID[:], a.CrossID[:])
	})
	return result, nil
}

func sortByTag(individuals []*models.Individual) {
	slices.SortFunc(individuals, func(a, b *models.Individual) int {
		if n := strings.Compare(a.Tag, b.Tag); n != 0 {
			return n
		}
		return bytes.Compare(a.IndividualID[:], b.IndividualID[:])
	})
}
