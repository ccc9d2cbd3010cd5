package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/traba/internal/models"
)

// Sentinel errors for pedigree store operations
var (
	ErrIndividualNotFound      = errors.New("individual not found")
	ErrIndividualAlreadyExists = errors.New("individual already exists")
	ErrInvalidReference        = errors.New("referenced record does not exist")
	ErrCrossAlreadyExists      = errors.New("cross already exists")
)

// PedigreeQueries are the individual, parentage and cross operations shared
// by a store and a transaction opened on it.
//
// Lookups by ID are not tenant scoped so that callers can tell a missing
// record apart from one owned by another tenant. Listings are tenant scoped.
type PedigreeQueries interface {
	// CreateIndividual inserts a new individual.
	// Returns ErrIndividualAlreadyExists if the ID or synthetic code is taken.
	CreateIndividual(ctx context.Context, ind *models.Individual) error

	// GetIndividual retrieves an individual by ID.
	// Returns ErrIndividualNotFound if the individual doesn't exist.
	GetIndividual(ctx context.Context, individualID uuid.UUID) (*models.Individual, error)

	// UpdateIndividual overwrites the mutable attributes of an individual.
	// Returns ErrIndividualNotFound if the individual doesn't exist.
	UpdateIndividual(ctx context.Context, ind *models.Individual) error

	// DeleteIndividual removes an individual along with every parentage row
	// naming it as subject, mother or father and every cross it takes part in.
	// Returns ErrIndividualNotFound if the individual doesn't exist.
	DeleteIndividual(ctx context.Context, individualID uuid.UUID) error

	// ListIndividuals returns the tenant's individuals ordered by tag.
	// A non-empty query filters case-insensitively on tag, secondary tag,
	// name and synthetic code.
	ListIndividuals(ctx context.Context, tenantID uuid.UUID, query string) ([]*models.Individual, error)

	// GetParentage returns the parentage row of a subject, or nil when the
	// subject has none.
	GetParentage(ctx context.Context, subjectID uuid.UUID) (*models.Parentage, error)

	// SetParent creates the subject's parentage row if needed and overwrites
	// only the given role.
	SetParent(ctx context.Context, tenantID, subjectID uuid.UUID, role models.ParentRole, parentID uuid.UUID) error

	// ListChildren returns the tenant's individuals whose parentage names
	// parentID as mother or father, ordered by tag.
	ListChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]*models.Individual, error)

	// CreateCross inserts a cross record.
	CreateCross(ctx context.Context, cross *models.Cross) error

	// ListCrosses returns the tenant's crosses newest first, optionally
	// restricted to a single generation.
	ListCrosses(ctx context.Context, tenantID uuid.UUID, generation *int) ([]*models.Cross, error)
}

// PedigreeStore is a PedigreeQueries that can also run a group of queries
// atomically.
type PedigreeStore interface {
	PedigreeQueries

	// InTx runs fn in a single transaction. Every change made through q is
	// discarded when fn returns an error.
	InTx(ctx context.Context, fn func(q PedigreeQueries) error) error
}
