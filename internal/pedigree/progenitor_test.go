package pedigree

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
	"github.com/wolfeidau/traba/internal/store/memory"
)

func TestRegisterProgenitor_GrandparentSynthesizesParent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	target := mustCreate(t, svc, tenant, "K-100")

	in := IndividualInput{
		Tag:          "ABUELA",
		SecondaryTag: "R-9",
		Name:         "La Vieja",
		Breed:        "Shamo",
		Color:        "Black",
		Appearance:   "Moton",
		FightRecord:  "3-0",
		PhotoRef:     "abuela.png",
	}

	res, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, in, RoleMaternalGrandmother)
	require.NoError(t, err)
	require.NotNil(t, res.Placeholder)

	placeholder := res.Placeholder
	require.True(t, placeholder.Placeholder)
	require.Equal(t, "K-100-M?", placeholder.Tag)
	require.Equal(t, models.UnknownBreed, placeholder.Breed)
	require.Equal(t, models.UnknownColor, placeholder.Color)
	require.Empty(t, placeholder.Appearance)
	require.Equal(t, tenant, placeholder.TenantID)
	require.Equal(t, placeholder.IndividualID, res.AttachedTo)

	tree, err := svc.BuildTree(ctx, tenant, target.IndividualID)
	require.NoError(t, err)
	require.Equal(t, placeholder.IndividualID, tree.Mother.IndividualID)
	require.Equal(t, res.Individual.IndividualID, tree.MaternalGrandmother.IndividualID)
	require.Nil(t, tree.Father)

	grandmother := tree.MaternalGrandmother
	require.Equal(t, in.Tag, grandmother.Tag)
	require.Equal(t, in.SecondaryTag, grandmother.SecondaryTag)
	require.Equal(t, in.Name, grandmother.Name)
	require.Equal(t, in.Breed, grandmother.Breed)
	require.Equal(t, in.Color, grandmother.Color)
	require.Equal(t, in.Appearance, grandmother.Appearance)
	require.Equal(t, in.FightRecord, grandmother.FightRecord)
	require.Equal(t, in.PhotoRef, grandmother.PhotoRef)
	require.False(t, grandmother.Placeholder)
}

func TestRegisterProgenitor_PaternalPlaceholderTag(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	target := mustCreate(t, svc, tenant, "K-7")

	res, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, attrs("PGF"), RolePaternalGrandfather)
	require.NoError(t, err)
	require.Equal(t, "K-7-P?", res.Placeholder.Tag)

	// A second grandparent on the same side reuses the placeholder.
	res2, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, attrs("PGM"), RolePaternalGrandmother)
	require.NoError(t, err)
	require.Nil(t, res2.Placeholder)
	require.Equal(t, res.Placeholder.IndividualID, res2.AttachedTo)

	tree, err := svc.BuildTree(ctx, tenant, target.IndividualID)
	require.NoError(t, err)
	require.Equal(t, "PGF", tree.PaternalGrandfather.Tag)
	require.Equal(t, "PGM", tree.PaternalGrandmother.Tag)
}

func TestRegisterProgenitor_GrandparentUsesExistingParent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	target := mustCreate(t, svc, tenant, "T")
	father := mustCreate(t, svc, tenant, "F")
	require.NoError(t, svc.SetParent(ctx, tenant, target.IndividualID, models.RoleFather, father.IndividualID))

	res, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, attrs("PGM"), RolePaternalGrandmother)
	require.NoError(t, err)
	require.Nil(t, res.Placeholder)
	require.Equal(t, father.IndividualID, res.AttachedTo)

	parents, err := svc.GetParents(ctx, tenant, father.IndividualID)
	require.NoError(t, err)
	require.Equal(t, res.Individual.IndividualID, *parents.Mother)
	require.Nil(t, parents.Father)
}

func TestRegisterProgenitor_ParentOverwrite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	target := mustCreate(t, svc, tenant, "T")

	first, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, attrs("OLD"), RoleFather)
	require.NoError(t, err)
	mother, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, attrs("M"), RoleMother)
	require.NoError(t, err)

	second, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, attrs("NEW"), RoleFather)
	require.NoError(t, err)

	parents, err := svc.GetParents(ctx, tenant, target.IndividualID)
	require.NoError(t, err)
	require.Equal(t, second.Individual.IndividualID, *parents.Father)
	require.Equal(t, mother.Individual.IndividualID, *parents.Mother)

	old, err := svc.GetIndividual(ctx, tenant, first.Individual.IndividualID)
	require.NoError(t, err)
	require.Equal(t, "OLD", old.Tag)
}

func TestRegisterProgenitor_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	target := mustCreate(t, svc, tenant, "T")

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, attrs("X"), Role("greatGrandmother"))
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing attributes", func(t *testing.T) {
		_, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, IndividualInput{Tag: "X"}, RoleMother)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("target owned by another tenant", func(t *testing.T) {
		_, err := svc.RegisterProgenitor(ctx, newTenant(), target.IndividualID, attrs("X"), RoleMother)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := svc.RegisterProgenitor(ctx, tenant, uuid.Must(uuid.NewV7()), attrs("X"), RoleMother)
		require.ErrorIs(t, err, ErrNotFound)
	})

	list, err := svc.ListIndividuals(ctx, tenant, "")
	require.NoError(t, err)
	require.Len(t, list, 1, "failed registrations must not leave records behind")
}

func TestRegisterProgenitor_Atomic(t *testing.T) {
	ctx := context.Background()
	st := memory.NewPedigreeStore()
	seed := NewService(st)
	tenant := newTenant()
	target := mustCreate(t, seed, tenant, "T")

	boom := errors.New("parentage write failed")
	svc := NewService(&failingStore{PedigreeStore: st, failLinksAfter: 1, err: boom})

	// The placeholder link succeeds, attaching the grandmother fails.
	_, err := svc.RegisterProgenitor(ctx, tenant, target.IndividualID, attrs("MGM"), RoleMaternalGrandmother)
	require.ErrorIs(t, err, boom)

	list, err := seed.ListIndividuals(ctx, tenant, "")
	require.NoError(t, err)
	require.Len(t, list, 1)

	parents, err := seed.GetParents(ctx, tenant, target.IndividualID)
	require.NoError(t, err)
	require.Nil(t, parents.Mother)
}

// failingStore lets a fixed number of SetParent calls through inside a
// transaction and then fails.
type failingStore struct {
	*memory.PedigreeStore
	failLinksAfter int
	err            error
}

func (f *failingStore) InTx(ctx context.Context, fn func(q store.PedigreeQueries) error) error {
	return f.PedigreeStore.InTx(ctx, func(q store.PedigreeQueries) error {
		return fn(&failingQueries{PedigreeQueries: q, remaining: f.failLinksAfter, err: f.err})
	})
}

type failingQueries struct {
	store.PedigreeQueries
	remaining int
	err       error
}

func (f *failingQueries) SetParent(ctx context.Context, tenantID, subjectID uuid.UUID, role models.ParentRole, parentID uuid.UUID) error {
	if f.remaining == 0 {
		return f.err
	}
	f.remaining--
	return f.PedigreeQueries.SetParent(ctx, tenantID, subjectID, role, parentID)
}
