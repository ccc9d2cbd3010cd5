package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
)

func newTestIndividual(tenantID uuid.UUID, tag string) *models.Individual {
	id := uuid.Must(uuid.NewV7())
	now := time.Now()
	return &models.Individual{
		IndividualID:  id,
		TenantID:      tenantID,
		Tag:           tag,
		Breed:         "Kelso",
		Color:         "Red",
		Appearance:    "Pava",
		SyntheticCode: "TR-" + id.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestPedigreeStore_Individuals(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("create and get", func(t *testing.T) {
		st := NewPedigreeStore()
		ind := newTestIndividual(tenantID, "A-1")
		require.NoError(t, st.CreateIndividual(ctx, ind))

		got, err := st.GetIndividual(ctx, ind.IndividualID)
		require.NoError(t, err)
		require.Equal(t, "A-1", got.Tag)
		require.Equal(t, tenantID, got.TenantID)
	})

	t.Run("duplicate synthetic code", func(t *testing.T) {
		st := NewPedigreeStore()
		a := newTestIndividual(tenantID, "A-1")
		b := newTestIndividual(tenantID, "A-2")
		b.SyntheticCode = a.SyntheticCode
		require.NoError(t, st.CreateIndividual(ctx, a))
		require.ErrorIs(t, st.CreateIndividual(ctx, b), store.ErrIndividualAlreadyExists)
	})

	t.Run("update keeps immutable fields", func(t *testing.T) {
		st := NewPedigreeStore()
		ind := newTestIndividual(tenantID, "A-1")
		require.NoError(t, st.CreateIndividual(ctx, ind))

		edit := *ind
		edit.Name = "Campeon"
		edit.TenantID = uuid.Must(uuid.NewV7())
		edit.SyntheticCode = "TR-other"
		require.NoError(t, st.UpdateIndividual(ctx, &edit))

		got, err := st.GetIndividual(ctx, ind.IndividualID)
		require.NoError(t, err)
		require.Equal(t, "Campeon", got.Name)
		require.Equal(t, tenantID, got.TenantID)
		require.Equal(t, ind.SyntheticCode, got.SyntheticCode)
	})

	t.Run("list is tenant scoped, filtered and ordered by tag", func(t *testing.T) {
		st := NewPedigreeStore()
		for _, tag := range []string{"C-3", "A-1", "B-2"} {
			require.NoError(t, st.CreateIndividual(ctx, newTestIndividual(tenantID, tag)))
		}
		require.NoError(t, st.CreateIndividual(ctx, newTestIndividual(uuid.Must(uuid.NewV7()), "A-0")))

		all, err := st.ListIndividuals(ctx, tenantID, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, "A-1", all[0].Tag)
		require.Equal(t, "B-2", all[1].Tag)
		require.Equal(t, "C-3", all[2].Tag)

		filtered, err := st.ListIndividuals(ctx, tenantID, "b-")
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		require.Equal(t, "B-2", filtered[0].Tag)
	})

	t.Run("mixed case tags sort by byte order", func(t *testing.T) {
		st := NewPedigreeStore()
		for _, tag := range []string{"a-1", "Z-1", "C-1"} {
			require.NoError(t, st.CreateIndividual(ctx, newTestIndividual(tenantID, tag)))
		}

		all, err := st.ListIndividuals(ctx, tenantID, "")
		require.NoError(t, err)
		require.Equal(t, []string{"C-1", "Z-1", "a-1"}, []string{all[0].Tag, all[1].Tag, all[2].Tag})
	})
}

func TestPedigreeStore_Parentage(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())
	st := NewPedigreeStore()

	child := newTestIndividual(tenantID, "CHILD")
	mother := newTestIndividual(tenantID, "MOM")
	father := newTestIndividual(tenantID, "DAD")
	for _, ind := range []*models.Individual{child, mother, father} {
		require.NoError(t, st.CreateIndividual(ctx, ind))
	}

	t.Run("missing row is nil", func(t *testing.T) {
		p, err := st.GetParentage(ctx, child.IndividualID)
		require.NoError(t, err)
		require.Nil(t, p)
	})

	t.Run("set one role leaves the other", func(t *testing.T) {
		require.NoError(t, st.SetParent(ctx, tenantID, child.IndividualID, models.RoleMother, mother.IndividualID))
		require.NoError(t, st.SetParent(ctx, tenantID, child.IndividualID, models.RoleFather, father.IndividualID))

		p, err := st.GetParentage(ctx, child.IndividualID)
		require.NoError(t, err)
		require.Equal(t, mother.IndividualID, *p.MotherID)
		require.Equal(t, father.IndividualID, *p.FatherID)
	})

	t.Run("returned row does not alias the store", func(t *testing.T) {
		p, err := st.GetParentage(ctx, child.IndividualID)
		require.NoError(t, err)
		*p.MotherID = uuid.Nil
		*p.FatherID = uuid.Nil

		again, err := st.GetParentage(ctx, child.IndividualID)
		require.NoError(t, err)
		require.Equal(t, mother.IndividualID, *again.MotherID)
		require.Equal(t, father.IndividualID, *again.FatherID)
	})

	t.Run("children of a parent", func(t *testing.T) {
		children, err := st.ListChildren(ctx, tenantID, mother.IndividualID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		require.Equal(t, child.IndividualID, children[0].IndividualID)

		none, err := st.ListChildren(ctx, tenantID, child.IndividualID)
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("unknown parent is rejected", func(t *testing.T) {
		err := st.SetParent(ctx, tenantID, child.IndividualID, models.RoleMother, uuid.Must(uuid.NewV7()))
		require.ErrorIs(t, err, store.ErrInvalidReference)
	})

	t.Run("delete cascades parentage and crosses", func(t *testing.T) {
		require.NoError(t, st.CreateCross(ctx, &models.Cross{
			CrossID:       uuid.Must(uuid.NewV7()),
			TenantID:      tenantID,
			Individual1ID: mother.IndividualID,
			Individual2ID: father.IndividualID,
			Generation:    1,
			Percentage:    25,
			CreatedAt:     time.Now(),
		}))

		require.NoError(t, st.DeleteIndividual(ctx, mother.IndividualID))

		p, err := st.GetParentage(ctx, child.IndividualID)
		require.NoError(t, err)
		require.Nil(t, p)

		crosses, err := st.ListCrosses(ctx, tenantID, nil)
		require.NoError(t, err)
		require.Empty(t, crosses)

		require.ErrorIs(t, st.DeleteIndividual(ctx, mother.IndividualID), store.ErrIndividualNotFound)
	})
}

func TestPedigreeStore_InTx(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("commit on success", func(t *testing.T) {
		st := NewPedigreeStore()
		ind := newTestIndividual(tenantID, "A-1")

		err := st.InTx(ctx, func(q store.PedigreeQueries) error {
			return q.CreateIndividual(ctx, ind)
		})
		require.NoError(t, err)

		_, err = st.GetIndividual(ctx, ind.IndividualID)
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		st := NewPedigreeStore()
		ind := newTestIndividual(tenantID, "A-1")
		boom := errors.New("boom")

		err := st.InTx(ctx, func(q store.PedigreeQueries) error {
			if err := q.CreateIndividual(ctx, ind); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = st.GetIndividual(ctx, ind.IndividualID)
		require.ErrorIs(t, err, store.ErrIndividualNotFound)
	})
}

func TestPedigreeStore_ListCrosses(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())
	st := NewPedigreeStore()

	a := newTestIndividual(tenantID, "A")
	b := newTestIndividual(tenantID, "B")
	require.NoError(t, st.CreateIndividual(ctx, a))
	require.NoError(t, st.CreateIndividual(ctx, b))

	base := time.Now()
	for i, gen := range []int{1, 3, 3} {
		require.NoError(t, st.CreateCross(ctx, &models.Cross{
			CrossID:       uuid.Must(uuid.NewV7()),
			TenantID:      tenantID,
			Individual1ID: a.IndividualID,
			Individual2ID: b.IndividualID,
			Generation:    gen,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := st.ListCrosses(ctx, tenantID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	gen := 3
	third, err := st.ListCrosses(ctx, tenantID, &gen)
	require.NoError(t, err)
	require.Len(t, third, 2)

	other, err := st.ListCrosses(ctx, uuid.Must(uuid.NewV7()), nil)
	require.NoError(t, err)
	require.Empty(t, other)
}
