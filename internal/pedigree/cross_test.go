package pedigree

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegisterCross_PercentageTable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	a := mustCreate(t, svc, tenant, "A")
	c := mustCreate(t, svc, tenant, "C")

	expected := map[int]float64{1: 25, 2: 37.5, 3: 50, 4: 62.5, 5: 75, 6: 87.5}
	for gen, pct := range expected {
		cross, err := svc.RegisterCross(ctx, tenant, CrossInput{
			Type:          "full-sibling",
			Individual1ID: a.IndividualID,
			Individual2ID: c.IndividualID,
			Generation:    gen,
		})
		require.NoError(t, err)
		require.Equal(t, pct, cross.Percentage, "generation %d", gen)
	}

	all, err := svc.ListCrosses(ctx, tenant, nil)
	require.NoError(t, err)
	require.Len(t, all, 6)
	for _, cross := range all {
		require.Equal(t, expected[cross.Generation], cross.Percentage)
	}
}

func TestRegisterCross_FullSiblingScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	a := mustCreate(t, svc, tenant, "A")
	c := mustCreate(t, svc, tenant, "C")

	cross, err := svc.RegisterCross(ctx, tenant, CrossInput{
		Type:          "full-sibling",
		Individual1ID: a.IndividualID,
		Individual2ID: c.IndividualID,
		Generation:    3,
		Notes:         "spring pairing",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, cross.CrossID)
	require.Equal(t, 50.0, cross.Percentage)
	require.Equal(t, "full-sibling", cross.Type)
}

func TestRegisterCross_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	a := mustCreate(t, svc, tenant, "A")
	c := mustCreate(t, svc, tenant, "C")
	foreign := mustCreate(t, svc, newTenant(), "Z")

	tests := []struct {
		name    string
		in      CrossInput
		wantErr error
	}{
		{"generation 0", CrossInput{Individual1ID: a.IndividualID, Individual2ID: c.IndividualID, Generation: 0}, ErrValidation},
		{"generation 7", CrossInput{Individual1ID: a.IndividualID, Individual2ID: c.IndividualID, Generation: 7}, ErrValidation},
		{"self pairing", CrossInput{Individual1ID: a.IndividualID, Individual2ID: a.IndividualID, Generation: 1}, ErrValidation},
		{"bad photo", CrossInput{Individual1ID: a.IndividualID, Individual2ID: c.IndividualID, Generation: 1, PhotoRef: "x.tiff"}, ErrValidation},
		{"foreign participant", CrossInput{Individual1ID: a.IndividualID, Individual2ID: foreign.IndividualID, Generation: 1}, ErrUnauthorized},
		{"missing participant", CrossInput{Individual1ID: a.IndividualID, Individual2ID: uuid.Must(uuid.NewV7()), Generation: 1}, ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterCross(ctx, tenant, tc.in)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	all, err := svc.ListCrosses(ctx, tenant, nil)
	require.NoError(t, err)
	require.Empty(t, all, "rejected crosses must not be stored")
}

func TestListCrosses(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tenant := newTenant()
	a := mustCreate(t, svc, tenant, "A")
	c := mustCreate(t, svc, tenant, "C")

	for _, gen := range []int{2, 4, 4} {
		_, err := svc.RegisterCross(ctx, tenant, CrossInput{
			Type:          "line",
			Individual1ID: a.IndividualID,
			Individual2ID: c.IndividualID,
			Generation:    gen,
		})
		require.NoError(t, err)
	}

	all, err := svc.ListCrosses(ctx, tenant, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, 4, all[0].Generation, "newest first")
	require.Equal(t, 2, all[2].Generation)

	gen := 4
	fours, err := svc.ListCrosses(ctx, tenant, &gen)
	require.NoError(t, err)
	require.Len(t, fours, 2)

	bad := 9
	_, err = svc.ListCrosses(ctx, tenant, &bad)
	require.ErrorIs(t, err, ErrValidation)

	other, err := svc.ListCrosses(ctx, newTenant(), nil)
	require.NoError(t, err)
	require.Empty(t, other)
}
