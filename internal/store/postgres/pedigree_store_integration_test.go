//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/pedigree"
	"github.com/wolfeidau/traba/internal/store"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*pgxpool.Pool, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := Open(ctx, &Config{
		Pool:        PoolConfig{ConnString: connString},
		AutoMigrate: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup
}

func createTenant(t *testing.T, ctx context.Context, tenants *TenantStore, name string) *models.Tenant {
	t.Helper()

	now := time.Now().UTC()
	tenant := &models.Tenant{
		TenantID:       uuid.Must(uuid.NewV7()),
		Name:           name,
		CredentialHash: "$2a$10$hash",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, tenants.Create(ctx, tenant))
	return tenant
}

func newIndividual(tenantID uuid.UUID, tag string) *models.Individual {
	now := time.Now().UTC()
	return &models.Individual{
		IndividualID:  uuid.Must(uuid.NewV7()),
		TenantID:      tenantID,
		Tag:           tag,
		Breed:         "Hatch",
		Color:         "Grey",
		Appearance:    "Crestarosa",
		SyntheticCode: "SC-" + tag,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestIntegration_TenantStore(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	tenants := NewTenantStore(pool)
	tenant := createTenant(t, ctx, tenants, "gallera-sur")

	t.Run("lookup by name ignores case", func(t *testing.T) {
		got, err := tenants.GetByName(ctx, "Gallera-Sur")
		require.NoError(t, err)
		require.Equal(t, tenant.TenantID, got.TenantID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		dup := &models.Tenant{
			TenantID:       uuid.Must(uuid.NewV7()),
			Name:           "GALLERA-SUR",
			CredentialHash: "x",
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		require.ErrorIs(t, tenants.Create(ctx, dup), store.ErrTenantAlreadyExists)
	})

	t.Run("update credential", func(t *testing.T) {
		require.NoError(t, tenants.UpdateCredential(ctx, tenant.TenantID, "$2a$10$other"))
		got, err := tenants.Get(ctx, tenant.TenantID)
		require.NoError(t, err)
		require.Equal(t, "$2a$10$other", got.CredentialHash)
	})

	t.Run("missing tenant", func(t *testing.T) {
		_, err := tenants.Get(ctx, uuid.Must(uuid.NewV7()))
		require.ErrorIs(t, err, store.ErrTenantNotFound)
		require.ErrorIs(t, tenants.UpdateCredential(ctx, uuid.Must(uuid.NewV7()), "x"), store.ErrTenantNotFound)
	})
}

func TestIntegration_PedigreeStore(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	tenant := createTenant(t, ctx, NewTenantStore(pool), "criadero-norte")
	st := NewPedigreeStore(pool)

	chick := newIndividual(tenant.TenantID, "P-1")
	hen := newIndividual(tenant.TenantID, "H-1")
	cock := newIndividual(tenant.TenantID, "C-1")
	for _, ind := range []*models.Individual{chick, hen, cock} {
		require.NoError(t, st.CreateIndividual(ctx, ind))
	}

	t.Run("duplicate synthetic code", func(t *testing.T) {
		dup := newIndividual(tenant.TenantID, "P-1")
		require.ErrorIs(t, st.CreateIndividual(ctx, dup), store.ErrIndividualAlreadyExists)
	})

	t.Run("set parent keeps the other role", func(t *testing.T) {
		require.NoError(t, st.SetParent(ctx, tenant.TenantID, chick.IndividualID, models.RoleMother, hen.IndividualID))
		require.NoError(t, st.SetParent(ctx, tenant.TenantID, chick.IndividualID, models.RoleFather, cock.IndividualID))

		p, err := st.GetParentage(ctx, chick.IndividualID)
		require.NoError(t, err)
		require.NotNil(t, p)
		require.Equal(t, hen.IndividualID, *p.MotherID)
		require.Equal(t, cock.IndividualID, *p.FatherID)
	})

	t.Run("no parentage row", func(t *testing.T) {
		p, err := st.GetParentage(ctx, hen.IndividualID)
		require.NoError(t, err)
		require.Nil(t, p)
	})

	t.Run("list children", func(t *testing.T) {
		children, err := st.ListChildren(ctx, tenant.TenantID, hen.IndividualID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		require.Equal(t, chick.IndividualID, children[0].IndividualID)
	})

	t.Run("list individuals with query", func(t *testing.T) {
		all, err := st.ListIndividuals(ctx, tenant.TenantID, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, "C-1", all[0].Tag)

		found, err := st.ListIndividuals(ctx, tenant.TenantID, "h-1")
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, hen.IndividualID, found[0].IndividualID)
	})

	t.Run("update individual", func(t *testing.T) {
		chick.Name = "Relampago"
		chick.UpdatedAt = time.Now().UTC()
		require.NoError(t, st.UpdateIndividual(ctx, chick))

		got, err := st.GetIndividual(ctx, chick.IndividualID)
		require.NoError(t, err)
		require.Equal(t, "Relampago", got.Name)
	})

	t.Run("crosses filtered by generation", func(t *testing.T) {
		for _, gen := range []int{2, 4} {
			pct, _ := models.ConsanguinityPercentage(gen)
			require.NoError(t, st.CreateCross(ctx, &models.Cross{
				CrossID:       uuid.Must(uuid.NewV7()),
				TenantID:      tenant.TenantID,
				Type:          "mother-son",
				Individual1ID: hen.IndividualID,
				Individual2ID: chick.IndividualID,
				Generation:    gen,
				Percentage:    pct,
				CreatedAt:     time.Now().UTC(),
			}))
		}

		all, err := st.ListCrosses(ctx, tenant.TenantID, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)

		gen := 4
		filtered, err := st.ListCrosses(ctx, tenant.TenantID, &gen)
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		require.Equal(t, 62.5, filtered[0].Percentage)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		orphan := newIndividual(tenant.TenantID, "X-1")
		boom := errors.New("boom")

		err := st.InTx(ctx, func(q store.PedigreeQueries) error {
			if err := q.CreateIndividual(ctx, orphan); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = st.GetIndividual(ctx, orphan.IndividualID)
		require.ErrorIs(t, err, store.ErrIndividualNotFound)
	})

	t.Run("delete cascades parentage and crosses", func(t *testing.T) {
		require.NoError(t, st.DeleteIndividual(ctx, hen.IndividualID))

		p, err := st.GetParentage(ctx, chick.IndividualID)
		require.NoError(t, err)
		require.Nil(t, p)

		crosses, err := st.ListCrosses(ctx, tenant.TenantID, nil)
		require.NoError(t, err)
		require.Empty(t, crosses)

		require.ErrorIs(t, st.DeleteIndividual(ctx, hen.IndividualID), store.ErrIndividualNotFound)
	})

	t.Run("tags sort by byte order", func(t *testing.T) {
		require.NoError(t, st.CreateIndividual(ctx, newIndividual(tenant.TenantID, "a-1")))
		require.NoError(t, st.CreateIndividual(ctx, newIndividual(tenant.TenantID, "Z-1")))

		all, err := st.ListIndividuals(ctx, tenant.TenantID, "")
		require.NoError(t, err)

		var tags []string
		for _, ind := range all {
			tags = append(tags, ind.Tag)
		}
		require.Equal(t, []string{"C-1", "P-1", "Z-1", "a-1"}, tags)
	})
}

func TestIntegration_PedigreeService(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	tenants := NewTenantStore(pool)
	owner := createTenant(t, ctx, tenants, "traba-uno")
	other := createTenant(t, ctx, tenants, "traba-dos")

	svc := pedigree.NewService(NewPedigreeStore(pool))

	chick, err := svc.CreateIndividual(ctx, owner.TenantID, pedigree.IndividualInput{
		Tag: "A-102", Breed: "Kelso", Color: "Red", Appearance: "Pava",
	})
	require.NoError(t, err)

	res, err := svc.RegisterProgenitor(ctx, owner.TenantID, chick.IndividualID, pedigree.IndividualInput{
		Tag: "R-3", Breed: "Sweater", Color: "Red", Appearance: "Moton",
	}, pedigree.RoleMaternalGrandfather)
	require.NoError(t, err)
	require.NotNil(t, res.Placeholder)
	require.Equal(t, "A-102-M?", res.Placeholder.Tag)

	tree, err := svc.BuildTree(ctx, owner.TenantID, chick.IndividualID)
	require.NoError(t, err)
	require.Equal(t, res.Placeholder.IndividualID, tree.Mother.IndividualID)
	require.Equal(t, res.Individual.IndividualID, tree.MaternalGrandfather.IndividualID)
	require.Nil(t, tree.Father)

	t.Run("cycle is rejected", func(t *testing.T) {
		err := svc.SetParent(ctx, owner.TenantID, res.Individual.IndividualID, models.RoleMother, chick.IndividualID)
		require.ErrorIs(t, err, pedigree.ErrValidation)
	})

	t.Run("other tenant cannot read", func(t *testing.T) {
		_, err := svc.BuildTree(ctx, other.TenantID, chick.IndividualID)
		require.ErrorIs(t, err, pedigree.ErrUnauthorized)
	})

	t.Run("cross percentage comes from generation", func(t *testing.T) {
		cross, err := svc.RegisterCross(ctx, owner.TenantID, pedigree.CrossInput{
			Type:          "grandfather-granddaughter",
			Individual1ID: res.Individual.IndividualID,
			Individual2ID: chick.IndividualID,
			Generation:    5,
		})
		require.NoError(t, err)
		require.Equal(t, 75.0, cross.Percentage)
	})
}
