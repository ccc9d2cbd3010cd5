package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/traba/internal/auth"
	"github.com/wolfeidau/traba/internal/rpc"
	"github.com/wolfeidau/traba/internal/store/memory"
	"github.com/wolfeidau/traba/internal/tenant"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	url     string
	tenants *rpc.TenantServiceClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	signer, err := auth.NewSigner("", time.Hour)
	require.NoError(t, err)

	srv, err := NewServer(memory.NewPedigreeStore(), memory.NewTenantStore(), signer, tenant.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler(zerolog.Nop()))
	t.Cleanup(ts.Close)

	return &testEnv{
		url:     ts.URL,
		tenants: rpc.NewTenantServiceClient(http.DefaultClient, ts.URL),
	}
}

func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}

// signIn registers a tenant and returns a pedigree client acting as it.
func (e *testEnv) signIn(t *testing.T, name string) *rpc.PedigreeServiceClient {
	t.Helper()
	ctx := context.Background()

	_, err := e.tenants.Register(ctx, connect.NewRequest(&rpc.RegisterTenantRequest{Name: name, Password: "gallo-fino"}))
	require.NoError(t, err)

	session, err := e.tenants.Authenticate(ctx, connect.NewRequest(&rpc.AuthenticateRequest{Name: name, Password: "gallo-fino"}))
	require.NoError(t, err)
	require.NotEmpty(t, session.Msg.Token)

	return rpc.NewPedigreeServiceClient(http.DefaultClient, e.url, connect.WithInterceptors(bearer(session.Msg.Token)))
}

func attrs(tag string) rpc.IndividualAttributes {
	return rpc.IndividualAttributes{Tag: tag, Breed: "Kelso", Color: "Red", Appearance: "Pava"}
}

func create(t *testing.T, c *rpc.PedigreeServiceClient, tag string) *rpc.Individual {
	t.Helper()
	resp, err := c.CreateIndividual(context.Background(), connect.NewRequest(&rpc.CreateIndividualRequest{Individual: attrs(tag)}))
	require.NoError(t, err)
	return resp.Msg.Individual
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.url + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPedigreeWorkflow(t *testing.T) {
	env := newTestEnv(t)
	client := env.signIn(t, "la-gallera")
	ctx := context.Background()

	chick := create(t, client, "C-1")
	require.NotEqual(t, uuid.Nil, chick.IndividualID)
	require.NotEmpty(t, chick.SyntheticCode)

	// Grandfather on the maternal side synthesizes the mother.
	prog, err := client.RegisterProgenitor(ctx, connect.NewRequest(&rpc.RegisterProgenitorRequest{
		TargetID:   chick.IndividualID,
		Role:       "maternal_grandfather",
		Individual: attrs("GF-1"),
	}))
	require.NoError(t, err)
	require.NotNil(t, prog.Msg.Placeholder)
	require.Equal(t, "C-1-M?", prog.Msg.Placeholder.Tag)
	require.Equal(t, prog.Msg.Placeholder.IndividualID, prog.Msg.AttachedTo)

	tree, err := client.BuildTree(ctx, connect.NewRequest(&rpc.BuildTreeRequest{IndividualID: chick.IndividualID}))
	require.NoError(t, err)
	require.Equal(t, chick.IndividualID, tree.Msg.Tree.Self.IndividualID)
	require.NotNil(t, tree.Msg.Tree.Mother)
	require.True(t, tree.Msg.Tree.Mother.Placeholder)
	require.Equal(t, prog.Msg.Individual.IndividualID, tree.Msg.Tree.MaternalGrandfather.IndividualID)
	require.Nil(t, tree.Msg.Tree.Father)

	sire := create(t, client, "S-1")
	_, err = client.SetParent(ctx, connect.NewRequest(&rpc.SetParentRequest{
		SubjectID: chick.IndividualID,
		Role:      "father",
		ParentID:  sire.IndividualID,
	}))
	require.NoError(t, err)

	children, err := client.FindChildren(ctx, connect.NewRequest(&rpc.FindChildrenRequest{IndividualID: sire.IndividualID}))
	require.NoError(t, err)
	require.Len(t, children.Msg.Children, 1)
	require.Equal(t, chick.IndividualID, children.Msg.Children[0].IndividualID)

	cross, err := client.RegisterCross(ctx, connect.NewRequest(&rpc.RegisterCrossRequest{
		Type:          "father-daughter",
		Individual1ID: sire.IndividualID,
		Individual2ID: chick.IndividualID,
		Generation:    4,
	}))
	require.NoError(t, err)
	require.InDelta(t, 62.5, cross.Msg.Cross.Percentage, 0.0001)

	gen := 4
	crosses, err := client.ListCrosses(ctx, connect.NewRequest(&rpc.ListCrossesRequest{Generation: &gen}))
	require.NoError(t, err)
	require.Len(t, crosses.Msg.Crosses, 1)

	_, err = client.DeleteIndividual(ctx, connect.NewRequest(&rpc.DeleteIndividualRequest{IndividualID: sire.IndividualID}))
	require.NoError(t, err)

	crosses, err = client.ListCrosses(ctx, connect.NewRequest(&rpc.ListCrossesRequest{}))
	require.NoError(t, err)
	require.Empty(t, crosses.Msg.Crosses)

	parents, err := client.GetParents(ctx, connect.NewRequest(&rpc.GetParentsRequest{SubjectID: chick.IndividualID}))
	require.NoError(t, err)
	require.Nil(t, parents.Msg.FatherID)
}

func TestErrorCodes(t *testing.T) {
	env := newTestEnv(t)
	client := env.signIn(t, "criadero-uno")
	other := env.signIn(t, "criadero-dos")
	ctx := context.Background()

	hen := create(t, client, "H-1")

	t.Run("validation", func(t *testing.T) {
		_, err := client.CreateIndividual(ctx, connect.NewRequest(&rpc.CreateIndividualRequest{
			Individual: rpc.IndividualAttributes{Tag: "X"},
		}))
		require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("generation out of range", func(t *testing.T) {
		rooster := create(t, client, "R-1")
		_, err := client.RegisterCross(ctx, connect.NewRequest(&rpc.RegisterCrossRequest{
			Individual1ID: hen.IndividualID,
			Individual2ID: rooster.IndividualID,
			Generation:    7,
		}))
		require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := client.RegisterProgenitor(ctx, connect.NewRequest(&rpc.RegisterProgenitorRequest{
			TargetID:   hen.IndividualID,
			Role:       "uncle",
			Individual: attrs("U-1"),
		}))
		require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("missing individual", func(t *testing.T) {
		_, err := client.BuildTree(ctx, connect.NewRequest(&rpc.BuildTreeRequest{IndividualID: uuid.Must(uuid.NewV7())}))
		require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("foreign individual", func(t *testing.T) {
		_, err := other.GetIndividual(ctx, connect.NewRequest(&rpc.GetIndividualRequest{IndividualID: hen.IndividualID}))
		require.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})

	t.Run("duplicate tenant", func(t *testing.T) {
		_, err := env.tenants.Register(ctx, connect.NewRequest(&rpc.RegisterTenantRequest{Name: "Criadero-Uno", Password: "gallo-fino"}))
		require.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.tenants.Authenticate(ctx, connect.NewRequest(&rpc.AuthenticateRequest{Name: "criadero-uno", Password: "incorrecto"}))
		require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("no token", func(t *testing.T) {
		anon := rpc.NewPedigreeServiceClient(http.DefaultClient, env.url)
		_, err := anon.ListIndividuals(ctx, connect.NewRequest(&rpc.ListIndividualsRequest{}))
		require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}

func TestListReferenceData(t *testing.T) {
	env := newTestEnv(t)
	anon := rpc.NewPedigreeServiceClient(http.DefaultClient, env.url)

	resp, err := anon.ListReferenceData(context.Background(), connect.NewRequest(&rpc.ListReferenceDataRequest{}))
	require.NoError(t, err)

	require.Contains(t, resp.Msg.Breeds, "Kelso")
	require.Contains(t, resp.Msg.Appearances, "Crestarosa")
	require.Len(t, resp.Msg.AncestorRoles, 6)
	require.Equal(t, []rpc.ConsanguinityLevel{
		{Generation: 1, Percentage: 25},
		{Generation: 2, Percentage: 37.5},
		{Generation: 3, Percentage: 50},
		{Generation: 4, Percentage: 62.5},
		{Generation: 5, Percentage: 75},
		{Generation: 6, Percentage: 87.5},
	}, resp.Msg.Consanguinity)

	require.Equal(t, "public, max-age=86400", resp.Header().Get("Cache-Control"))
	require.NotEmpty(t, resp.Header().Get("ETag"))
}
