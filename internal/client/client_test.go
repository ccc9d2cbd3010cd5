package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/traba/internal/auth"
	"github.com/wolfeidau/traba/internal/rpc"
	"github.com/wolfeidau/traba/internal/server"
	"github.com/wolfeidau/traba/internal/store/memory"
	"github.com/wolfeidau/traba/internal/tenant"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	signer, err := auth.NewSigner("", time.Hour)
	require.NoError(t, err)

	srv, err := server.NewServer(memory.NewPedigreeStore(), memory.NewTenantStore(), signer, tenant.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	var referenceHits atomic.Int32
	handler := srv.Handler(zerolog.Nop())
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/ListReferenceData") {
			referenceHits.Add(1)
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	return ts, &referenceHits
}

func TestReferenceDataIsCached(t *testing.T) {
	ts, hits := newTestServer(t)
	clients := NewClients(Config{ServerURL: ts.URL, Timeout: 5 * time.Second})
	ctx := context.Background()

	for range 3 {
		resp, err := clients.Pedigree.ListReferenceData(ctx, connect.NewRequest(&rpc.ListReferenceDataRequest{}))
		require.NoError(t, err)
		require.NotEmpty(t, resp.Msg.Breeds)
	}

	require.Equal(t, int32(1), hits.Load())
}

func TestAuthInterceptor(t *testing.T) {
	ts, _ := newTestServer(t)
	ctx := context.Background()

	t.Run("public procedures work without a session", func(t *testing.T) {
		clients := NewClients(Config{ServerURL: ts.URL, Token: StaticToken("")})

		_, err := clients.Tenants.Register(ctx, connect.NewRequest(&rpc.RegisterTenantRequest{
			Name:     "rancho-alegre",
			Password: "gallo-fino",
		}))
		require.NoError(t, err)
	})

	t.Run("private procedures fail before the request is sent", func(t *testing.T) {
		clients := NewClients(Config{ServerURL: ts.URL, Token: StaticToken("")})

		_, err := clients.Pedigree.ListIndividuals(ctx, connect.NewRequest(&rpc.ListIndividualsRequest{}))
		require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		require.ErrorIs(t, err, ErrNotSignedIn)
	})

	t.Run("session token is attached", func(t *testing.T) {
		anon := NewClients(Config{ServerURL: ts.URL})
		session, err := anon.Tenants.Authenticate(ctx, connect.NewRequest(&rpc.AuthenticateRequest{
			Name:     "rancho-alegre",
			Password: "gallo-fino",
		}))
		require.NoError(t, err)

		clients := NewClients(Config{ServerURL: ts.URL, Token: StaticToken(session.Msg.Token)})
		resp, err := clients.Tenants.GetTenant(ctx, connect.NewRequest(&rpc.GetTenantRequest{}))
		require.NoError(t, err)
		require.Equal(t, "rancho-alegre", resp.Msg.Tenant.Name)
	})
}
