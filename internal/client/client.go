// Package client builds the Connect clients used by the traba CLI.
package client

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/rpc"
)

// ErrNotSignedIn is returned by a TokenSource that holds no session.
var ErrNotSignedIn = errors.New("not signed in")

// Config holds common client configuration
type Config struct {
	ServerURL string
	Timeout   time.Duration

	// CacheDir persists cached reference data across runs when set.
	CacheDir string

	// Token supplies the bearer token. Nil sends requests unauthenticated.
	Token TokenSource
}

// TokenSource returns the current session token.
type TokenSource func() (string, error)

// StaticToken returns a TokenSource for a fixed token.
func StaticToken(token string) TokenSource {
	return func() (string, error) {
		if token == "" {
			return "", ErrNotSignedIn
		}
		return token, nil
	}
}

// Clients holds the Connect clients
type Clients struct {
	Pedigree *rpc.PedigreeServiceClient
	Tenants  *rpc.TenantServiceClient
}

// NewClients creates Connect clients with the given configuration
func NewClients(config Config) *Clients {
	httpClient := NewCachingHTTPClient(config.CacheDir, nil)
	httpClient.Timeout = config.Timeout

	var opts []connect.ClientOption
	if config.Token != nil {
		opts = append(opts, connect.WithInterceptors(NewAuthInterceptor(config.Token)))
	}

	return &Clients{
		Pedigree: rpc.NewPedigreeServiceClient(httpClient, config.ServerURL, opts...),
		Tenants:  rpc.NewTenantServiceClient(httpClient, config.ServerURL, opts...),
	}
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:8080",
		Timeout:   30 * time.Second,
	}
}

// NewAuthInterceptor sets the Authorization header on every unary call.
// Public procedures are sent without a token when none is available.
func NewAuthInterceptor(token TokenSource) connect.UnaryInterceptorFunc {
	public := make(map[string]bool)
	for _, p := range rpc.PublicProcedures() {
		public[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			tok, err := token()
			if err != nil {
				if public[req.Spec().Procedure] {
					return next(ctx, req)
				}
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			log.Debug().Str("procedure", req.Spec().Procedure).Msg("adding bearer token")
			req.Header().Set("Authorization", "Bearer "+tok)
			return next(ctx, req)
		}
	}
}
