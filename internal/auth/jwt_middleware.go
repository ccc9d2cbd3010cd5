package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Tenant is the authenticated tenant of a request.
type Tenant struct {
	TenantID uuid.UUID
	Name     string
}

type contextKey int

const (
	tenantContextKey contextKey = iota
)

// TenantFromContext returns the authenticated tenant, or nil for an
// unauthenticated request.
func TenantFromContext(ctx context.Context) *Tenant {
	tenant, _ := ctx.Value(tenantContextKey).(*Tenant)
	return tenant
}

// WithTenant returns a context carrying the tenant.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenant)
}

// Middleware returns an HTTP middleware that verifies bearer tokens and
// places the tenant in the request context. Requests for the listed public
// paths pass through untouched.
func (s *Signer) Middleware(publicPaths ...string) func(http.Handler) http.Handler {
	public := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := extractBearerToken(r)
			if tokenString == "" {
				log.Debug().Str("path", r.URL.Path).Msg("Missing Authorization header")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			tenant, err := s.Verify(tokenString)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to verify JWT")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := WithTenant(r.Context(), tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the JWT from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
