package server

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/traba/internal/auth"
	httpmiddleware "github.com/wolfeidau/traba/internal/http"
	"github.com/wolfeidau/traba/internal/logger"
	"github.com/wolfeidau/traba/internal/pedigree"
	"github.com/wolfeidau/traba/internal/rpc"
	"github.com/wolfeidau/traba/internal/store"
	"github.com/wolfeidau/traba/internal/tenant"
)

// Server wires the pedigree and tenant services to their Connect handlers.
type Server struct {
	signer   *auth.Signer
	pedigree *PedigreeServer
	tenants  *TenantServer
}

// NewServer creates a server backed by the given stores.
func NewServer(pedigreeStore store.PedigreeStore, tenantStore store.TenantStore, signer *auth.Signer, opts ...tenant.Option) (*Server, error) {
	pedigreeServer, err := NewPedigreeServer(pedigree.NewService(pedigreeStore))
	if err != nil {
		return nil, err
	}

	return &Server{
		signer:   signer,
		pedigree: pedigreeServer,
		tenants:  NewTenantServer(tenant.NewService(tenantStore, signer, opts...)),
	}, nil
}

// Handler returns the HTTP handler for the server. Extra interceptors run
// after the request logger.
func (s *Server) Handler(log zerolog.Logger, interceptors ...connect.Interceptor) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint for load balancer
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	opts := connect.WithInterceptors(append([]connect.Interceptor{logger.NewConnectRequests(log)}, interceptors...)...)
	authMiddleware := s.signer.Middleware(rpc.PublicProcedures()...)

	pedigreePath, pedigreeHandler := rpc.NewPedigreeServiceHandler(s.pedigree, opts)
	mux.Handle(pedigreePath, authMiddleware(pedigreeHandler))

	tenantPath, tenantHandler := rpc.NewTenantServiceHandler(s.tenants, opts)
	mux.Handle(tenantPath, authMiddleware(tenantHandler))

	log.Info().Str("path", pedigreePath).Msg("PedigreeService registered")
	log.Info().Str("path", tenantPath).Msg("TenantService registered")

	return httpmiddleware.ClientIPMiddleware()(mux)
}
