package server

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/rpc"
	"github.com/wolfeidau/traba/internal/tenant"
)

var _ rpc.TenantServiceHandler = &TenantServer{}

// TenantServer exposes sign-up, sign-in and credential rotation.
type TenantServer struct {
	svc *tenant.Service
}

func NewTenantServer(svc *tenant.Service) *TenantServer {
	return &TenantServer{svc: svc}
}

func (s *TenantServer) Register(
	ctx context.Context,
	req *connect.Request[rpc.RegisterTenantRequest],
) (*connect.Response[rpc.TenantResponse], error) {
	t, err := s.svc.Register(ctx, tenant.RegisterInput{
		Name:        req.Msg.Name,
		DisplayName: req.Msg.DisplayName,
		Password:    req.Msg.Password,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	log.Debug().Str("tenant_id", t.TenantID.String()).Msg("Register request")

	return connect.NewResponse(&rpc.TenantResponse{Tenant: rpc.FromTenant(t)}), nil
}

func (s *TenantServer) Authenticate(
	ctx context.Context,
	req *connect.Request[rpc.AuthenticateRequest],
) (*connect.Response[rpc.AuthenticateResponse], error) {
	session, err := s.svc.Authenticate(ctx, req.Msg.Name, req.Msg.Password)
	if err != nil {
		if errors.Is(err, tenant.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.AuthenticateResponse{
		Tenant:    rpc.FromTenant(session.Tenant),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}), nil
}

func (s *TenantServer) RotateCredential(
	ctx context.Context,
	req *connect.Request[rpc.RotateCredentialRequest],
) (*connect.Response[rpc.RotateCredentialResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.svc.RotateCredential(ctx, tenantID, req.Msg.CurrentPassword, req.Msg.NewPassword); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.RotateCredentialResponse{}), nil
}

func (s *TenantServer) GetTenant(
	ctx context.Context,
	req *connect.Request[rpc.GetTenantRequest],
) (*connect.Response[rpc.TenantResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.svc.Get(ctx, tenantID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.TenantResponse{Tenant: rpc.FromTenant(t)}), nil
}
