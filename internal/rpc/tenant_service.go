package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// TenantServiceName is the fully-qualified name of the TenantService.
const TenantServiceName = "tenant.v1.TenantService"

// Procedure paths of the TenantService. Register and Authenticate are
// reachable without a token.
const (
	TenantServiceRegisterProcedure         = "/tenant.v1.TenantService/Register"
	TenantServiceAuthenticateProcedure     = "/tenant.v1.TenantService/Authenticate"
	TenantServiceRotateCredentialProcedure = "/tenant.v1.TenantService/RotateCredential"
	TenantServiceGetTenantProcedure        = "/tenant.v1.TenantService/GetTenant"
)

type TenantServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterTenantRequest]) (*connect.Response[TenantResponse], error)
	Authenticate(context.Context, *connect.Request[AuthenticateRequest]) (*connect.Response[AuthenticateResponse], error)
	RotateCredential(context.Context, *connect.Request[RotateCredentialRequest]) (*connect.Response[RotateCredentialResponse], error)
	GetTenant(context.Context, *connect.Request[GetTenantRequest]) (*connect.Response[TenantResponse], error)
}

func NewTenantServiceHandler(svc TenantServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = HandlerOptions(opts...)
	readOnly := append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects))

	mux := http.NewServeMux()
	mux.Handle(TenantServiceRegisterProcedure, connect.NewUnaryHandler(TenantServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(TenantServiceAuthenticateProcedure, connect.NewUnaryHandler(TenantServiceAuthenticateProcedure, svc.Authenticate, opts...))
	mux.Handle(TenantServiceRotateCredentialProcedure, connect.NewUnaryHandler(TenantServiceRotateCredentialProcedure, svc.RotateCredential, opts...))
	mux.Handle(TenantServiceGetTenantProcedure, connect.NewUnaryHandler(TenantServiceGetTenantProcedure, svc.GetTenant, readOnly...))

	return "/" + TenantServiceName + "/", mux
}

type TenantServiceClient struct {
	register         *connect.Client[RegisterTenantRequest, TenantResponse]
	authenticate     *connect.Client[AuthenticateRequest, AuthenticateResponse]
	rotateCredential *connect.Client[RotateCredentialRequest, RotateCredentialResponse]
	getTenant        *connect.Client[GetTenantRequest, TenantResponse]
}

func NewTenantServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TenantServiceClient {
	opts = ClientOptions(opts...)
	readOnly := append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects))

	return &TenantServiceClient{
		register:         connect.NewClient[RegisterTenantRequest, TenantResponse](httpClient, baseURL+TenantServiceRegisterProcedure, opts...),
		authenticate:     connect.NewClient[AuthenticateRequest, AuthenticateResponse](httpClient, baseURL+TenantServiceAuthenticateProcedure, opts...),
		rotateCredential: connect.NewClient[RotateCredentialRequest, RotateCredentialResponse](httpClient, baseURL+TenantServiceRotateCredentialProcedure, opts...),
		getTenant:        connect.NewClient[GetTenantRequest, TenantResponse](httpClient, baseURL+TenantServiceGetTenantProcedure, readOnly...),
	}
}

func (c *TenantServiceClient) Register(ctx context.Context, req *connect.Request[RegisterTenantRequest]) (*connect.Response[TenantResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *TenantServiceClient) Authenticate(ctx context.Context, req *connect.Request[AuthenticateRequest]) (*connect.Response[AuthenticateResponse], error) {
	return c.authenticate.CallUnary(ctx, req)
}

func (c *TenantServiceClient) RotateCredential(ctx context.Context, req *connect.Request[RotateCredentialRequest]) (*connect.Response[RotateCredentialResponse], error) {
	return c.rotateCredential.CallUnary(ctx, req)
}

func (c *TenantServiceClient) GetTenant(ctx context.Context, req *connect.Request[GetTenantRequest]) (*connect.Response[TenantResponse], error) {
	return c.getTenant.CallUnary(ctx, req)
}

// PublicProcedures lists the procedures that do not require a bearer token.
func PublicProcedures() []string {
	return []string{
		TenantServiceRegisterProcedure,
		TenantServiceAuthenticateProcedure,
		PedigreeServiceListReferenceDataProcedure,
	}
}
