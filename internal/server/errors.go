package server

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/auth"
	"github.com/wolfeidau/traba/internal/pedigree"
)

var errNoTenant = errors.New("no active tenant")

// toConnectError maps service errors onto Connect codes. Anything that is
// not one of the known kinds is logged and reported as internal.
func toConnectError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pedigree.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, pedigree.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, pedigree.ErrIntegrity):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, pedigree.ErrUnauthorized):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	log.Error().Err(err).Msg("Unexpected service error")
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

// currentTenant returns the tenant placed in the context by the auth
// middleware.
func currentTenant(ctx context.Context) (uuid.UUID, error) {
	tenant := auth.TenantFromContext(ctx)
	if tenant == nil || tenant.TenantID == uuid.Nil {
		return uuid.Nil, connect.NewError(connect.CodeUnauthenticated, errNoTenant)
	}
	return tenant.TenantID, nil
}
