package logger

import (
	"context"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/auth"
	httpmiddleware "github.com/wolfeidau/traba/internal/http"
)

// Setup builds the process logger and installs it as the global zerolog
// logger. Dev mode switches to debug level and console output.
func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = logger

	return logger
}

var _ connect.Interceptor = (*ConnectRequests)(nil)

// ConnectRequests logs every unary call with its procedure, caller and
// duration. Client errors are logged at warn, everything else at error.
type ConnectRequests struct {
	logger zerolog.Logger
}

func NewConnectRequests(logger zerolog.Logger) *ConnectRequests {
	return &ConnectRequests{logger: logger}
}

func (c *ConnectRequests) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return connect.UnaryFunc(func(
		ctx context.Context,
		req connect.AnyRequest,
	) (connect.AnyResponse, error) {
		started := time.Now()

		lc := c.logger.With().
			Str("procedure", req.Spec().Procedure).
			Str("protocol", req.Peer().Protocol).
			Str("http_method", req.HTTPMethod())

		if ip := httpmiddleware.ClientIPFromContext(ctx); ip != "" {
			lc = lc.Str("client_ip", ip)
		}
		if tenant := auth.TenantFromContext(ctx); tenant != nil {
			lc = lc.Str("tenant_id", tenant.TenantID.String())
		}

		ctx = lc.Logger().WithContext(ctx)

		resp, err := next(ctx, req)

		if err != nil {
			code := connect.CodeOf(err)
			ev := zerolog.Ctx(ctx).Error()
			if isClientError(code) {
				ev = zerolog.Ctx(ctx).Warn()
			}
			ev.Err(err).
				Str("code", code.String()).
				Dur("duration", time.Since(started)).
				Msg("rpc call")

			return resp, err
		}

		zerolog.Ctx(ctx).Info().
			Dur("duration", time.Since(started)).
			Msg("rpc call")

		return resp, err
	})
}

func (c *ConnectRequests) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (c *ConnectRequests) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return connect.StreamingHandlerFunc(func(
		ctx context.Context,
		conn connect.StreamingHandlerConn,
	) error {
		started := time.Now()

		ctx = c.logger.With().
			Str("procedure", conn.Spec().Procedure).
			Str("protocol", conn.Peer().Protocol).
			Logger().WithContext(ctx)

		err := next(ctx, conn)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("rpc server stream error")
			return err
		}

		zerolog.Ctx(ctx).Info().
			Dur("duration", time.Since(started)).
			Msg("rpc server stream finished")

		return nil
	})
}

func isClientError(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument,
		connect.CodeNotFound,
		connect.CodeAlreadyExists,
		connect.CodePermissionDenied,
		connect.CodeUnauthenticated,
		connect.CodeCanceled:
		return true
	}
	return false
}
