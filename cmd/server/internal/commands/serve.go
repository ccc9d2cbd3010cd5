package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/otelconnect"
	"github.com/wolfeidau/traba/internal/auth"
	httpmiddleware "github.com/wolfeidau/traba/internal/http"
	"github.com/wolfeidau/traba/internal/logger"
	"github.com/wolfeidau/traba/internal/server"
	"github.com/wolfeidau/traba/internal/store"
	memorystore "github.com/wolfeidau/traba/internal/store/memory"
	postgresstore "github.com/wolfeidau/traba/internal/store/postgres"
	"github.com/wolfeidau/traba/internal/telemetry"
)

type ServeCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"TRABA_LISTEN"`
	Cert   string `help:"path to TLS cert file, serves plain HTTP when empty" default:"" env:"TRABA_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"TRABA_TLS_KEY"`

	// Edge configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:5173" env:"TRABA_CORS_ORIGINS"`
	Compress    bool     `help:"gzip compress responses" default:"true" negatable:"" env:"TRABA_COMPRESS"`

	// Session tokens
	JWTSigningKey     string        `help:"PEM encoded EC private key used to sign session tokens" env:"TRABA_JWT_SIGNING_KEY"`
	JWTSigningKeyFile string        `help:"file holding the session token signing key" type:"existingfile" env:"TRABA_JWT_SIGNING_KEY_FILE"`
	TokenTTL          time.Duration `help:"session token lifetime" default:"24h" env:"TRABA_TOKEN_TTL"`

	// Telemetry
	Tracing          bool          `help:"enable tracing and metrics export" default:"false" env:"TRABA_TRACING"`
	TraceSampleRatio float64       `help:"fraction of root traces sampled" default:"1.0" env:"TRABA_TRACE_SAMPLE_RATIO"`
	MetricInterval   time.Duration `help:"metrics export interval" default:"30s" env:"TRABA_METRIC_INTERVAL"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"TRABA_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	var interceptors []connect.Interceptor
	if c.Tracing {
		log.Info().Float64("sample_ratio", c.TraceSampleRatio).Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, telemetry.Config{
			ServiceName:    "traba-server",
			Version:        globals.Version,
			StoreType:      c.StoreType,
			SampleRatio:    c.TraceSampleRatio,
			MetricInterval: c.MetricInterval,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
		otelInterceptor, err := otelconnect.NewInterceptor()
		if err != nil {
			return fmt.Errorf("failed to create OTEL interceptor: %w", err)
		}
		interceptors = append(interceptors, otelInterceptor)
	}

	var (
		pedigreeStore store.PedigreeStore
		tenantStore   store.TenantStore
	)

	switch c.StoreType {
	case "postgres":
		if err := c.PostgresStore.Validate(); err != nil {
			return err
		}
		pool, err := postgresstore.Open(ctx, c.PostgresStore.config())
		if err != nil {
			return fmt.Errorf("failed to open postgres store: %w", err)
		}
		defer pool.Close()

		pedigreeStore = postgresstore.NewPedigreeStore(pool)
		tenantStore = postgresstore.NewTenantStore(pool)
		log.Info().Msg("Using PostgreSQL stores with shared connection pool")

	default:
		pedigreeStore = memorystore.NewPedigreeStore()
		tenantStore = memorystore.NewTenantStore()
		log.Info().Msg("Using in-memory stores")
	}

	signingKey, err := c.signingKey()
	if err != nil {
		return err
	}
	signer, err := auth.NewSigner(signingKey, c.TokenTTL)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(pedigreeStore, tenantStore, signer)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	handler, err := httpmiddleware.Edge(httpmiddleware.EdgeConfig{
		AllowedOrigins: c.CORSOrigins,
		Compress:       c.Compress,
	}, srv.Handler(log, interceptors...))
	if err != nil {
		return err
	}

	httpServer := configureHTTPServer(c.Listen, handler)

	errCh := make(chan error, 1)
	go func() {
		if c.Cert != "" || c.Key != "" {
			log.Info().Str("addr", c.Listen).Msg("Starting HTTPS server")
			errCh <- httpServer.ListenAndServeTLS(c.Cert, c.Key)
			return
		}
		log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (c *ServeCmd) signingKey() (string, error) {
	if c.JWTSigningKey != "" {
		return c.JWTSigningKey, nil
	}
	if c.JWTSigningKeyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.JWTSigningKeyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read signing key: %w", err)
	}
	return string(data), nil
}
