package http

import (
	"fmt"
	"net/http"

	connectcors "connectrpc.com/cors"
	"filippo.io/csrf"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
)

// EdgeConfig configures the middleware applied in front of every route.
type EdgeConfig struct {
	// AllowedOrigins are the browser origins allowed to call the API. They
	// are also trusted by the cross-origin request check.
	AllowedOrigins []string

	// Compress enables gzip response compression.
	Compress bool
}

// Edge wraps h with, from the outside in: CORS, cross-origin request
// protection and optional gzip compression.
func Edge(cfg EdgeConfig, h http.Handler) (http.Handler, error) {
	protection := csrf.New()
	for _, origin := range cfg.AllowedOrigins {
		if err := protection.AddTrustedOrigin(origin); err != nil {
			return nil, fmt.Errorf("invalid trusted origin %q: %w", origin, err)
		}
	}

	handler := protection.Handler(h)
	if cfg.Compress {
		handler = gzhttp.GzipHandler(handler)
	}

	return WithCORS(cfg.AllowedOrigins, handler), nil
}

// WithCORS adds CORS support to a Connect HTTP handler.
func WithCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: connectcors.AllowedMethods(),
		AllowedHeaders: append(connectcors.AllowedHeaders(), "Authorization"),
		ExposedHeaders: append(connectcors.ExposedHeaders(), "ETag"),
	})
	return middleware.Handler(h)
}
