package commands

import (
	"errors"
	"net/http"
	"time"

	postgresstore "github.com/wolfeidau/traba/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Version string
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

// PostgresStoreFlags configures the PostgreSQL backend.
type PostgresStoreFlags struct {
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`
	StartupTimeout  int32 `help:"how long to wait for the database to accept connections, in seconds" default:"30"`

	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"TRABA_POSTGRES_AUTO_MIGRATE"`
}

func (s *PostgresStoreFlags) Validate() error {
	if s.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (s *PostgresStoreFlags) config() *postgresstore.Config {
	return &postgresstore.Config{
		Pool: postgresstore.PoolConfig{
			ConnString:      s.ConnString,
			MaxConns:        s.MaxConns,
			MinConns:        s.MinConns,
			MaxConnLifetime: s.MaxConnLifetime,
			MaxConnIdleTime: s.MaxConnIdleTime,
			StartupTimeout:  s.StartupTimeout,
		},
		AutoMigrate: s.AutoMigrate,
	}
}
