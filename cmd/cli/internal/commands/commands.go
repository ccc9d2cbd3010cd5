package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/traba/cmd/cli/internal/credentials"
	"github.com/wolfeidau/traba/internal/client"
	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:8080"

type Globals struct {
	Debug     bool
	Version   string
	Server    string
	Profile   string
	ConfigDir string
	Output    string

	// Stdout receives command output; nil means os.Stdout.
	Stdout io.Writer
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

func (g *Globals) store() (*credentials.Store, error) {
	store, err := credentials.NewStore(g.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}
	return store, nil
}

// anonymousClients returns clients for the public procedures.
func (g *Globals) anonymousClients() (*client.Clients, string, error) {
	store, err := g.store()
	if err != nil {
		return nil, "", err
	}

	serverURL := g.Server
	if serverURL == "" {
		if p, err := store.Resolve(g.Profile); err == nil {
			serverURL = p.ServerURL
		}
	}
	if serverURL == "" {
		serverURL = defaultServerURL
	}

	return client.NewClients(client.Config{
		ServerURL: serverURL,
		Timeout:   30 * time.Second,
		CacheDir:  store.CacheDir(),
	}), serverURL, nil
}

// clients returns clients acting as the signed in tenant.
func (g *Globals) clients() (*client.Clients, error) {
	store, err := g.store()
	if err != nil {
		return nil, err
	}

	profile, err := store.Resolve(g.Profile)
	if err != nil {
		if errors.Is(err, credentials.ErrNoDefaultProfile) || errors.Is(err, credentials.ErrProfileNotFound) {
			return nil, fmt.Errorf("%w\n\nSign in first:\n  traba login <tenant> --password <password>", err)
		}
		return nil, err
	}

	serverURL := profile.ServerURL
	if g.Server != "" {
		serverURL = g.Server
	}

	return client.NewClients(client.Config{
		ServerURL: serverURL,
		Timeout:   30 * time.Second,
		CacheDir:  store.CacheDir(),
		Token:     credentials.TokenSource(profile),
	}), nil
}

// render writes v as JSON or YAML, or calls table for the default format.
func render(w io.Writer, format string, v any, table func(tw *tabwriter.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid individual id %q: %w", s, err)
	}
	return id, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func optionalID(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
