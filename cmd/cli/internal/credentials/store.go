package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/client"
)

// Sentinel errors
var (
	// ErrProfileNotFound is returned when a profile doesn't exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNoDefaultProfile is returned when no default is set.
	ErrNoDefaultProfile = errors.New("no default profile set")

	// ErrSessionExpired is returned when the stored token has expired.
	ErrSessionExpired = errors.New("session expired, sign in again")
)

// Profile is a signed in session against one server.
type Profile struct {
	Name       string    `json:"name"`
	ServerURL  string    `json:"server_url"`
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Expired reports whether the token is past its expiry.
func (p *Profile) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

// Config represents the CLI configuration file.
type Config struct {
	Version        int                `json:"version"`
	DefaultProfile string             `json:"default_profile,omitempty"`
	Profiles       map[string]Profile `json:"profiles"`
}

// Store manages the CLI configuration on the local filesystem.
type Store struct {
	baseDir string
}

// NewStore creates a new profile store.
// If baseDir is empty, uses ~/.traba/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".traba")
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	store := &Store{baseDir: baseDir}
	if err := store.ensureConfig(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("profile store initialized")

	return store, nil
}

// CacheDir is where cached reference data is kept.
func (s *Store) CacheDir() string {
	return filepath.Join(s.baseDir, "cache")
}

// Save creates or replaces a profile. The first profile saved becomes the
// default.
func (s *Store) Save(p Profile) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()
	cfg.Profiles[p.Name] = p
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = p.Name
	}

	return s.saveConfig(cfg)
}

// Get retrieves a profile by name.
func (s *Store) Get(name string) (*Profile, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

// GetDefault retrieves the default profile.
func (s *Store) GetDefault() (*Profile, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DefaultProfile == "" {
		return nil, ErrNoDefaultProfile
	}

	p, ok := cfg.Profiles[cfg.DefaultProfile]
	if !ok {
		return nil, ErrNoDefaultProfile
	}
	return &p, nil
}

// Resolve returns the named profile, or the default when name is empty.
func (s *Store) Resolve(name string) (*Profile, error) {
	if name == "" {
		return s.GetDefault()
	}
	return s.Get(name)
}

// List returns all profiles sorted by name.
func (s *Store) List() ([]Profile, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// SetDefault marks an existing profile as the default.
func (s *Store) SetDefault(name string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[name]; !ok {
		return ErrProfileNotFound
	}
	cfg.DefaultProfile = name
	return s.saveConfig(cfg)
}

// Delete removes a profile. Deleting the default promotes the first
// remaining profile by name.
func (s *Store) Delete(name string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[name]; !ok {
		return ErrProfileNotFound
	}

	delete(cfg.Profiles, name)
	if cfg.DefaultProfile == name {
		cfg.DefaultProfile = ""
		names := make([]string, 0, len(cfg.Profiles))
		for n := range cfg.Profiles {
			names = append(names, n)
		}
		if len(names) > 0 {
			cfg.DefaultProfile = slices.Min(names)
		}
	}

	return s.saveConfig(cfg)
}

// TokenSource returns the session token of a profile, refusing expired ones.
func TokenSource(p *Profile) client.TokenSource {
	return func() (string, error) {
		if p == nil || p.Token == "" {
			return "", client.ErrNotSignedIn
		}
		if p.Expired(time.Now()) {
			return "", ErrSessionExpired
		}
		return p.Token, nil
	}
}

func (s *Store) ensureConfig() error {
	configPath := filepath.Join(s.baseDir, "config.json")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	return s.saveConfig(&Config{
		Version:  1,
		Profiles: make(map[string]Profile),
	})
}

// loadConfig reads the config file.
func (s *Store) loadConfig() (*Config, error) {
	configPath := filepath.Join(s.baseDir, "config.json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}

	return &cfg, nil
}

// saveConfig writes the config file atomically.
func (s *Store) saveConfig(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(s.baseDir, "config.json")
	tempPath := configPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
