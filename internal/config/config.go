// Package config loads service configuration from the environment. A .env
// file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/satriahrh/voicesync/usecase"
)

// Store backends
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is the full runtime configuration of the service
type Config struct {
	Port string
	Env  string

	StoreBackend  string
	MongoURI      string
	MongoDatabase string
	SeedFile      string

	AgentAPIBaseURL string
	AgentAPIKey     string
	AgentAPITimeout time.Duration

	JWTSecret   string
	AdminAPIKey string

	SyncTimeout   time.Duration
	SnapshotSize  int
	SnapshotTTL   time.Duration
	MatchStrategy usecase.MatchStrategy
}

// Development reports whether the service runs in development mode
func (c *Config) Development() bool {
	return c.Env == "development"
}

// ServiceConfig returns the voice profile service settings
func (c *Config) ServiceConfig() usecase.ServiceConfig {
	return usecase.ServiceConfig{
		SyncTimeout:  c.SyncTimeout,
		SnapshotSize: c.SnapshotSize,
		SnapshotTTL:  c.SnapshotTTL,
	}
}

// Load reads .env (if any) and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config using getenv for lookups
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Port:            p.str("PORT", "8080"),
		Env:             p.str("APP_ENV", "production"),
		StoreBackend:    p.str("STORE_BACKEND", StoreMongo),
		MongoURI:        p.str("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   p.str("MONGODB_DATABASE", "voicesync"),
		SeedFile:        p.str("SEED_FILE", ""),
		AgentAPIBaseURL: p.str("AGENT_API_BASE_URL", ""),
		AgentAPIKey:     p.str("AGENT_API_KEY", ""),
		AgentAPITimeout: p.duration("AGENT_API_TIMEOUT", 15*time.Second),
		JWTSecret:       p.str("JWT_SECRET", ""),
		AdminAPIKey:     p.str("ADMIN_API_KEY", ""),
		SyncTimeout:     p.duration("SYNC_TIMEOUT", 2*time.Minute),
		SnapshotSize:    p.integer("SYNC_SNAPSHOT_SIZE", 256),
		SnapshotTTL:     p.duration("SYNC_SNAPSHOT_TTL", 24*time.Hour),
	}

	strategy, err := usecase.ParseMatchStrategy(getenv("VOICE_MATCH_STRATEGY"))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("VOICE_MATCH_STRATEGY: %w", err))
	}
	cfg.MatchStrategy = strategy

	if err := errors.Join(p.errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	switch cfg.StoreBackend {
	case StoreMongo:
		if cfg.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo backend"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q is invalid; valid values: mongo, memory", cfg.StoreBackend))
	}
	if cfg.SeedFile != "" && cfg.StoreBackend != StoreMemory {
		errs = append(errs, errors.New("SEED_FILE is only supported with the memory backend"))
	}

	if cfg.AgentAPIBaseURL == "" {
		errs = append(errs, errors.New("AGENT_API_BASE_URL is required"))
	} else if u, err := url.Parse(cfg.AgentAPIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("AGENT_API_BASE_URL %q is not an absolute URL", cfg.AgentAPIBaseURL))
	}
	if cfg.AgentAPIKey == "" {
		errs = append(errs, errors.New("AGENT_API_KEY is required"))
	}
	if len(cfg.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if cfg.AdminAPIKey == "" {
		errs = append(errs, errors.New("ADMIN_API_KEY is required"))
	}

	if cfg.AgentAPITimeout <= 0 {
		errs = append(errs, errors.New("AGENT_API_TIMEOUT must be positive"))
	}
	if cfg.SyncTimeout <= 0 {
		errs = append(errs, errors.New("SYNC_TIMEOUT must be positive"))
	}
	if cfg.SnapshotSize <= 0 {
		errs = append(errs, errors.New("SYNC_SNAPSHOT_SIZE must be positive"))
	}
	if cfg.SnapshotTTL <= 0 {
		errs = append(errs, errors.New("SYNC_SNAPSHOT_TTL must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := p.getenv(key); v != "" {
		return v
	}
	return def
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}
