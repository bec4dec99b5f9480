// Package config handles loading and validation of client configuration.
// Supports both development (env vars, .env file) and production
// (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
)

// Config holds all client configuration.
// Environment determines whether the store block loads from env vars
// (development) or Secret Manager (production, keyed by StoreID).
type Config struct {
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	StoreID    string

	// StateDir holds the local item store database and the saved session.
	StateDir string

	// Store-specific configuration (loaded from secrets in production)
	Store StoreConfig
}

// StoreConfig contains the settings for one storefront.
// In production this is loaded from Secret Manager as JSON; in development
// from individual env vars or CONFIG_FILE.
type StoreConfig struct {
	BaseURL   string `json:"base_url"`
	StoreName string `json:"store_name,omitempty"`

	// DefaultPackSizeID is the sentinel pack id used when an item carries
	// none. The upstream catalog treats "2" as the standard pack.
	DefaultPackSizeID string `json:"default_pack_size_id,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		StoreID:     os.Getenv("STORE_ID"),
		StateDir:    os.Getenv("STATE_DIR"),
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.StoreID == "" {
			return nil, fmt.Errorf("STORE_ID required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Environment string      `json:"environment"`
		LogLevel    string      `json:"log_level"`
		StoreID     string      `json:"store_id"`
		StateDir    string      `json:"state_dir"`
		Store       StoreConfig `json:"store"`
	}
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Environment: withDefault(fileConfig.Environment, "development"),
		LogLevel:    withDefault(fileConfig.LogLevel, "info"),
		StoreID:     fileConfig.StoreID,
		StateDir:    fileConfig.StateDir,
		Store:       fileConfig.Store,
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches store config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{store_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.StoreID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Store); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	return nil
}

// loadFromEnv reads store config from individual environment variables.
// A .env file in the working directory is honored in development mode;
// its absence is not an error.
func (c *Config) loadFromEnv() error {
	godotenv.Load()

	c.Store = StoreConfig{
		BaseURL:           os.Getenv("STORE_BASE_URL"),
		StoreName:         os.Getenv("STORE_NAME"),
		DefaultPackSizeID: os.Getenv("STORE_DEFAULT_PACK_SIZE_ID"),
	}

	// Env may have been populated by godotenv after the initial read.
	if c.StateDir == "" {
		c.StateDir = os.Getenv("STATE_DIR")
	}
	return nil
}

// applyDefaults fills derived and defaulted fields.
func (c *Config) applyDefaults() {
	if c.Store.DefaultPackSizeID == "" {
		c.Store.DefaultPackSizeID = "2"
	}
	if c.StateDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.StateDir = filepath.Join(dir, "shopctl")
		} else {
			c.StateDir = ".shopctl"
		}
	}
	c.Store.BaseURL = strings.TrimSuffix(c.Store.BaseURL, "/")
}

// validate checks that required fields are present and well-formed.
func (c *Config) validate() error {
	if c.Store.BaseURL == "" {
		return fmt.Errorf("store base_url is required (STORE_BASE_URL)")
	}
	parsed, err := url.Parse(c.Store.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid store base_url %q", c.Store.BaseURL)
	}
	return nil
}

// envOrDefault returns the env value or a default when unset.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
