package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	// Save and restore env
	saved := map[string]string{}
	keys := []string{"CONFIG_FILE", "ENVIRONMENT", "LOG_LEVEL", "STORE_BASE_URL",
		"STORE_NAME", "STORE_DEFAULT_PACK_SIZE_ID", "STATE_DIR"}
	for _, k := range keys {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	defer func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("STORE_BASE_URL", "https://shop.example.com/api/")
	os.Setenv("STORE_NAME", "Example Shop")
	os.Setenv("STATE_DIR", t.TempDir())

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Store.BaseURL != "https://shop.example.com/api" {
		t.Errorf("BaseURL = %q, want trailing slash stripped", cfg.Store.BaseURL)
	}
	if cfg.Store.StoreName != "Example Shop" {
		t.Errorf("StoreName = %q", cfg.Store.StoreName)
	}
	if cfg.Store.DefaultPackSizeID != "2" {
		t.Errorf("DefaultPackSizeID = %q, want default 2", cfg.Store.DefaultPackSizeID)
	}
}

func TestLoadMissingBaseURL(t *testing.T) {
	saved := map[string]string{}
	keys := []string{"CONFIG_FILE", "ENVIRONMENT", "STORE_BASE_URL"}
	for _, k := range keys {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	defer func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	os.Setenv("ENVIRONMENT", "development")

	if _, err := Load(context.Background()); err == nil {
		t.Error("Load() with no base URL should fail")
	}
}

func TestLoadInvalidBaseURL(t *testing.T) {
	savedFile := os.Getenv("CONFIG_FILE")
	savedURL := os.Getenv("STORE_BASE_URL")
	savedEnv := os.Getenv("ENVIRONMENT")
	defer func() {
		os.Setenv("CONFIG_FILE", savedFile)
		os.Setenv("STORE_BASE_URL", savedURL)
		os.Setenv("ENVIRONMENT", savedEnv)
	}()
	os.Unsetenv("CONFIG_FILE")
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("STORE_BASE_URL", "not a url")

	if _, err := Load(context.Background()); err == nil {
		t.Error("Load() with malformed base URL should fail")
	}
}

func TestLoadFromFile(t *testing.T) {
	savedFile := os.Getenv("CONFIG_FILE")
	defer os.Setenv("CONFIG_FILE", savedFile)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"environment": "development",
		"log_level": "warn",
		"state_dir": "` + dir + `",
		"store": {
			"base_url": "https://shop.example.com",
			"store_name": "File Shop",
			"default_pack_size_id": "7"
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Setenv("CONFIG_FILE", path)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Store.StoreName != "File Shop" {
		t.Errorf("StoreName = %q", cfg.Store.StoreName)
	}
	if cfg.Store.DefaultPackSizeID != "7" {
		t.Errorf("DefaultPackSizeID = %q, want 7", cfg.Store.DefaultPackSizeID)
	}
	if cfg.StateDir != dir {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, dir)
	}
}

func TestProductionRequiresGCPSettings(t *testing.T) {
	saved := map[string]string{}
	keys := []string{"CONFIG_FILE", "ENVIRONMENT", "GCP_PROJECT", "STORE_ID"}
	for _, k := range keys {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	defer func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	os.Setenv("ENVIRONMENT", "production")

	if _, err := Load(context.Background()); err == nil {
		t.Error("production Load() without GCP_PROJECT should fail")
	}
}
