// Package config handles application configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from an optional YAML file
// and environment variables. Environment variables win over file values.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	// LogLevel is a zap level name: debug, info, warn or error
	LogLevel    string      `yaml:"log_level"`
	Environment Environment `yaml:"environment"`
}

// ServerConfig holds HTTP server and CORS configuration.
type ServerConfig struct {
	Address string `yaml:"address"`
	// AllowedOrigins is a comma-separated list of allowed origins for CORS
	AllowedOrigins string `yaml:"allowed_origins"`
}

// StorageConfig describes the web root and the scratch area beneath it.
type StorageConfig struct {
	// Root is the application root directory, the target of "~" in virtual paths
	Root string `yaml:"root"`
	// DataDir is the scratch directory name under Root
	DataDir string `yaml:"data_dir"`
	// PublicBaseURL replaces Root when local paths are exposed to clients
	PublicBaseURL string `yaml:"public_base_url"`
	// Retention is how long scratch directories are kept before cleanup
	Retention time.Duration `yaml:"retention"`
	// CleanupInterval is the time between two cleanup passes
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	// MaxUploadBytes caps multipart uploads
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	// AllowedExtensions lists upload extensions including the dot, lower case
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// Defaults returns the configuration used when neither file nor environment set a value.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Storage: StorageConfig{
			Root:              "./webroot",
			DataDir:           "App_Data",
			PublicBaseURL:     "http://localhost:8080/api/v1/files",
			Retention:         24 * time.Hour,
			CleanupInterval:   time.Hour,
			MaxUploadBytes:    100 * 1024 * 1024,
			AllowedExtensions: []string{".txt", ".pdf", ".doc", ".docx", ".xls", ".xlsx", ".csv", ".json", ".png", ".jpg", ".jpeg", ".zip"},
		},
		LogLevel:    "info",
		Environment: EnvDevelopment,
	}
}

// Load reads configuration from WEBUTILS_CONFIG (if set) and environment variables,
// validates it and creates the storage root.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("WEBUTILS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// #nosec G301 - the web root must be readable by the web server
	if err := os.MkdirAll(cfg.Storage.Root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", cfg.Storage.Root, err)
	}

	return cfg, nil
}

// loadFile merges a YAML document into cfg.
func (c *Config) loadFile(path string) error {
	// #nosec G304 - path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Address = getEnv("WEBUTILS_SERVER_ADDRESS", c.Server.Address)
	c.Server.AllowedOrigins = getEnv("WEBUTILS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Storage.Root = getEnv("WEBUTILS_STORAGE_ROOT", c.Storage.Root)
	c.Storage.DataDir = getEnv("WEBUTILS_DATA_DIR", c.Storage.DataDir)
	c.Storage.PublicBaseURL = getEnv("WEBUTILS_PUBLIC_BASE_URL", c.Storage.PublicBaseURL)
	if v := os.Getenv("WEBUTILS_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Storage.Retention = d
		}
	}
	if v := os.Getenv("WEBUTILS_CLEANUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Storage.CleanupInterval = d
		}
	}
	if v := os.Getenv("WEBUTILS_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Storage.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("WEBUTILS_ALLOWED_EXTENSIONS"); v != "" {
		c.Storage.AllowedExtensions = splitList(v)
	}

	c.LogLevel = getEnv("WEBUTILS_LOG_LEVEL", c.LogLevel)
	c.Environment = Environment(getEnv("WEBUTILS_ENV", string(c.Environment)))
}

// Validate checks the values that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	if !c.Environment.IsValid() {
		return fmt.Errorf("invalid environment %q", c.Environment)
	}
	if strings.TrimSpace(c.Storage.Root) == "" {
		return fmt.Errorf("storage root is required")
	}
	if c.Storage.DataDir == "" || c.Storage.DataDir != filepath.Base(c.Storage.DataDir) {
		return fmt.Errorf("data dir must be a single path element, got %q", c.Storage.DataDir)
	}
	if c.Storage.Retention <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	if c.Storage.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	return nil
}

// getEnv returns the value of the environment variable key, or defaultValue if unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
