// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	FrontendURL   string
	DBPath        string
	Tenant        string // builtin tenant name: "interior" or "insurance"
	TenantPath    string // optional YAML path overriding the builtin config
	AdminPassword string
	CookieSecret  string
	UploadDir     string
	UploadBaseURL string
	ChatMemoryTTL time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		FrontendURL:   getEnv("FRONTEND_URL", ""),
		DBPath:        getEnv("DB_PATH", "./data/sitechat.db"),
		Tenant:        getEnv("TENANT", "interior"),
		TenantPath:    getEnv("TENANT_CONFIG_PATH", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		CookieSecret:  getEnv("COOKIE_SECRET", ""),
		UploadDir:     getEnv("UPLOAD_DIR", "./data/uploads"),
		UploadBaseURL: getEnv("UPLOAD_BASE_URL", ""),
		ChatMemoryTTL: getEnvDuration("CHAT_MEMORY_TTL", time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Tenant == "" && c.TenantPath == "" {
		return fmt.Errorf("TENANT or TENANT_CONFIG_PATH must be set")
	}
	if c.AdminPassword != "" && c.CookieSecret == "" {
		return fmt.Errorf("COOKIE_SECRET is required when ADMIN_PASSWORD is set")
	}
	if c.ChatMemoryTTL <= 0 {
		return fmt.Errorf("CHAT_MEMORY_TTL must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
