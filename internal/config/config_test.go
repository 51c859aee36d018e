package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Tenant != "interior" {
		t.Errorf("Tenant = %q, want interior", cfg.Tenant)
	}
	if cfg.ChatMemoryTTL != time.Hour {
		t.Errorf("ChatMemoryTTL = %v, want 1h", cfg.ChatMemoryTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TENANT", "insurance")
	t.Setenv("CHAT_MEMORY_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Tenant != "insurance" {
		t.Errorf("Tenant = %q", cfg.Tenant)
	}
	if cfg.ChatMemoryTTL != 30*time.Minute {
		t.Errorf("ChatMemoryTTL = %v, want 30m", cfg.ChatMemoryTTL)
	}
}

func TestLoadBadTTLFallsBack(t *testing.T) {
	t.Setenv("CHAT_MEMORY_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChatMemoryTTL != time.Hour {
		t.Errorf("ChatMemoryTTL = %v, want default 1h", cfg.ChatMemoryTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Defaults are valid", func(*Config) {}, false},
		{"Empty port", func(c *Config) { c.Port = "" }, true},
		{"Empty db path", func(c *Config) { c.DBPath = "" }, true},
		{"No tenant at all", func(c *Config) { c.Tenant = ""; c.TenantPath = "" }, true},
		{"Tenant path alone is enough", func(c *Config) { c.Tenant = ""; c.TenantPath = "/etc/tenant.yaml" }, false},
		{"Admin password without cookie secret", func(c *Config) { c.AdminPassword = "x" }, true},
		{"Admin password with cookie secret", func(c *Config) { c.AdminPassword = "x"; c.CookieSecret = "y" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:          "8080",
				DBPath:        "./data/test.db",
				Tenant:        "interior",
				ChatMemoryTTL: time.Hour,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		frontendURL string
		want        bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1:3000", true},
		{"https://adinterior.example.com", false},
	}
	for _, tt := range tests {
		c := &Config{FrontendURL: tt.frontendURL}
		if got := c.IsDevelopment(); got != tt.want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tt.frontendURL, got, tt.want)
		}
	}
}
