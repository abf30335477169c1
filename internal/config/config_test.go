package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsWithMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_ACCESS_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != StoreDriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.Store.Driver)
	}
	if cfg.JWT.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m access ttl, got %s", cfg.JWT.AccessTokenTTL)
	}
	if got := cfg.CORS.AllowedOrigins; len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %#v", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"postgres without password", func(c *Config) { c.Store.Driver = StoreDriverPostgres }, true},
		{"postgres with password", func(c *Config) { c.Store.Driver = StoreDriverPostgres; c.Database.Password = "x" }, false},
		{"memory", func(c *Config) { c.Store.Driver = StoreDriverMemory }, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, true},
		{"empty secret", func(c *Config) { c.Store.Driver = StoreDriverMemory; c.JWT.Secret = "" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Config{JWT: JWTConfig{Secret: "s", AccessTokenTTL: time.Minute}}
			tc.mutate(c)
			err := c.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	c := &Config{Database: DatabaseConfig{
		User: "u", Password: "p", Host: "h", Port: "5432", Name: "db", SSLMode: "disable", ConnTimeout: 10 * time.Second,
	}}
	want := "postgres://u:p@h:5432/db?sslmode=disable&connect_timeout=10"
	if got := c.GetDSN(); got != want {
		t.Fatalf("GetDSN() = %q, want %q", got, want)
	}
}
