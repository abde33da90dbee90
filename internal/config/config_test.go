package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		API:      APIConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "sqlite", Path: "resumes.db"},
		Session:  SessionConfig{Secret: "s3cr3t", TTL: 24 * time.Hour},
		Converter: ConverterConfig{
			Kind:       "wkhtmltopdf",
			BinaryPath: "/bin/wkhtmltopdf",
			Timeout:    30 * time.Second,
		},
		Artifacts: ArtifactsConfig{PDFDir: "static/pdfs", UploadDir: "static/uploads"},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing session secret", func(c *Config) { c.Session.Secret = "" }},
		{"non-positive session ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"unknown database driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }},
		{"postgres without host", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.Host = ""
		}},
		{"unknown converter kind", func(c *Config) { c.Converter.Kind = "ghostscript" }},
		{"wkhtmltopdf without binary", func(c *Config) { c.Converter.BinaryPath = "" }},
		{"non-positive converter timeout", func(c *Config) { c.Converter.Timeout = 0 }},
		{"missing pdf dir", func(c *Config) { c.Artifacts.PDFDir = "" }},
		{"redis addr with zero rate limit", func(c *Config) {
			c.Redis.Addr = "localhost:6379"
			c.Redis.LoginRateLimitPerHour = 0
		}},
		{"archive enabled without endpoint", func(c *Config) { c.Archive.Enabled = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Fatal("expected validation to fail")
			}
		})
	}
}

func TestValidateChromiumNeedsNoBinary(t *testing.T) {
	cfg := validConfig()
	cfg.Converter.Kind = "chromium"
	cfg.Converter.BinaryPath = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("chromium converter must not require a binary path: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SESSION_SECRET", "env-secret")
	t.Setenv("API_PORT", "9090")
	t.Setenv("CONVERTER_KIND", "chromium")
	t.Setenv("PDF_DIR", "/tmp/pdfs")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Secret != "env-secret" {
		t.Fatalf("unexpected session secret %q", cfg.Session.Secret)
	}
	if cfg.API.Port != 9090 {
		t.Fatalf("unexpected api port %d", cfg.API.Port)
	}
	if cfg.Converter.Kind != "chromium" {
		t.Fatalf("unexpected converter kind %q", cfg.Converter.Kind)
	}
	if cfg.Artifacts.PDFDir != "/tmp/pdfs" {
		t.Fatalf("unexpected pdf dir %q", cfg.Artifacts.PDFDir)
	}

	// Untouched settings keep their defaults.
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "resumes.db" {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected load to fail without a session secret")
	}
}
