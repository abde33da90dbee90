package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Converter ConverterConfig `mapstructure:"converter"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig selects between the file-backed sqlite store (the default)
// and PostgreSQL.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// SessionConfig carries the session-cookie signing key and lifetime.
// The key is configuration, never a module-level constant.
type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieDomain string        `mapstructure:"cookie_domain"`
}

// ConverterConfig selects the HTML-to-PDF converter implementation.
type ConverterConfig struct {
	Kind       string        `mapstructure:"kind"`
	BinaryPath string        `mapstructure:"binary_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ArtifactsConfig lists directories created at startup if absent.
type ArtifactsConfig struct {
	PDFDir    string `mapstructure:"pdf_dir"`
	UploadDir string `mapstructure:"upload_dir"`
}

// RedisConfig enables the optional login throttle when Addr is set.
type RedisConfig struct {
	Addr                  string        `mapstructure:"addr"`
	LoginRateLimitPerHour int           `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL          time.Duration `mapstructure:"login_lock_ttl"`
}

// ArchiveConfig enables the optional MinIO/S3 mirror for exported PDFs.
type ArchiveConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// DSN builds a lib/pq compatible connection string for the postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "resumes.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "resumeforge")
	v.SetDefault("database.user", "resumeforge")
	v.SetDefault("database.password", "resumeforge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("converter.kind", "wkhtmltopdf")
	v.SetDefault("converter.binary_path", "/bin/wkhtmltopdf")
	v.SetDefault("converter.timeout", 30*time.Second)
	v.SetDefault("artifacts.pdf_dir", "static/pdfs")
	v.SetDefault("artifacts.upload_dir", "static/uploads")
	v.SetDefault("redis.login_rate_limit_per_hour", 10)
	v.SetDefault("redis.login_lock_threshold", 5)
	v.SetDefault("redis.login_lock_ttl", 15*time.Minute)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.use_ssl", false)
	v.SetDefault("archive.bucket", "resumes")
	v.SetDefault("archive.auto_create_bucket", true)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                        "API_PORT",
		"database.driver":                 "DATABASE_DRIVER",
		"database.path":                   "DATABASE_PATH",
		"database.host":                   "DATABASE_HOST",
		"database.port":                   "DATABASE_PORT",
		"database.name":                   "POSTGRES_DB",
		"database.user":                   "POSTGRES_USER",
		"database.password":               "POSTGRES_PASSWORD",
		"database.sslmode":                "DATABASE_SSLMODE",
		"session.secret":                  "SESSION_SECRET",
		"session.ttl":                     "SESSION_TTL",
		"session.cookie_domain":           "SESSION_COOKIE_DOMAIN",
		"converter.kind":                  "CONVERTER_KIND",
		"converter.binary_path":           "CONVERTER_BINARY",
		"converter.timeout":               "CONVERTER_TIMEOUT",
		"artifacts.pdf_dir":               "PDF_DIR",
		"artifacts.upload_dir":            "UPLOAD_DIR",
		"redis.addr":                      "REDIS_ADDR",
		"redis.login_rate_limit_per_hour": "LOGIN_RATE_LIMIT_PER_HOUR",
		"redis.login_lock_threshold":      "LOGIN_LOCK_THRESHOLD",
		"redis.login_lock_ttl":            "LOGIN_LOCK_TTL",
		"archive.enabled":                 "ARCHIVE_ENABLED",
		"archive.endpoint":                "MINIO_ENDPOINT",
		"archive.access_key_id":           "MINIO_ACCESS_KEY_ID",
		"archive.secret_access_key":       "MINIO_SECRET_ACCESS_KEY",
		"archive.use_ssl":                 "MINIO_USE_SSL",
		"archive.bucket":                  "MINIO_BUCKET",
		"archive.auto_create_bucket":      "MINIO_AUTO_CREATE_BUCKET",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

// Validate rejects configurations that cannot produce a working process.
func Validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}

	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.Path == "" {
			return errors.New("database path is required for the sqlite driver")
		}
	case "postgres":
		if cfg.Database.Host == "" {
			return errors.New("database host is required")
		}
		if cfg.Database.Port <= 0 {
			return errors.New("database port must be positive")
		}
		if cfg.Database.Name == "" {
			return errors.New("database name is required")
		}
		if cfg.Database.User == "" {
			return errors.New("database user is required")
		}
		if cfg.Database.Password == "" {
			return errors.New("database password is required")
		}
		if cfg.Database.SSLMode == "" {
			return errors.New("database sslmode is required")
		}
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	if cfg.Session.Secret == "" {
		return errors.New("session secret is required")
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}

	switch cfg.Converter.Kind {
	case "wkhtmltopdf":
		if cfg.Converter.BinaryPath == "" {
			return errors.New("converter binary path is required")
		}
	case "chromium":
		// go-rod locates the browser itself
	default:
		return fmt.Errorf("unknown converter kind %q", cfg.Converter.Kind)
	}
	if cfg.Converter.Timeout <= 0 {
		return errors.New("converter timeout must be positive")
	}

	if cfg.Artifacts.PDFDir == "" {
		return errors.New("pdf directory is required")
	}
	if cfg.Artifacts.UploadDir == "" {
		return errors.New("upload directory is required")
	}

	if cfg.Redis.Addr != "" {
		if cfg.Redis.LoginRateLimitPerHour <= 0 {
			return errors.New("login rate limit must be positive")
		}
		if cfg.Redis.LoginLockThreshold <= 0 {
			return errors.New("login lock threshold must be positive")
		}
		if cfg.Redis.LoginLockTTL <= 0 {
			return errors.New("login lock ttl must be positive")
		}
	}

	if cfg.Archive.Enabled {
		if cfg.Archive.Endpoint == "" {
			return errors.New("archive endpoint is required")
		}
		if cfg.Archive.AccessKeyID == "" {
			return errors.New("archive access key id is required")
		}
		if cfg.Archive.SecretAccessKey == "" {
			return errors.New("archive secret access key is required")
		}
		if cfg.Archive.Bucket == "" {
			return errors.New("archive bucket is required")
		}
	}

	return nil
}
