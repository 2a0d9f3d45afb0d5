// Package config loads the YAML application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultConfigPath is used when no -config flag is given.
const defaultConfigPath = "config.yaml"

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Email     EmailConfig     `yaml:"email"`
	Logging   LoggingConfig   `yaml:"logging"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Uploads   UploadsConfig   `yaml:"uploads"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig holds optional Redis settings. An empty addr disables caching.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds admin token settings.
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiry-hours"`
}

// Expiry returns the token lifetime.
func (c JWTConfig) Expiry() time.Duration {
	hours := c.ExpiryHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// EmailConfig holds outbound email settings. Provider is "sendgrid" or
// "console" (default).
type EmailConfig struct {
	Provider    string `yaml:"provider"`
	SendGridKey string `yaml:"sendgrid-key"`
	FromName    string `yaml:"from-name"`
	FromEmail   string `yaml:"from-email"`
}

// LoggingConfig holds log output settings. An empty file logs to stderr
// only.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
}

// BootstrapConfig seeds the initial Level 1 admin when the admins table is
// empty.
type BootstrapConfig struct {
	AdminEmail    string `yaml:"admin-email"`
	AdminPassword string `yaml:"admin-password"`
}

// UploadsConfig holds image upload settings.
type UploadsConfig struct {
	Dir      string `yaml:"dir"`
	MaxBytes int64  `yaml:"max-bytes"`
}

// MaxUploadBytes returns the configured size ceiling, defaulting to 5 MB.
func (c UploadsConfig) MaxUploadBytes() int64 {
	if c.MaxBytes > 0 {
		return c.MaxBytes
	}
	return 5 << 20
}

// ResolveConfigPath applies the default config path when none is given.
func ResolveConfigPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return defaultConfigPath
	}
	return path
}

// Load reads and validates a config file. CAMPUSFRONT_DB_DSN and
// CAMPUSFRONT_JWT_SECRET override their file values so secrets can stay out
// of the file.
func Load(path string) (Config, error) {
	var cfg Config
	raw, errRead := os.ReadFile(ResolveConfigPath(path))
	if errRead != nil {
		return cfg, fmt.Errorf("config: read: %w", errRead)
	}
	if errUnmarshal := yaml.Unmarshal(raw, &cfg); errUnmarshal != nil {
		return cfg, fmt.Errorf("config: parse: %w", errUnmarshal)
	}

	if env := strings.TrimSpace(os.Getenv("CAMPUSFRONT_DB_DSN")); env != "" {
		cfg.Database.DSN = env
	}
	if env := strings.TrimSpace(os.Getenv("CAMPUSFRONT_JWT_SECRET")); env != "" {
		cfg.JWT.Secret = env
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = ":8080"
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return cfg, fmt.Errorf("config: missing database.dsn")
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return cfg, fmt.Errorf("config: missing jwt.secret")
	}
	if strings.TrimSpace(cfg.Uploads.Dir) == "" {
		cfg.Uploads.Dir = "uploads"
	}
	return cfg, nil
}
