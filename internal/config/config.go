package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends understood by the persistence adapter.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BasePath is the deployment prefix stripped before route matching, e.g. "/workouts".
	BasePath string `yaml:"base_path"`
}

type StorageConfig struct {
	Backend  string         `yaml:"backend"`
	Path     string         `yaml:"path"`
	Dir      string         `yaml:"fallback_dir"`
	Postgres DatabaseConfig `yaml:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage: StorageConfig{
			Backend:  BackendSQLite,
			Path:     "data/caltracker.db",
			Dir:      "data/fallback",
			Postgres: DatabaseConfig{Port: 5432},
		},
		Log: LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		Tailscale: TailscaleConfig{
			Hostname: "caltracker",
			StateDir: "data/tsnet",
		},
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A .env file next to the config file, if present, is loaded into the environment
// first without replacing variables that are already set.
// Env vars use the prefix CALTRACKER_ and underscore-separated paths:
//
//	CALTRACKER_SERVER_HOST, CALTRACKER_SERVER_PORT, CALTRACKER_BASE_PATH,
//	CALTRACKER_STORAGE_BACKEND, CALTRACKER_STORAGE_PATH, CALTRACKER_STORAGE_DIR,
//	CALTRACKER_DB_HOST, CALTRACKER_DB_PORT, CALTRACKER_DB_NAME,
//	CALTRACKER_DB_USER, CALTRACKER_DB_PASSWORD, CALTRACKER_DB_SSLMODE,
//	CALTRACKER_LOG_LEVEL, CALTRACKER_LOG_FILE, CALTRACKER_AUTH_API_KEY,
//	CALTRACKER_TAILSCALE_ENABLED, CALTRACKER_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := defaults()

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("CALTRACKER_SERVER_HOST", &cfg.Server.Host)
	num("CALTRACKER_SERVER_PORT", &cfg.Server.Port)
	str("CALTRACKER_BASE_PATH", &cfg.Server.BasePath)
	str("CALTRACKER_STORAGE_BACKEND", &cfg.Storage.Backend)
	str("CALTRACKER_STORAGE_PATH", &cfg.Storage.Path)
	str("CALTRACKER_STORAGE_DIR", &cfg.Storage.Dir)
	str("CALTRACKER_DB_HOST", &cfg.Storage.Postgres.Host)
	num("CALTRACKER_DB_PORT", &cfg.Storage.Postgres.Port)
	str("CALTRACKER_DB_NAME", &cfg.Storage.Postgres.Name)
	str("CALTRACKER_DB_USER", &cfg.Storage.Postgres.User)
	str("CALTRACKER_DB_PASSWORD", &cfg.Storage.Postgres.Password)
	str("CALTRACKER_DB_SSLMODE", &cfg.Storage.Postgres.SSLMode)
	str("CALTRACKER_LOG_LEVEL", &cfg.Log.Level)
	str("CALTRACKER_LOG_FILE", &cfg.Log.File)
	str("CALTRACKER_AUTH_API_KEY", &cfg.Auth.APIKey)
	str("CALTRACKER_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	if v := os.Getenv("CALTRACKER_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port is required")
	}
	if bp := c.Server.BasePath; bp != "" {
		if !strings.HasPrefix(bp, "/") || strings.HasSuffix(bp, "/") {
			return fmt.Errorf("server.base_path must start with / and not end with /")
		}
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if c.Storage.Postgres.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if c.Storage.Postgres.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	case BackendFile:
	default:
		return fmt.Errorf("storage.backend %q is not one of sqlite, postgres, file", c.Storage.Backend)
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.fallback_dir is required")
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
