package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config represents the server configuration surface.
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	MongoDB  MongoDBConfig
	Snapshot SnapshotConfig
	LogLevel string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	// APIToken, when set, is required as a bearer token on API routes.
	APIToken string
}

// CatalogConfig locates the SQLite catalog.
type CatalogConfig struct {
	SQLitePath string
}

// MongoDBConfig holds settings for the plan archive. An empty URI disables archiving.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SnapshotConfig holds scheduler-related settings.
type SnapshotConfig struct {
	CronSchedule string
}

// ArchiveEnabled reports whether plan snapshots should be archived
func (c *Config) ArchiveEnabled() bool {
	return c.MongoDB.URI != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("CAPACITY_HTTP_PORT", "8080"),
			APIToken: os.Getenv("CAPACITY_API_TOKEN"),
		},
		Catalog: CatalogConfig{
			SQLitePath: getenvWithDefault("CAPACITY_SQLITE_PATH", "capacity.db"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "capacity"),
		},
		Snapshot: SnapshotConfig{
			CronSchedule: getenvWithDefault("CAPACITY_SNAPSHOT_CRON", "0 6 * * *"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("CAPACITY_HTTP_PORT must be provided")
	}

	if c.Catalog.SQLitePath == "" {
		return errors.New("CAPACITY_SQLITE_PATH must be provided")
	}

	if c.ArchiveEnabled() {
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
		}
		if _, err := cron.ParseStandard(c.Snapshot.CronSchedule); err != nil {
			return fmt.Errorf("CAPACITY_SNAPSHOT_CRON is invalid: %w", err)
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
