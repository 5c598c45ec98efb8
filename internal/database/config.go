package database

import (
	"time"

	"github.com/lawnchairsociety/overworld/internal/config"
)

// Config holds database connection configuration.
type Config struct {
	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string

	// SQLite configuration
	SQLitePath string

	// PostgreSQL configuration
	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config with sensible defaults for SQLite.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     "sqlite",
		SQLitePath: sqlitePath,
	}
}

// FromConfig converts the database section of the service configuration.
func FromConfig(c config.DatabaseConfig) Config {
	driver := c.Driver
	if driver == "" {
		driver = "sqlite"
	}
	return Config{
		Driver:     driver,
		SQLitePath: c.SQLitePath,
		Postgres: PostgresConfig{
			Host:            c.Postgres.Host,
			Port:            c.Postgres.Port,
			User:            c.Postgres.User,
			Password:        c.Postgres.Password,
			Database:        c.Postgres.Database,
			SSLMode:         c.Postgres.SSLMode,
			MaxOpenConns:    c.Postgres.MaxOpenConns,
			MaxIdleConns:    c.Postgres.MaxIdleConns,
			ConnMaxLifetime: c.Postgres.ConnMaxLifetime,
		},
	}
}
