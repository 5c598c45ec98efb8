// Package database persists worlds and their settlements so a restarted
// service regenerates the same chunks.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database described by cfg and runs migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	if _, ok := dialect.(*SQLiteDialect); ok {
		// Ensure directory exists
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DataSourceName(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, ok := dialect.(*SQLiteDialect); ok {
		// PRAGMAs are per connection
		db.SetMaxOpenConns(1)
	}

	if _, ok := dialect.(*PostgresDialect); ok {
		pg := cfg.Postgres
		if pg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(pg.MaxOpenConns)
		}
		if pg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(pg.MaxIdleConns)
		}
		if pg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(pg.ConnMaxLifetime)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database (%s): %w", stmt, err)
		}
	}

	d := &Database{
		db:      db,
		dialect: dialect,
		qb:      NewQueryBuilder(dialect),
	}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		// One row per generated world
		`CREATE TABLE IF NOT EXISTS worlds (
			id TEXT PRIMARY KEY,
			seed {{bigint}} NOT NULL,
			chunk_width INTEGER NOT NULL,
			chunk_height INTEGER NOT NULL,
			world_width INTEGER NOT NULL,
			world_height INTEGER NOT NULL,
			created_at {{bigint}} NOT NULL
		)`,

		// Settlement plan of each world, in plan order
		`CREATE TABLE IF NOT EXISTS settlements (
			world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			name TEXT NOT NULL,
			symbol TEXT NOT NULL,
			archetypes TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (world_id, ordinal),
			UNIQUE (world_id, x, y)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_worlds_created_at ON worlds(created_at)`,
	}

	for _, m := range migrations {
		stmt := d.qb.Schema(m)
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, stmt)
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}
