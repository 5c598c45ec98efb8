package database

import (
	"strings"
)

// SQLiteDialect implements Dialect for SQLite databases.
type SQLiteDialect struct{}

// DriverName returns "sqlite" for the modernc.org/sqlite driver.
func (d *SQLiteDialect) DriverName() string {
	return "sqlite"
}

// DataSourceName returns the database file path.
func (d *SQLiteDialect) DataSourceName(cfg Config) string {
	return cfg.SQLitePath
}

// Placeholder returns "?" for all positions (SQLite uses positional ? placeholders).
func (d *SQLiteDialect) Placeholder(position int) string {
	return "?"
}

// BigIntType returns "INTEGER", which SQLite stores as up to 8 bytes.
func (d *SQLiteDialect) BigIntType() string {
	return "INTEGER"
}

// InitStatements returns SQLite PRAGMA statements for optimal operation.
func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

// IsDuplicateKeyError returns true if the error is a SQLite UNIQUE constraint violation.
func (d *SQLiteDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
