package database

import (
	"fmt"
	"strings"
)

// PostgresDialect implements Dialect for PostgreSQL databases.
type PostgresDialect struct{}

// DriverName returns "postgres" for the lib/pq driver.
func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// DataSourceName builds a lib/pq keyword/value connection string.
func (d *PostgresDialect) DataSourceName(cfg Config) string {
	pg := cfg.Postgres
	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.User, pg.Password, pg.Database, sslMode)
}

// Placeholder returns "$N" for the given position (PostgreSQL uses numbered placeholders).
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// BigIntType returns "BIGINT".
func (d *PostgresDialect) BigIntType() string {
	return "BIGINT"
}

// InitStatements returns PostgreSQL initialization statements.
// Foreign keys are always enabled in PostgreSQL, so nothing is needed.
func (d *PostgresDialect) InitStatements() []string {
	return nil
}

// IsDuplicateKeyError returns true if the error is a PostgreSQL unique violation.
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// PostgreSQL error code 23505 is unique_violation
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "23505") ||
		strings.Contains(errStr, "unique constraint")
}
