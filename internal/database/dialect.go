package database

// Dialect abstracts database-specific SQL syntax differences between SQLite and PostgreSQL.
type Dialect interface {
	// DriverName returns the driver name for sql.Open().
	// SQLite: "sqlite", PostgreSQL: "postgres"
	DriverName() string

	// DataSourceName returns the connection string for sql.Open().
	DataSourceName(cfg Config) string

	// Placeholder returns the parameter placeholder for the given position (1-indexed).
	// SQLite: "?" (ignores position), PostgreSQL: "$1", "$2", etc.
	Placeholder(position int) string

	// BigIntType returns the column type for 64-bit integers such as seeds.
	// SQLite: "INTEGER", PostgreSQL: "BIGINT"
	BigIntType() string

	// InitStatements returns database-specific initialization statements.
	InitStatements() []string

	// IsDuplicateKeyError returns true if the error is a unique constraint violation.
	IsDuplicateKeyError(err error) bool
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect creates a new Dialect for the given type.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}
