package database

import (
	"strings"
)

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
// For SQLite, returns the query unchanged.
// For PostgreSQL, converts ? to $1, $2, etc.
//
// Example:
//
//	input:  "SELECT seed FROM worlds WHERE id = ? AND seed = ?"
//	SQLite: "SELECT seed FROM worlds WHERE id = ? AND seed = ?"
//	Postgres: "SELECT seed FROM worlds WHERE id = $1 AND seed = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1

	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}

	return result.String()
}

// Schema substitutes dialect column types into a DDL statement.
// {{bigint}} becomes the dialect's 64-bit integer type.
func (qb *QueryBuilder) Schema(ddl string) string {
	return strings.ReplaceAll(ddl, "{{bigint}}", qb.dialect.BigIntType())
}
