// migrate-to-postgres copies stored worlds from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/overworld.db \
//	    -pg-host localhost \
//	    -pg-port 5435 \
//	    -pg-user overworld \
//	    -pg-password overworld \
//	    -pg-database overworld
package main

import (
	"flag"
	"log"

	"github.com/lawnchairsociety/overworld/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/overworld.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5435, "PostgreSQL port")
	pgUser := flag.String("pg-user", "overworld", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "overworld", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "overworld", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	// Opening runs the schema migrations on PostgreSQL as well
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(database.Config{
		Driver: string(database.DialectPostgres),
		Postgres: database.PostgresConfig{
			Host:     *pgHost,
			Port:     *pgPort,
			User:     *pgUser,
			Password: *pgPassword,
			Database: *pgDatabase,
			SSLMode:  *pgSSLMode,
		},
	})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	stats, err := database.CopyWorlds(src, dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed after %d worlds: %v", stats.Worlds, err)
	}

	log.Println("====================================")
	log.Printf("Migration complete! Worlds: %d, settlements: %d, already present: %d",
		stats.Worlds, stats.Settlements, stats.Skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}
