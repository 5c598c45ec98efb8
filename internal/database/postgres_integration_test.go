package database

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lawnchairsociety/overworld/internal/config"
)

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set these environment variables to run PostgreSQL tests:
//
//	OVERWORLD_TEST_POSTGRES (any value enables the tests)
//	OVERWORLD_TEST_POSTGRES_HOST (default: localhost)
//	OVERWORLD_TEST_POSTGRES_PORT (default: 5435)
//	OVERWORLD_TEST_POSTGRES_USER (default: overworld)
//	OVERWORLD_TEST_POSTGRES_PASSWORD (default: overworld)
//	OVERWORLD_TEST_POSTGRES_DATABASE (default: overworld_test)
func getPostgresTestConfig() *Config {
	if os.Getenv("OVERWORLD_TEST_POSTGRES") == "" {
		return nil
	}

	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	port := 5435
	if portStr := os.Getenv("OVERWORLD_TEST_POSTGRES_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}

	return &Config{
		Driver: "postgres",
		Postgres: PostgresConfig{
			Host:            env("OVERWORLD_TEST_POSTGRES_HOST", "localhost"),
			Port:            port,
			User:            env("OVERWORLD_TEST_POSTGRES_USER", "overworld"),
			Password:        env("OVERWORLD_TEST_POSTGRES_PASSWORD", "overworld"),
			Database:        env("OVERWORLD_TEST_POSTGRES_DATABASE", "overworld_test"),
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 1 * time.Minute,
		},
	}
}

// skipIfNoPostgres skips the test if PostgreSQL is not available
func skipIfNoPostgres(t *testing.T) *Config {
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: OVERWORLD_TEST_POSTGRES not set")
	}
	return cfg
}

// setupPostgresTestDB opens a PostgreSQL connection for testing and clears test data
func setupPostgresTestDB(t *testing.T, cfg *Config) *Database {
	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}

	// settlements cascade from worlds
	if _, err := db.db.Exec("DELETE FROM worlds"); err != nil {
		t.Logf("Note: Could not clean worlds: %v", err)
	}

	t.Cleanup(func() {
		db.db.Exec("DELETE FROM worlds")
		db.Close()
	})

	return db
}

func TestPostgres_OpenWithConfig(t *testing.T) {
	cfg := skipIfNoPostgres(t)

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer db.Close()

	var result int
	if err := db.db.QueryRow("SELECT 1").Scan(&result); err != nil {
		t.Fatalf("Failed to query PostgreSQL: %v", err)
	}
	if result != 1 {
		t.Errorf("Expected 1, got %d", result)
	}
}

func TestPostgres_ConnectionPoolSettings(t *testing.T) {
	cfg := skipIfNoPostgres(t)

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer db.Close()

	stats := db.db.Stats()
	if stats.MaxOpenConnections != cfg.Postgres.MaxOpenConns {
		t.Errorf("Expected MaxOpenConns %d, got %d",
			cfg.Postgres.MaxOpenConns, stats.MaxOpenConnections)
	}
}

// TestPostgres_LargeSeed checks that 64-bit seeds survive BIGINT storage
func TestPostgres_LargeSeed(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)

	rec := NewWorldRecord(-9000000000000000000, config.DefaultConfig().World)
	if err := db.SaveWorld(rec); err != nil {
		t.Fatalf("SaveWorld failed: %v", err)
	}

	got, err := db.LoadWorld(rec.ID)
	if err != nil {
		t.Fatalf("LoadWorld failed: %v", err)
	}
	if got.Seed != rec.Seed {
		t.Errorf("Seed = %d, want %d", got.Seed, rec.Seed)
	}
}

func TestPostgres_DuplicateWorld(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)

	rec := NewWorldRecord(1, config.DefaultConfig().World)
	if err := db.SaveWorld(rec); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveWorld(rec); err != ErrWorldExists {
		t.Errorf("Expected ErrWorldExists, got %v", err)
	}
}

func TestPostgres_ConcurrentWrites(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)

	const numGoroutines = 10
	const writesPerGoroutine = 5

	var wg sync.WaitGroup
	errors := make(chan error, numGoroutines*writesPerGoroutine)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < writesPerGoroutine; j++ {
				rec := NewWorldRecord(int64(workerID*100+j), config.DefaultConfig().World)
				if err := db.SaveWorld(rec); err != nil {
					errors <- fmt.Errorf("worker %d: failed to save world %d: %v", workerID, j, err)
				}
			}
		}(i)
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		t.Error(err)
	}

	worlds, err := db.ListWorlds()
	if err != nil {
		t.Fatalf("ListWorlds failed: %v", err)
	}
	if expected := numGoroutines * writesPerGoroutine; len(worlds) != expected {
		t.Errorf("Expected %d worlds, got %d", expected, len(worlds))
	}
}

func TestPostgres_CascadeDelete(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)

	rec := NewWorldRecord(1, config.DefaultConfig().World)
	if err := db.SaveWorld(rec); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSettlements(rec.ID, testSettlements()); err != nil {
		t.Fatalf("SaveSettlements failed: %v", err)
	}

	if err := db.DeleteWorld(rec.ID); err != nil {
		t.Fatalf("DeleteWorld failed: %v", err)
	}

	var count int
	err := db.db.QueryRow(db.qb.Build("SELECT COUNT(*) FROM settlements WHERE world_id = ?"), rec.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count settlements: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected settlements to be cascade deleted, found %d", count)
	}
}

func TestPostgres_ForeignKeyConstraints(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)

	if err := db.SaveSettlements("no-such-world", testSettlements()); err == nil {
		t.Error("Expected foreign key constraint error, but insert succeeded")
	}
}
