package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/database"
	"github.com/lawnchairsociety/overworld/internal/logger"
	"github.com/lawnchairsociety/overworld/internal/server"
	"github.com/lawnchairsociety/overworld/internal/settlement"
	"github.com/lawnchairsociety/overworld/internal/snapshot"
	"github.com/lawnchairsociety/overworld/internal/world"
)

func main() {
	configFile := flag.String("config", "data/overworld.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seed := flag.Int64("seed", 0, "World seed (default: stored world or current time)")
	catalogFile := flag.String("catalog", "", "Path to building template YAML file (overrides config)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	newWorld := flag.Bool("new", false, "Start a new world instead of resuming the stored one")
	readOnly := flag.Bool("readonly", false, "Don't store the world in the database")
	snapshotFile := flag.String("snapshot", "", "Write cached chunks to this snapshot file on shutdown")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logCloser, err := logger.Initialize(logConfig)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logCloser.Close()

	logger.Info("Starting overworld chunk service")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *catalogFile != "" {
		cfg.Settlements.CatalogPath = *catalogFile
	}
	if *addr != "" {
		cfg.WebSocket.Address = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	cat, err := catalog.LoadOrDefault(cfg.Settlements.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load building catalog: %v", err)
	}
	logger.Info("Building catalog loaded", "templates", cat.Len(), "path", cfg.Settlements.CatalogPath)

	var db *database.Database
	if !*readOnly {
		db, err = database.OpenWithConfig(database.FromConfig(cfg.Database))
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		logger.Info("Database initialized", "driver", cfg.Database.Driver)
	} else {
		logger.Info("Running in READ-ONLY MODE - the world won't be stored")
	}

	w, rec, err := openWorld(db, cfg, cat, *newWorld)
	if err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}
	logger.Info("World ready", "id", rec.ID, "seed", rec.Seed, "settlements", len(w.Settlements()))

	if len(cfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(cfg.WebSocket.AllowedOrigins) == 1 && cfg.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.WebSocket.AllowedOrigins)
	}

	srv := server.New(w, cfg.WebSocket, cfg.Connections)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Fatalf("Chunk service error: %v", err)
		}
	}()

	logger.Info("Press Ctrl+C to shutdown")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}

	if *snapshotFile != "" {
		snap, err := srv.Snapshot(rec.ID)
		if err == nil {
			err = snapshot.Write(*snapshotFile, snap)
		}
		if err != nil {
			logger.Error("Failed to write snapshot", "path", *snapshotFile, "error", err)
		} else {
			logger.Info("Snapshot written", "path", *snapshotFile, "chunks", len(snap.Chunks))
		}
	}

	logger.Info("Server stopped")
}

// openWorld resumes the latest stored world when it matches the configured
// dimensions and seed, or creates and stores a new one. db may be nil.
func openWorld(db *database.Database, cfg *config.Config, cat *catalog.Catalog, forceNew bool) (*world.World, database.WorldRecord, error) {
	if db != nil && !forceNew {
		rec, err := db.LoadLatestWorld()
		switch {
		case errors.Is(err, database.ErrWorldNotFound):
			logger.Info("No stored world, creating one")
		case err != nil:
			return nil, database.WorldRecord{}, err
		case !rec.Matches(cfg.World):
			logger.Warning("Stored world has different dimensions, creating a new one", "id", rec.ID)
		case cfg.World.Seed != 0 && cfg.World.Seed != rec.Seed:
			logger.Info("Configured seed differs from stored world, creating a new one",
				"stored", rec.Seed, "configured", cfg.World.Seed)
		default:
			settlements, err := db.LoadSettlements(rec.ID)
			if err != nil {
				return nil, database.WorldRecord{}, err
			}
			logger.Info("Resuming stored world", "id", rec.ID, "created_at", rec.CreatedAt)
			w, err := world.New(cfg, cat, rec.Seed, settlements)
			return w, *rec, err
		}
	}

	worldSeed := cfg.World.Seed
	if worldSeed == 0 {
		worldSeed = time.Now().UnixNano()
		logger.Info("World seed selected", "seed", worldSeed, "random", true)
	} else {
		logger.Info("World seed selected", "seed", worldSeed, "random", false)
	}

	w, err := world.New(cfg, cat, worldSeed, nil)
	if err != nil {
		return nil, database.WorldRecord{}, err
	}
	rec := database.NewWorldRecord(worldSeed, cfg.World)
	if db != nil {
		if err := storeWorld(db, rec, w.Settlements()); err != nil {
			return nil, rec, err
		}
	}
	return w, rec, nil
}

func storeWorld(db *database.Database, rec database.WorldRecord, settlements []settlement.Settlement) error {
	if err := db.SaveWorld(rec); err != nil {
		return err
	}
	return db.SaveSettlements(rec.ID, settlements)
}
