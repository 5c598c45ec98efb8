package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lawnchairsociety/overworld/internal/config"
)

// ErrWorldNotFound is returned when a world lookup fails.
var ErrWorldNotFound = errors.New("world not found")

// ErrWorldExists is returned when saving a world whose ID is taken.
var ErrWorldExists = errors.New("world already exists")

// WorldRecord describes a stored world: everything needed to regenerate
// its chunks apart from the tunables.
type WorldRecord struct {
	ID          string
	Seed        int64
	ChunkWidth  int
	ChunkHeight int
	WorldWidth  int
	WorldHeight int
	CreatedAt   time.Time
}

// NewWorldRecord creates a record with a fresh ID for a world of the given
// seed and dimensions.
func NewWorldRecord(seed int64, wc config.WorldConfig) WorldRecord {
	return WorldRecord{
		ID:          uuid.NewString(),
		Seed:        seed,
		ChunkWidth:  wc.ChunkWidth,
		ChunkHeight: wc.ChunkHeight,
		WorldWidth:  wc.WorldWidth,
		WorldHeight: wc.WorldHeight,
		CreatedAt:   time.Now().UTC(),
	}
}

// Matches reports whether the stored dimensions equal wc.
func (w *WorldRecord) Matches(wc config.WorldConfig) bool {
	return w.ChunkWidth == wc.ChunkWidth && w.ChunkHeight == wc.ChunkHeight &&
		w.WorldWidth == wc.WorldWidth && w.WorldHeight == wc.WorldHeight
}

// SaveWorld inserts a new world record.
func (d *Database) SaveWorld(w WorldRecord) error {
	if w.ID == "" {
		return errors.New("world ID cannot be empty")
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}

	_, err := d.db.Exec(d.qb.Build(
		`INSERT INTO worlds (id, seed, chunk_width, chunk_height, world_width, world_height, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		w.ID, w.Seed, w.ChunkWidth, w.ChunkHeight, w.WorldWidth, w.WorldHeight, w.CreatedAt.UnixNano(),
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return ErrWorldExists
		}
		return fmt.Errorf("failed to save world: %w", err)
	}
	return nil
}

// LoadWorld retrieves a world by ID.
func (d *Database) LoadWorld(id string) (*WorldRecord, error) {
	row := d.db.QueryRow(d.qb.Build(
		`SELECT id, seed, chunk_width, chunk_height, world_width, world_height, created_at
		 FROM worlds WHERE id = ?`), id)
	return scanWorld(row)
}

// LoadLatestWorld retrieves the most recently created world.
func (d *Database) LoadLatestWorld() (*WorldRecord, error) {
	row := d.db.QueryRow(
		`SELECT id, seed, chunk_width, chunk_height, world_width, world_height, created_at
		 FROM worlds ORDER BY created_at DESC LIMIT 1`)
	return scanWorld(row)
}

// ListWorlds returns every stored world, newest first.
func (d *Database) ListWorlds() ([]WorldRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, seed, chunk_width, chunk_height, world_width, world_height, created_at
		 FROM worlds ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}
	defer rows.Close()

	var worlds []WorldRecord
	for rows.Next() {
		w, err := scanWorld(rows)
		if err != nil {
			return nil, err
		}
		worlds = append(worlds, *w)
	}
	return worlds, rows.Err()
}

// DeleteWorld removes a world and its settlements.
func (d *Database) DeleteWorld(id string) error {
	result, err := d.db.Exec(d.qb.Build("DELETE FROM worlds WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete world: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrWorldNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorld(row rowScanner) (*WorldRecord, error) {
	var w WorldRecord
	var created int64
	err := row.Scan(&w.ID, &w.Seed, &w.ChunkWidth, &w.ChunkHeight, &w.WorldWidth, &w.WorldHeight, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorldNotFound
		}
		return nil, fmt.Errorf("failed to read world: %w", err)
	}
	w.CreatedAt = time.Unix(0, created).UTC()
	return &w, nil
}
