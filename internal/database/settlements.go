package database

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/settlement"
)

// SaveSettlements replaces the stored settlement plan of a world.
func (d *Database) SaveSettlements(worldID string, settlements []settlement.Settlement) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(d.qb.Build("DELETE FROM settlements WHERE world_id = ?"), worldID); err != nil {
		return fmt.Errorf("failed to clear settlements: %w", err)
	}

	insert := d.qb.Build(
		`INSERT INTO settlements (world_id, ordinal, x, y, name, symbol, archetypes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for i, s := range settlements {
		if _, err := tx.Exec(insert,
			worldID, i, s.Coord.X, s.Coord.Y, s.Name, s.Symbol, formatArchetypes(s.Archetypes),
		); err != nil {
			return fmt.Errorf("failed to save settlement %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadSettlements returns the stored settlement plan of a world in plan
// order. A world without settlements yields an empty, non-nil slice.
func (d *Database) LoadSettlements(worldID string) ([]settlement.Settlement, error) {
	rows, err := d.db.Query(d.qb.Build(
		`SELECT x, y, name, symbol, archetypes FROM settlements
		 WHERE world_id = ? ORDER BY ordinal`), worldID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	defer rows.Close()

	settlements := []settlement.Settlement{}
	for rows.Next() {
		var s settlement.Settlement
		var archetypes string
		if err := rows.Scan(&s.Coord.X, &s.Coord.Y, &s.Name, &s.Symbol, &archetypes); err != nil {
			return nil, fmt.Errorf("failed to read settlement: %w", err)
		}
		s.Archetypes, err = parseArchetypes(archetypes)
		if err != nil {
			return nil, fmt.Errorf("settlement %q at %s: %w", s.Name, s.Coord, err)
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

func formatArchetypes(archetypes []catalog.Archetype) string {
	names := make([]string, len(archetypes))
	for i, a := range archetypes {
		names[i] = a.String()
	}
	return strings.Join(names, ",")
}

func parseArchetypes(s string) ([]catalog.Archetype, error) {
	if s == "" {
		return nil, nil
	}
	var archetypes []catalog.Archetype
	for _, name := range strings.Split(s, ",") {
		a, ok := catalog.ParseArchetype(name)
		if !ok {
			return nil, fmt.Errorf("unknown archetype %q", name)
		}
		archetypes = append(archetypes, a)
	}
	return archetypes, nil
}
