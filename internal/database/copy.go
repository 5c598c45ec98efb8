package database

import (
	"errors"
	"fmt"
)

// CopyStats counts what CopyWorlds moved.
type CopyStats struct {
	Worlds      int
	Settlements int
	Skipped     int
}

// CopyWorlds copies every world and its settlement plan from src to dst.
// Worlds already present in dst are skipped. With dryRun set nothing is
// written, but the counts still reflect what would be copied.
func CopyWorlds(src, dst *Database, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	worlds, err := src.ListWorlds()
	if err != nil {
		return stats, err
	}

	for _, w := range worlds {
		settlements, err := src.LoadSettlements(w.ID)
		if err != nil {
			return stats, fmt.Errorf("world %s: %w", w.ID, err)
		}

		if dryRun {
			if _, err := dst.LoadWorld(w.ID); err == nil {
				stats.Skipped++
				continue
			}
			stats.Worlds++
			stats.Settlements += len(settlements)
			continue
		}

		if err := dst.SaveWorld(w); err != nil {
			if errors.Is(err, ErrWorldExists) {
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("world %s: %w", w.ID, err)
		}
		if err := dst.SaveSettlements(w.ID, settlements); err != nil {
			return stats, fmt.Errorf("world %s: %w", w.ID, err)
		}
		stats.Worlds++
		stats.Settlements += len(settlements)
	}

	return stats, nil
}
