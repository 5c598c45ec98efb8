package worldgen

import (
	"math/rand"

	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/logger"
	"github.com/lawnchairsociety/overworld/internal/terrain"
)

const (
	branchMinLength = 3
	branchMaxLength = 7

	// maxStartAttempts bounds the search for a river source outside any
	// reserved area
	maxStartAttempts = 50
)

// Reserved reports whether a cell must not be overwritten by rivers
type Reserved func(x, y int) bool

// RiverStats summarizes one carving pass
type RiverStats struct {
	Rivers   int // Rivers that found a start cell
	Skipped  int // Rivers abandoned because no start cell was found
	Branches int
	Cells    int // Cells newly turned into water
}

// RiverCarver walks straight water lines across a grid, with occasional
// perpendicular branches
type RiverCarver struct {
	count        int
	minLength    int
	branchChance float64
}

// NewRiverCarver creates a carver from the river parameters
func NewRiverCarver(cfg config.RiverConfig) *RiverCarver {
	return &RiverCarver{
		count:        cfg.Count,
		minLength:    cfg.MinLength,
		branchChance: cfg.BranchChance,
	}
}

// Carve draws the configured number of rivers into grid. Walks stop at the
// grid edge and at reserved cells; reserved may be nil.
func (rc *RiverCarver) Carve(grid *terrain.Grid, rng *rand.Rand, reserved Reserved) RiverStats {
	var stats RiverStats
	if grid.Width() == 0 || grid.Height() == 0 {
		return stats
	}
	if reserved == nil {
		reserved = func(x, y int) bool { return false }
	}

	for i := 0; i < rc.count; i++ {
		x, y, ok := rc.pickStart(grid, rng, reserved)
		if !ok {
			stats.Skipped++
			logger.Debug("River skipped, no free start cell", "river", i)
			continue
		}
		stats.Rivers++
		rc.carveRiver(grid, rng, reserved, x, y, &stats)
	}

	return stats
}

// pickStart draws a uniformly random start cell, retrying while it lands on
// a reserved cell
func (rc *RiverCarver) pickStart(grid *terrain.Grid, rng *rand.Rand, reserved Reserved) (int, int, bool) {
	for attempt := 0; attempt < maxStartAttempts; attempt++ {
		x := rng.Intn(grid.Width())
		y := rng.Intn(grid.Height())
		if !reserved(x, y) {
			return x, y, true
		}
	}
	return 0, 0, false
}

func (rc *RiverCarver) carveRiver(grid *terrain.Grid, rng *rand.Rand, reserved Reserved, x, y int, stats *RiverStats) {
	rc.mark(grid, x, y, stats)

	dir := terrain.AllDirections()[rng.Intn(4)]
	length := rc.riverLength(grid, x, y, rng)
	dx, dy := dir.Delta()

	for step := 0; step < length; step++ {
		nx, ny := x+dx, y+dy
		if !grid.InBounds(nx, ny) || reserved(nx, ny) {
			break
		}
		x, y = nx, ny
		rc.mark(grid, x, y, stats)

		if rng.Float64() < rc.branchChance {
			stats.Branches++
			rc.carveBranch(grid, rng, reserved, x, y, dir, stats)
		}
	}
}

// riverLength draws a walk length between the minimum and the largest
// distance from the start cell to any edge
func (rc *RiverCarver) riverLength(grid *terrain.Grid, x, y int, rng *rand.Rand) int {
	upper := max(grid.Width()-x, grid.Height()-y, x, y)
	if upper < rc.minLength+1 {
		upper = rc.minLength + 1
	}
	return rc.minLength + rng.Intn(upper-rc.minLength+1)
}

// carveBranch walks 3-7 cells in one of the two directions perpendicular to
// the parent. Branches never branch again.
func (rc *RiverCarver) carveBranch(grid *terrain.Grid, rng *rand.Rand, reserved Reserved, x, y int, parent terrain.Direction, stats *RiverStats) {
	dir := parent.Perpendicular()[rng.Intn(2)]
	length := branchMinLength + rng.Intn(branchMaxLength-branchMinLength+1)
	dx, dy := dir.Delta()

	for step := 0; step < length; step++ {
		x, y = x+dx, y+dy
		if !grid.InBounds(x, y) || reserved(x, y) {
			return
		}
		rc.mark(grid, x, y, stats)
	}
}

func (rc *RiverCarver) mark(grid *terrain.Grid, x, y int, stats *RiverStats) {
	if grid.At(x, y) != terrain.Water {
		stats.Cells++
	}
	grid.Set(x, y, terrain.Water)
}
