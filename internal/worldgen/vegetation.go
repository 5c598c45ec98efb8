package worldgen

import (
	"math/rand"

	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/logger"
	"github.com/lawnchairsociety/overworld/internal/terrain"
)

// VegetationStats summarizes one scattering pass
type VegetationStats struct {
	Budget   int // Weight budget drawn for the chunk
	Used     int // Weight actually consumed, never above Budget
	Small    int // Single-cell trees placed
	Large    int // 2x2 trees placed
	Attempts int
}

// Scatterer places single and 2x2 trees on open ground until a random
// weight budget is spent
type Scatterer struct {
	maxWeight   int
	smallWeight int
	largeWeight int
	largeChance float64
	maxAttempts int
}

// NewScatterer creates a scatterer from the vegetation parameters
func NewScatterer(cfg config.VegetationConfig) *Scatterer {
	return &Scatterer{
		maxWeight:   cfg.TreeMaxWeight,
		smallWeight: cfg.SmallTreeWeight,
		largeWeight: cfg.LargeTreeWeight,
		largeChance: cfg.LargeTreeChance,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Scatter places trees on Grass and Road cells of grid. Running out of
// attempts before the budget is spent is a normal outcome.
func (s *Scatterer) Scatter(grid *terrain.Grid, rng *rand.Rand) VegetationStats {
	stats := VegetationStats{Budget: rng.Intn(s.maxWeight + 1)}
	if grid.Width() == 0 || grid.Height() == 0 {
		return stats
	}

	for stats.Attempts < s.maxAttempts && stats.Used < stats.Budget {
		stats.Attempts++
		remaining := stats.Budget - stats.Used
		if remaining < s.smallWeight && remaining < s.largeWeight {
			break
		}

		x := rng.Intn(grid.Width())
		y := rng.Intn(grid.Height())
		if !grid.At(x, y).IsOpenGround() {
			continue
		}

		if rng.Float64() < s.largeChance && remaining >= s.largeWeight && s.canPlaceLarge(grid, x, y) {
			grid.FillRect(x, y, 2, 2, terrain.LargeTree)
			stats.Used += s.largeWeight
			stats.Large++
			continue
		}

		if remaining >= s.smallWeight {
			grid.Set(x, y, terrain.Tree)
			stats.Used += s.smallWeight
			stats.Small++
		}
	}

	if stats.Used < stats.Budget {
		logger.Debug("Vegetation budget not met",
			"budget", stats.Budget, "used", stats.Used, "attempts", stats.Attempts)
	}

	return stats
}

// canPlaceLarge reports whether the 2x2 block with top-left (x, y) is in
// bounds and entirely open ground
func (s *Scatterer) canPlaceLarge(grid *terrain.Grid, x, y int) bool {
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			if !grid.InBounds(x+dx, y+dy) || !grid.At(x+dx, y+dy).IsOpenGround() {
				return false
			}
		}
	}
	return true
}
