package worldgen

import (
	"math/rand"

	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/terrain"
)

// Classifier maps a normalized height field onto terrain categories
type Classifier struct {
	mountainThreshold float64
	grassThreshold    float64
	grassChance       float64
	mountainChance    float64
}

// NewClassifier creates a classifier from the terrain thresholds
func NewClassifier(cfg config.TerrainConfig) *Classifier {
	return &Classifier{
		mountainThreshold: cfg.MountainThreshold,
		grassThreshold:    cfg.GrassThreshold,
		grassChance:       cfg.GrassChance,
		mountainChance:    cfg.MountainChance,
	}
}

// Classify fills grid from field in a single raster scan (row by row, left
// to right). The neighbor check only ever sees cells classified earlier in
// that scan, because later cells are still Empty; the result therefore
// depends on scan order.
func (c *Classifier) Classify(grid *terrain.Grid, field [][]float64, rng *rand.Rand) {
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			grid.Set(x, y, c.classifyCell(grid, x, y, field[y][x], rng))
		}
	}
}

func (c *Classifier) classifyCell(grid *terrain.Grid, x, y int, h float64, rng *rand.Rand) terrain.Cell {
	switch {
	case h > c.mountainThreshold:
		// Draw before the neighbor check so the sequence of draws does not
		// depend on what neighbors happen to be
		roll := rng.Float64()
		if roll < c.mountainChance && !grid.Neighbors8(x, y, terrain.Mountain) {
			return terrain.Mountain
		}
		return terrain.Road
	case h > c.grassThreshold:
		if rng.Float64() < c.grassChance {
			return terrain.Grass
		}
		return terrain.Road
	default:
		return terrain.Road
	}
}
