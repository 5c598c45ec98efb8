package worldgen

import (
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/terrain"
)

func TestScatterBudget(t *testing.T) {
	s := NewScatterer(config.DefaultConfig().Vegetation)

	for seed := int64(0); seed < 30; seed++ {
		grid := terrain.NewGrid(40, 30, terrain.Grass)
		stats := s.Scatter(grid, rand.New(rand.NewSource(seed)))

		if stats.Budget < 0 || stats.Budget > 30 {
			t.Errorf("seed %d: budget %d outside [0,30]", seed, stats.Budget)
		}
		if stats.Used > stats.Budget {
			t.Errorf("seed %d: used %d exceeds budget %d", seed, stats.Used, stats.Budget)
		}
		if stats.Used != stats.Small+4*stats.Large {
			t.Errorf("seed %d: used %d, want small %d + 4*large %d", seed, stats.Used, stats.Small, stats.Large)
		}
		if got := grid.Count(terrain.Tree); got != stats.Small {
			t.Errorf("seed %d: tree cells = %d, want %d", seed, got, stats.Small)
		}
		if got := grid.Count(terrain.LargeTree); got != 4*stats.Large {
			t.Errorf("seed %d: large tree cells = %d, want %d", seed, got, 4*stats.Large)
		}
		if stats.Attempts > 200 {
			t.Errorf("seed %d: attempts %d exceed the bound", seed, stats.Attempts)
		}
	}
}

func TestScatterOnlyOnOpenGround(t *testing.T) {
	s := NewScatterer(config.VegetationConfig{
		TreeMaxWeight:   50,
		SmallTreeWeight: 1,
		LargeTreeWeight: 4,
		LargeTreeChance: 0.5,
		MaxAttempts:     500,
	})

	// Left half water, right half grass
	grid := terrain.NewGrid(20, 10, terrain.Grass)
	grid.FillRect(0, 0, 10, 10, terrain.Water)

	s.Scatter(grid, rand.New(rand.NewSource(4)))

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if grid.At(x, y) != terrain.Water {
				t.Fatalf("cell (%d,%d) = %s, water should be untouched", x, y, grid.At(x, y))
			}
		}
	}
}

func TestScatterLargeTreesAreBlocks(t *testing.T) {
	s := NewScatterer(config.VegetationConfig{
		TreeMaxWeight:   40,
		SmallTreeWeight: 1,
		LargeTreeWeight: 4,
		LargeTreeChance: 1,
		MaxAttempts:     500,
	})

	for seed := int64(0); seed < 10; seed++ {
		grid := terrain.NewGrid(30, 30, terrain.Road)
		s.Scatter(grid, rand.New(rand.NewSource(seed)))

		// Placement never overlaps, so every large tree component is a
		// union of whole 2x2 blocks
		for _, comp := range grid.Components(terrain.LargeTree) {
			if len(comp)%4 != 0 {
				t.Errorf("seed %d: large tree component of %d cells", seed, len(comp))
			}
		}
	}
}

func TestScatterNoOpenGround(t *testing.T) {
	s := NewScatterer(config.DefaultConfig().Vegetation)
	grid := terrain.NewGrid(10, 10, terrain.Water)

	stats := s.Scatter(grid, rand.New(rand.NewSource(1)))

	if stats.Used != 0 {
		t.Errorf("used = %d, want 0", stats.Used)
	}
	if grid.Count(terrain.Water) != 100 {
		t.Error("grid should be untouched")
	}
}

func TestScatterZeroBudget(t *testing.T) {
	cfg := config.DefaultConfig().Vegetation
	cfg.TreeMaxWeight = 0
	s := NewScatterer(cfg)
	grid := terrain.NewGrid(10, 10, terrain.Grass)

	stats := s.Scatter(grid, rand.New(rand.NewSource(1)))

	if stats.Budget != 0 || stats.Attempts != 0 {
		t.Errorf("stats = %+v, want zero budget and no attempts", stats)
	}
}
