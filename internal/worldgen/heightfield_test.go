package worldgen

import (
	"testing"

	"github.com/lawnchairsociety/overworld/internal/terrain"
)

func TestHeightFieldDeterministic(t *testing.T) {
	a := NewHeightField(42, 40, 30, 0.08)
	b := NewHeightField(42, 40, 30, 0.08)

	for _, c := range []terrain.Coord{{X: 0, Y: 0}, {X: 3, Y: 7}, {X: 15, Y: 15}} {
		fa := a.Chunk(c)
		fb := b.Chunk(c)
		for y := range fa {
			for x := range fa[y] {
				if fa[y][x] != fb[y][x] {
					t.Fatalf("chunk %v cell (%d,%d) differs: %v vs %v", c, x, y, fa[y][x], fb[y][x])
				}
			}
		}
	}
}

func TestHeightFieldUsesWorldCoordinates(t *testing.T) {
	h := NewHeightField(7, 40, 30, 0.08)

	// The last column of chunk 0 and the first column of chunk 1 sample
	// adjacent world positions; the same world position must agree no matter
	// which chunk asks for it.
	if h.Sample(1, 0, 0, 5) != h.Sample(0, 0, 40, 5) {
		t.Error("Sample should depend on absolute world position only")
	}
	if h.Sample(0, 2, 3, 0) != h.Sample(0, 1, 3, 30) {
		t.Error("Sample should depend on absolute world position only (y axis)")
	}
}

func TestHeightFieldNormalizedRange(t *testing.T) {
	h := NewHeightField(99, 40, 30, 0.08)
	field := h.Chunk(terrain.Coord{X: 2, Y: 3})

	if len(field) != 30 || len(field[0]) != 40 {
		t.Fatalf("field size = %dx%d, want 40x30", len(field[0]), len(field))
	}

	sawZero, sawOne := false, false
	for _, row := range field {
		for _, v := range row {
			if v < 0 || v > 1 {
				t.Fatalf("value %v outside [0,1]", v)
			}
			if v == 0 {
				sawZero = true
			}
			if v == 1 {
				sawOne = true
			}
		}
	}
	if !sawZero || !sawOne {
		t.Errorf("normalized field should span [0,1]: sawZero=%v sawOne=%v", sawZero, sawOne)
	}
}

func TestNormalizeFlatField(t *testing.T) {
	field := [][]float64{{0.3, 0.3}, {0.3, 0.3}}
	Normalize(field)
	for _, row := range field {
		for _, v := range row {
			if v != 0 {
				t.Errorf("flat field value = %v, want 0", v)
			}
		}
	}
}

func TestNormalizeStretches(t *testing.T) {
	field := [][]float64{{-2, 0}, {X: 2, Y: 1}}
	Normalize(field)
	want := [][]float64{{0, 0.5}, {1, 0.75}}
	for y := range field {
		for x := range field[y] {
			if field[y][x] != want[y][x] {
				t.Errorf("field[%d][%d] = %v, want %v", y, x, field[y][x], want[y][x])
			}
		}
	}
}

func TestChunkSeedDiffers(t *testing.T) {
	base := ChunkSeed(1, terrain.Coord{X: 0, Y: 0}, StreamTerrain)

	if ChunkSeed(1, terrain.Coord{X: 0, Y: 0}, StreamTerrain) != base {
		t.Error("ChunkSeed should be stable")
	}
	if ChunkSeed(2, terrain.Coord{X: 0, Y: 0}, StreamTerrain) == base {
		t.Error("different world seeds should give different chunk seeds")
	}
	if ChunkSeed(1, terrain.Coord{X: 1, Y: 0}, StreamTerrain) == base {
		t.Error("different coordinates should give different chunk seeds")
	}
	if ChunkSeed(1, terrain.Coord{X: 0, Y: 1}, StreamTerrain) == ChunkSeed(1, terrain.Coord{X: 1, Y: 0}, StreamTerrain) {
		t.Error("swapped coordinates should give different chunk seeds")
	}
	if ChunkSeed(1, terrain.Coord{X: 0, Y: 0}, StreamRivers) == base {
		t.Error("different streams should give different chunk seeds")
	}
}
