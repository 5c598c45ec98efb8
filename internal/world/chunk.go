package world

import (
	"github.com/lawnchairsociety/overworld/internal/settlement"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/worldgen"
)

// Chunk is the result of generating one world chunk. Cached chunks are
// shared; callers must not modify them.
type Chunk struct {
	Coord terrain.Coord
	Grid  *terrain.Grid

	// Settlement and Layout are nil for wilderness chunks
	Settlement *settlement.Settlement
	Layout     *settlement.Layout

	Stats Stats
}

// Stats records what the generation passes produced
type Stats struct {
	Rivers     worldgen.RiverStats
	Vegetation worldgen.VegetationStats
	Counts     map[terrain.Cell]int
}

// IsSettlement reports whether the chunk holds a settlement
func (c *Chunk) IsSettlement() bool {
	return c.Settlement != nil
}

// Buildings returns the buildings placed in the chunk
func (c *Chunk) Buildings() []*settlement.Building {
	if c.Layout == nil {
		return nil
	}
	return c.Layout.Buildings
}

// InteractionAt returns the building interaction point at local (x, y)
func (c *Chunk) InteractionAt(x, y int) (terrain.InteractionKind, bool) {
	return settlement.InteractionAt(c.Buildings(), x, y)
}

// PropertiesAt returns the movement properties of the cell at local (x, y)
func (c *Chunk) PropertiesAt(x, y int) terrain.Properties {
	return terrain.PropertiesOf(c.Grid.At(x, y))
}
