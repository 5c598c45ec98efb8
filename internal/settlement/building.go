package settlement

import (
	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/terrain"
)

// Building is a template stamped into a chunk
type Building struct {
	Archetype catalog.Archetype
	Template  string

	// X and Y are the chunk-local top-left corner
	X, Y          int
	Width, Height int

	// Cells is the resolved layout including any optional points
	Cells *terrain.Grid

	// Points maps each interaction kind to chunk-local positions
	Points map[terrain.InteractionKind][]terrain.Point
}

// Bounds returns the chunk-local rectangle the building covers
func (b *Building) Bounds() terrain.Rect {
	return terrain.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}

// InteractionAt returns the interaction point at chunk-local (x, y)
func (b *Building) InteractionAt(x, y int) (terrain.InteractionKind, bool) {
	if !b.Bounds().Contains(x, y) {
		return 0, false
	}
	return b.Cells.At(x-b.X, y-b.Y).InteractionKind()
}

// HasPoint reports whether the building offers an interaction kind
func (b *Building) HasPoint(kind terrain.InteractionKind) bool {
	return len(b.Points[kind]) > 0
}

// InteractionAt searches buildings for an interaction point at chunk-local
// (x, y)
func InteractionAt(buildings []*Building, x, y int) (terrain.InteractionKind, bool) {
	for _, b := range buildings {
		if kind, ok := b.InteractionAt(x, y); ok {
			return kind, true
		}
	}
	return 0, false
}
