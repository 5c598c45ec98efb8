// Package terrain defines the cell categories, grids and coordinates shared by
// every stage of overworld generation.
package terrain

// Cell represents the terrain category of a single grid cell
type Cell uint8

const (
	Empty          Cell = iota // Unassigned ground, also building floor
	Grass                      // Open grassland
	Mountain                   // Rocky high ground
	Water                      // River water
	Tree                       // Single-cell tree
	LargeTree                  // One quarter of a 2x2 tree
	Road                       // Default traversable ground
	SettlementWall             // Settlement perimeter wall
	SettlementGate             // Opening in the settlement wall
	BuildingWall               // Building outer wall
	BuildingGate               // Building door
	DeliveryPoint              // Cargo drop-off spot
	PickupPoint                // Cargo pick-up spot
	RestPoint                  // Resting spot
)

// cellCount is the number of defined cell categories
const cellCount = int(RestPoint) + 1

var cellNames = [cellCount]string{
	Empty:          "empty",
	Grass:          "grass",
	Mountain:       "mountain",
	Water:          "water",
	Tree:           "tree",
	LargeTree:      "large_tree",
	Road:           "road",
	SettlementWall: "settlement_wall",
	SettlementGate: "settlement_gate",
	BuildingWall:   "building_wall",
	BuildingGate:   "building_gate",
	DeliveryPoint:  "delivery_point",
	PickupPoint:    "pickup_point",
	RestPoint:      "rest_point",
}

var cellGlyphs = [cellCount]rune{
	Empty:          ' ',
	Grass:          '"',
	Mountain:       '^',
	Water:          '~',
	Tree:           't',
	LargeTree:      'T',
	Road:           '.',
	SettlementWall: '#',
	SettlementGate: '=',
	BuildingWall:   'H',
	BuildingGate:   '+',
	DeliveryPoint:  'D',
	PickupPoint:    'P',
	RestPoint:      'R',
}

// String returns the string representation of a Cell
func (c Cell) String() string {
	if int(c) < cellCount {
		return cellNames[c]
	}
	return "unknown"
}

// Glyph returns the single character used when printing a grid
func (c Cell) Glyph() rune {
	if int(c) < cellCount {
		return cellGlyphs[c]
	}
	return '?'
}

// Valid reports whether c is one of the defined categories
func (c Cell) Valid() bool {
	return int(c) < cellCount
}

// IsOpenGround reports whether vegetation and trees may grow on the cell
func (c Cell) IsOpenGround() bool {
	return c == Grass || c == Road
}

// InteractionKind returns the interaction point kind carried by the cell, if any
func (c Cell) InteractionKind() (InteractionKind, bool) {
	switch c {
	case DeliveryPoint:
		return InteractionDelivery, true
	case PickupPoint:
		return InteractionPickup, true
	case RestPoint:
		return InteractionRest, true
	default:
		return 0, false
	}
}

// AllCells returns every defined cell category in declaration order
func AllCells() []Cell {
	cells := make([]Cell, cellCount)
	for i := range cells {
		cells[i] = Cell(i)
	}
	return cells
}

// ParseCell converts a cell name back to a Cell
func ParseCell(s string) (Cell, bool) {
	for i, name := range cellNames {
		if name == s {
			return Cell(i), true
		}
	}
	return Empty, false
}

// ParseGlyph converts a printed glyph back to a Cell
func ParseGlyph(r rune) (Cell, bool) {
	for i, g := range cellGlyphs {
		if g == r {
			return Cell(i), true
		}
	}
	return Empty, false
}
