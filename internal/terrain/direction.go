package terrain

// Direction represents a cardinal direction in the grid
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Perpendicular returns the two directions at right angles to d
func (d Direction) Perpendicular() [2]Direction {
	if d == North || d == South {
		return [2]Direction{East, West}
	}
	return [2]Direction{North, South}
}

// Delta returns the x/y offset of a single step. Y grows southwards.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}
