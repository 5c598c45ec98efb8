package terrain

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord identifies a chunk in the world grid. It is comparable and is used
// directly as a map key.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Key returns the canonical "x,y" string form of the coordinate
func (c Coord) Key() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

// String implements fmt.Stringer
func (c Coord) String() string {
	return "(" + c.Key() + ")"
}

// InBounds reports whether the coordinate lies inside a width x height world
func (c Coord) InBounds(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// Step returns the neighboring coordinate in the given direction
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// ParseCoord parses the canonical "x,y" form produced by Key
func ParseCoord(s string) (Coord, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("invalid coordinate %q: expected x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	return Coord{X: x, Y: y}, nil
}
