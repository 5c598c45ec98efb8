package terrain

import "strings"

// Point is a local cell position inside a grid
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Grid is a fixed-size row-major array of cells for one chunk.
// A grid belongs to a single owner at a time; use Clone to hand out copies.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// NewGrid creates a width x height grid filled with fill
func NewGrid(width, height int, fill Cell) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	if fill != Empty {
		g.Fill(fill)
	}
	return g
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a valid cell position
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell at (x, y). Out-of-bounds reads return Empty.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Empty
	}
	return g.cells[y*g.width+x]
}

// Set writes the cell at (x, y), ignoring out-of-bounds writes.
// Returns true if the cell was written.
func (g *Grid) Set(x, y int, c Cell) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y*g.width+x] = c
	return true
}

// Fill overwrites every cell with c
func (g *Grid) Fill(c Cell) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// FillRect overwrites the rectangle with top-left (x, y), clipped to the grid
func (g *Grid) FillRect(x, y, w, h int, c Cell) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			g.Set(xx, yy, c)
		}
	}
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Equal reports whether two grids have identical dimensions and content
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Count returns how many cells hold c
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, cell := range g.cells {
		if cell == c {
			n++
		}
	}
	return n
}

// Counts returns the number of cells per category, omitting absent ones
func (g *Grid) Counts() map[Cell]int {
	counts := make(map[Cell]int)
	for _, cell := range g.cells {
		counts[cell]++
	}
	return counts
}

// Find returns the positions of every cell holding c, in raster order
func (g *Grid) Find(c Cell) []Point {
	var points []Point
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] == c {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	return points
}

// Neighbors8 reports whether any of the up to eight cells around (x, y) holds c
func (g *Grid) Neighbors8(x, y int, c Cell) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.InBounds(x+dx, y+dy) && g.At(x+dx, y+dy) == c {
				return true
			}
		}
	}
	return false
}

// Components returns the 4-connected regions of cells holding c
func (g *Grid) Components(c Cell) [][]Point {
	seen := make([]bool, len(g.cells))
	var components [][]Point

	for start := range g.cells {
		if seen[start] || g.cells[start] != c {
			continue
		}
		var component []Point
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%g.width, idx/g.width
			component = append(component, Point{X: x, Y: y})

			for _, d := range AllDirections() {
				dx, dy := d.Delta()
				nx, ny := x+dx, y+dy
				if !g.InBounds(nx, ny) {
					continue
				}
				n := ny*g.width + nx
				if !seen[n] && g.cells[n] == c {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// Rows renders the grid as one glyph string per row
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			sb.WriteRune(g.cells[y*g.width+x].Glyph())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String renders the grid as newline-separated glyph rows
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// Names renders every row as a list of cell names, suitable for serialization
func (g *Grid) Names() [][]string {
	out := make([][]string, g.height)
	for y := 0; y < g.height; y++ {
		row := make([]string, g.width)
		for x := 0; x < g.width; x++ {
			row[x] = g.cells[y*g.width+x].String()
		}
		out[y] = row
	}
	return out
}

// GridFromNames rebuilds a grid from the output of Names
func GridFromNames(rows [][]string) (*Grid, bool) {
	if len(rows) == 0 {
		return NewGrid(0, 0, Empty), true
	}
	width := len(rows[0])
	g := NewGrid(width, len(rows), Empty)
	for y, row := range rows {
		if len(row) != width {
			return nil, false
		}
		for x, name := range row {
			c, ok := ParseCell(name)
			if !ok {
				return nil, false
			}
			g.Set(x, y, c)
		}
	}
	return g, true
}
