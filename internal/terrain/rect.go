package terrain

// Rect is an axis-aligned rectangle of cells with top-left (X, Y)
type Rect struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// CenteredRect returns a w x h rectangle centered in a gridW x gridH grid
func CenteredRect(gridW, gridH, w, h int) Rect {
	return Rect{X: (gridW - w) / 2, Y: (gridH - h) / 2, W: w, H: h}
}

// Empty reports whether the rectangle covers no cells
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Right returns the x of the last column
func (r Rect) Right() int { return r.X + r.W - 1 }

// Bottom returns the y of the last row
func (r Rect) Bottom() int { return r.Y + r.H - 1 }

// Contains reports whether (x, y) lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return !r.Empty() && x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// OnBorder reports whether (x, y) lies on the rectangle's outermost ring
func (r Rect) OnBorder(x, y int) bool {
	return r.Contains(x, y) && (x == r.X || x == r.Right() || y == r.Y || y == r.Bottom())
}

// Inset shrinks the rectangle by n cells on every side
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
}

// Distance returns the Chebyshev distance from (x, y) to the rectangle,
// zero when the point is inside
func (r Rect) Distance(x, y int) int {
	dx := 0
	if x < r.X {
		dx = r.X - x
	} else if x > r.Right() {
		dx = x - r.Right()
	}
	dy := 0
	if y < r.Y {
		dy = r.Y - y
	} else if y > r.Bottom() {
		dy = y - r.Bottom()
	}
	if dx > dy {
		return dx
	}
	return dy
}
