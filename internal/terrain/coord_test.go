package terrain

import "testing"

func TestCoordKeyRoundTrip(t *testing.T) {
	tests := []Coord{{X: 0, Y: 0}, {X: 3, Y: 7}, {X: -2, Y: 5}, {X: 120, Y: -40}}
	for _, c := range tests {
		back, err := ParseCoord(c.Key())
		if err != nil {
			t.Fatalf("ParseCoord(%q) error: %v", c.Key(), err)
		}
		if back != c {
			t.Errorf("ParseCoord(%q) = %v, want %v", c.Key(), back, c)
		}
	}
}

func TestParseCoordInvalid(t *testing.T) {
	for _, s := range []string{"", "1", "1,2,3", "a,2", "1,b"} {
		if _, err := ParseCoord(s); err == nil {
			t.Errorf("ParseCoord(%q) should fail", s)
		}
	}
}

func TestCoordInBounds(t *testing.T) {
	tests := []struct {
		c    Coord
		want bool
	}{
		{Coord{X: 0, Y: 0}, true},
		{Coord{X: 9, Y: 4}, true},
		{Coord{X: 10, Y: 0}, false},
		{Coord{X: 0, Y: 5}, false},
		{Coord{X: -1, Y: 0}, false},
	}
	for _, tt := range tests {
		if got := tt.c.InBounds(10, 5); got != tt.want {
			t.Errorf("%v.InBounds(10,5) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range AllDirections() {
		if d.Opposite().Opposite() != d {
			t.Errorf("%s opposite twice = %s", d, d.Opposite().Opposite())
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx+ox != 0 || dy+oy != 0 {
			t.Errorf("%s and its opposite deltas do not cancel", d)
		}
	}
}

func TestDirectionPerpendicular(t *testing.T) {
	for _, d := range AllDirections() {
		for _, p := range d.Perpendicular() {
			if p == d || p == d.Opposite() {
				t.Errorf("%s.Perpendicular() contains %s", d, p)
			}
		}
	}
}

func TestCoordStep(t *testing.T) {
	c := Coord{X: 5, Y: 5}
	if got := c.Step(North); got != (Coord{X: 5, Y: 4}) {
		t.Errorf("Step(North) = %v", got)
	}
	if got := c.Step(East); got != (Coord{X: 6, Y: 5}) {
		t.Errorf("Step(East) = %v", got)
	}
}
