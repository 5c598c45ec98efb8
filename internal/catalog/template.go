package catalog

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/overworld/internal/terrain"
)

// Layout alphabet used in template rows
const (
	GlyphWall     = '#'
	GlyphGate     = '+'
	GlyphFloor    = '.'
	GlyphDelivery = 'D'
	GlyphPickup   = 'P'
	GlyphRest     = 'R'
)

var layoutCells = map[rune]terrain.Cell{
	GlyphWall:     terrain.BuildingWall,
	GlyphGate:     terrain.BuildingGate,
	GlyphFloor:    terrain.Empty,
	GlyphDelivery: terrain.DeliveryPoint,
	GlyphPickup:   terrain.PickupPoint,
	GlyphRest:     terrain.RestPoint,
}

// TemplateDef is a building template as written in a catalog file
type TemplateDef struct {
	Name      string   `yaml:"name"`
	Archetype string   `yaml:"archetype"`
	Size      string   `yaml:"size"`
	Required  []string `yaml:"required,omitempty"`
	Optional  []string `yaml:"optional,omitempty"`
	Layout    []string `yaml:"layout"`
}

// Template is a validated, immutable building layout.
// Floor cells are stored as terrain.Empty.
type Template struct {
	Name      string
	Archetype Archetype
	Size      SizeCategory
	Required  []terrain.InteractionKind
	Optional  []terrain.InteractionKind

	cells *terrain.Grid
}

// NewTemplate validates def and builds a Template from it.
// All failures wrap ErrInvalidTemplate.
func NewTemplate(def TemplateDef) (*Template, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: template without a name", ErrInvalidTemplate)
	}
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %q: %s", ErrInvalidTemplate, def.Name, fmt.Sprintf(format, args...))
	}

	archetype, ok := ParseArchetype(def.Archetype)
	if !ok {
		return nil, invalid("unknown archetype %q", def.Archetype)
	}
	size, ok := ParseSize(def.Size)
	if !ok {
		return nil, invalid("unknown size %q", def.Size)
	}

	w, h := size.Dimensions()
	if len(def.Layout) != h {
		return nil, invalid("%s layout needs %d rows, got %d", size, h, len(def.Layout))
	}
	cells := terrain.NewGrid(w, h, terrain.Empty)
	for y, row := range def.Layout {
		runes := []rune(row)
		if len(runes) != w {
			return nil, invalid("row %d has %d characters, %s layout needs %d", y, len(runes), size, w)
		}
		for x, r := range runes {
			c, ok := layoutCells[r]
			if !ok {
				return nil, invalid("row %d has unknown character %q", y, r)
			}
			cells.Set(x, y, c)
		}
	}

	required, err := parseKinds(def.Required)
	if err != nil {
		return nil, invalid("required: %v", err)
	}
	optional, err := parseKinds(def.Optional)
	if err != nil {
		return nil, invalid("optional: %v", err)
	}

	for _, kind := range required {
		if cells.Count(kind.Cell()) == 0 {
			return nil, invalid("required %s point has no marker in the layout", kind)
		}
	}
	for _, kind := range optional {
		if containsKind(required, kind) {
			return nil, invalid("%s point is both required and optional", kind)
		}
		if cells.Count(kind.Cell()) > 0 {
			return nil, invalid("optional %s point is already placed in the layout", kind)
		}
	}
	if len(optional) > 0 && cells.Count(terrain.Empty) == 0 {
		return nil, invalid("optional points declared but the layout has no floor")
	}

	return &Template{
		Name:      def.Name,
		Archetype: archetype,
		Size:      size,
		Required:  required,
		Optional:  optional,
		cells:     cells,
	}, nil
}

func parseKinds(names []string) ([]terrain.InteractionKind, error) {
	var kinds []terrain.InteractionKind
	for _, name := range names {
		kind, ok := terrain.ParseInteractionKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown interaction point %q", name)
		}
		if containsKind(kinds, kind) {
			return nil, fmt.Errorf("%s listed twice", kind)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func containsKind(kinds []terrain.InteractionKind, kind terrain.InteractionKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Width returns the template width in cells
func (t *Template) Width() int { return t.cells.Width() }

// Height returns the template height in cells
func (t *Template) Height() int { return t.cells.Height() }

// At returns the cell at template-local (x, y)
func (t *Template) At(x, y int) terrain.Cell { return t.cells.At(x, y) }

// Cells returns a copy of the template grid that the caller may modify
func (t *Template) Cells() *terrain.Grid { return t.cells.Clone() }

// FloorCells returns the positions of all floor cells in scan order
func (t *Template) FloorCells() []terrain.Point { return t.cells.Find(terrain.Empty) }

// Points returns the positions of the hard-placed markers of one kind
func (t *Template) Points(kind terrain.InteractionKind) []terrain.Point {
	return t.cells.Find(kind.Cell())
}

// Layout returns the template rows in the authoring alphabet
func (t *Template) Layout() []string {
	glyphs := make(map[terrain.Cell]rune, len(layoutCells))
	for r, c := range layoutCells {
		glyphs[c] = r
	}

	rows := make([]string, t.Height())
	for y := range rows {
		var sb strings.Builder
		for x := 0; x < t.Width(); x++ {
			sb.WriteRune(glyphs[t.cells.At(x, y)])
		}
		rows[y] = sb.String()
	}
	return rows
}
