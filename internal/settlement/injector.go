package settlement

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/logger"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	opensimplex "github.com/ojrac/opensimplex-go"
)

const (
	// wallMargin is the free space between the wall and the first building
	wallMargin = 2

	// buildingSpacing is the free space between neighboring buildings
	buildingSpacing = 1

	optionalPointChance = 0.5

	// Trees grow in the ring 1..ringWidth cells outside the wall
	ringWidth = 3

	// ringNoiseScale sets the size of tree clumps in the ring
	ringNoiseScale = 0.35
)

// Layout describes what an injection pass placed
type Layout struct {
	Footprint terrain.Rect
	Gates     []terrain.Point
	Buildings []*Building
	Failed    int // Buildings that could not be placed
	RingTrees int
}

// Injector stamps a walled settlement with buildings into a chunk grid
type Injector struct {
	size        int
	ringDensity float64
	catalog     *catalog.Catalog
}

// NewInjector creates an injector drawing templates from cat
func NewInjector(cfg config.SettlementConfig, cat *catalog.Catalog) *Injector {
	return &Injector{
		size:        cfg.FootprintSize,
		ringDensity: cfg.RingTreeDensity,
		catalog:     cat,
	}
}

// Footprint returns the walled square centered in a width x height chunk
func (in *Injector) Footprint(width, height int) terrain.Rect {
	return terrain.CenteredRect(width, height, in.size, in.size)
}

// PackingArea returns the part of the footprint buildings are packed into
func (in *Injector) PackingArea(width, height int) terrain.Rect {
	return in.Footprint(width, height).Inset(1 + wallMargin)
}

// CheckFits returns an error naming the first template of archetype a that
// is larger than the packing area of a width x height chunk. Resolve picks
// any template, so all of them must fit for a building to be guaranteed.
func (in *Injector) CheckFits(a catalog.Archetype, width, height int) error {
	area := in.PackingArea(width, height)
	for _, tmpl := range in.catalog.Templates(a) {
		if tmpl.Width() > area.W || tmpl.Height() > area.H {
			return fmt.Errorf("%s template %q (%dx%d) does not fit the %dx%d building area of a %d footprint",
				a, tmpl.Name, tmpl.Width(), tmpl.Height(), area.W, area.H, in.size)
		}
	}
	return nil
}

// Gates returns the four gate cells at the side midpoints of footprint,
// in north, east, south, west order
func Gates(footprint terrain.Rect) []terrain.Point {
	midX := footprint.X + footprint.W/2
	midY := footprint.Y + footprint.H/2
	return []terrain.Point{
		{X: midX, Y: footprint.Y},
		{X: footprint.Right(), Y: midY},
		{X: midX, Y: footprint.Bottom()},
		{X: footprint.X, Y: midY},
	}
}

// Inject builds the settlement s into grid. Cells inside the footprint are
// overwritten; outside it only open ground in the tree ring changes.
// Buildings that cannot be placed are logged and skipped.
func (in *Injector) Inject(grid *terrain.Grid, s *Settlement, rng *rand.Rand) *Layout {
	footprint := in.Footprint(grid.Width(), grid.Height())
	layout := &Layout{
		Footprint: footprint,
		Gates:     Gates(footprint),
	}

	in.stampWalls(grid, layout)

	area := in.PackingArea(grid.Width(), grid.Height())
	cx, cy, rowHeight := area.X, area.Y, 0
	for _, archetype := range s.Archetypes {
		tmpl, err := in.catalog.Resolve(archetype, rng)
		if err != nil {
			logger.Warning("Building skipped", "settlement", s.Name, "archetype", archetype, "error", err)
			layout.Failed++
			continue
		}

		w, h := tmpl.Width(), tmpl.Height()
		if cx+w > area.X+area.W {
			cx = area.X
			cy += rowHeight + buildingSpacing
			rowHeight = 0
		}
		if w > area.W || cy+h > area.Y+area.H {
			logger.Warning("Building does not fit",
				"settlement", s.Name, "archetype", archetype, "template", tmpl.Name)
			layout.Failed++
			continue
		}

		layout.Buildings = append(layout.Buildings, in.place(grid, tmpl, cx, cy, rng))
		cx += w + buildingSpacing
		if h > rowHeight {
			rowHeight = h
		}
	}

	layout.RingTrees = in.plantRing(grid, layout, rng.Int63())
	return layout
}

// stampWalls fills the footprint with road, draws the wall perimeter and
// opens the gates
func (in *Injector) stampWalls(grid *terrain.Grid, layout *Layout) {
	fp := layout.Footprint
	for y := fp.Y; y <= fp.Bottom(); y++ {
		for x := fp.X; x <= fp.Right(); x++ {
			if fp.OnBorder(x, y) {
				grid.Set(x, y, terrain.SettlementWall)
			} else {
				grid.Set(x, y, terrain.Road)
			}
		}
	}
	for _, g := range layout.Gates {
		grid.Set(g.X, g.Y, terrain.SettlementGate)
	}
}

// place copies a template into grid at (x, y), adding each optional point
// with independent 50% chance on a random free floor cell
func (in *Injector) place(grid *terrain.Grid, tmpl *catalog.Template, x, y int, rng *rand.Rand) *Building {
	cells := tmpl.Cells()
	for _, kind := range tmpl.Optional {
		if rng.Float64() >= optionalPointChance {
			continue
		}
		floor := cells.Find(terrain.Empty)
		if len(floor) == 0 {
			logger.Debug("No floor left for optional point", "template", tmpl.Name, "point", kind)
			continue
		}
		p := floor[rng.Intn(len(floor))]
		cells.Set(p.X, p.Y, kind.Cell())
	}

	b := &Building{
		Archetype: tmpl.Archetype,
		Template:  tmpl.Name,
		X:         x,
		Y:         y,
		Width:     tmpl.Width(),
		Height:    tmpl.Height(),
		Cells:     cells,
		Points:    make(map[terrain.InteractionKind][]terrain.Point),
	}

	for ly := 0; ly < b.Height; ly++ {
		for lx := 0; lx < b.Width; lx++ {
			c := cells.At(lx, ly)
			if c == terrain.Empty {
				// Floor is walkable settlement ground
				grid.Set(x+lx, y+ly, terrain.Road)
				continue
			}
			grid.Set(x+lx, y+ly, c)
			if kind, ok := c.InteractionKind(); ok {
				b.Points[kind] = append(b.Points[kind], terrain.Point{X: x + lx, Y: y + ly})
			}
		}
	}

	return b
}

// plantRing grows trees on open ground 1-3 cells outside the wall where the
// ring noise exceeds the configured density. The approach in front of each
// gate stays clear.
func (in *Injector) plantRing(grid *terrain.Grid, layout *Layout, seed int64) int {
	noise := opensimplex.NewNormalized(seed)
	approach := gateApproaches(layout.Gates, layout.Footprint)

	planted := 0
	fp := layout.Footprint
	for y := fp.Y - ringWidth; y <= fp.Bottom()+ringWidth; y++ {
		for x := fp.X - ringWidth; x <= fp.Right()+ringWidth; x++ {
			d := fp.Distance(x, y)
			if d < 1 || d > ringWidth || !grid.InBounds(x, y) {
				continue
			}
			if approach[terrain.Point{X: x, Y: y}] || !grid.At(x, y).IsOpenGround() {
				continue
			}
			if noise.Eval2(float64(x)*ringNoiseScale, float64(y)*ringNoiseScale) > in.ringDensity {
				grid.Set(x, y, terrain.Tree)
				planted++
			}
		}
	}
	return planted
}

// gateApproaches returns the ring cells straight out from each gate
func gateApproaches(gates []terrain.Point, fp terrain.Rect) map[terrain.Point]bool {
	cells := make(map[terrain.Point]bool)
	for _, g := range gates {
		dx, dy := 0, 0
		switch {
		case g.Y == fp.Y:
			dy = -1
		case g.Y == fp.Bottom():
			dy = 1
		case g.X == fp.X:
			dx = -1
		default:
			dx = 1
		}
		for k := 1; k <= ringWidth; k++ {
			cells[terrain.Point{X: g.X + k*dx, Y: g.Y + k*dy}] = true
		}
	}
	return cells
}
