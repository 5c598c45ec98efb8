package settlement

import (
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/terrain"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load built-in catalog: %v", err)
	}
	return c
}

func fullPlan() *Settlement {
	return &Settlement{
		Name:       "Testwick",
		Symbol:     "1",
		Archetypes: []catalog.Archetype{catalog.Yard, catalog.Bar, catalog.Hotel, catalog.Exchange},
	}
}

func TestGates(t *testing.T) {
	gates := Gates(terrain.Rect{X: 10, Y: 5, W: 20, H: 20})
	want := []terrain.Point{{X: 20, Y: 5}, {X: 29, Y: 15}, {X: 20, Y: 24}, {X: 10, Y: 15}}

	for i := range want {
		if gates[i] != want[i] {
			t.Errorf("gate %d = %v, want %v", i, gates[i], want[i])
		}
	}
}

func TestInjectWallsAndGates(t *testing.T) {
	in := NewInjector(config.DefaultConfig().Settlements, defaultCatalog(t))
	grid := terrain.NewGrid(40, 30, terrain.Road)

	layout := in.Inject(grid, fullPlan(), rand.New(rand.NewSource(1)))

	if layout.Footprint != (terrain.Rect{X: 10, Y: 5, W: 20, H: 20}) {
		t.Errorf("footprint = %+v", layout.Footprint)
	}
	if got := grid.Count(terrain.SettlementGate); got != 4 {
		t.Errorf("gate cells = %d, want 4", got)
	}
	// 20x20 perimeter has 76 cells, 4 of them are gates
	if got := grid.Count(terrain.SettlementWall); got != 72 {
		t.Errorf("wall cells = %d, want 72", got)
	}
	for _, g := range layout.Gates {
		if !terrain.PropertiesOf(grid.At(g.X, g.Y)).Passable {
			t.Errorf("gate at %v should be passable", g)
		}
	}
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c := grid.At(x, y)
			if (c == terrain.SettlementWall || c == terrain.SettlementGate) && !layout.Footprint.OnBorder(x, y) {
				t.Errorf("%s at (%d,%d) off the perimeter", c, x, y)
			}
		}
	}
}

func TestInjectBuildings(t *testing.T) {
	in := NewInjector(config.DefaultConfig().Settlements, defaultCatalog(t))

	for seed := int64(0); seed < 25; seed++ {
		grid := terrain.NewGrid(40, 30, terrain.Road)
		layout := in.Inject(grid, fullPlan(), rand.New(rand.NewSource(seed)))

		if layout.Failed != 0 || len(layout.Buildings) != 4 {
			t.Fatalf("seed %d: placed %d, failed %d; want 4 and 0", seed, len(layout.Buildings), layout.Failed)
		}
		if layout.Buildings[0].Archetype != catalog.Yard {
			t.Errorf("seed %d: first building is %s, want yard", seed, layout.Buildings[0].Archetype)
		}

		area := layout.Footprint.Inset(3)
		for i, b := range layout.Buildings {
			bounds := b.Bounds()
			if !area.Contains(bounds.X, bounds.Y) || !area.Contains(bounds.Right(), bounds.Bottom()) {
				t.Errorf("seed %d: building %s at %+v outside packing area %+v", seed, b.Template, bounds, area)
			}
			for _, other := range layout.Buildings[i+1:] {
				o := other.Bounds()
				if bounds.X <= o.Right() && o.X <= bounds.Right() && bounds.Y <= o.Bottom() && o.Y <= bounds.Bottom() {
					t.Errorf("seed %d: buildings %s and %s overlap", seed, b.Template, other.Template)
				}
			}

			tmpl, _ := in.catalog.Lookup(b.Template)
			for _, kind := range tmpl.Required {
				if !b.HasPoint(kind) {
					t.Errorf("seed %d: %s lacks required %s point", seed, b.Template, kind)
				}
			}
			for kind, points := range b.Points {
				for _, p := range points {
					if grid.At(p.X, p.Y) != kind.Cell() {
						t.Errorf("seed %d: %s point at %v is %s in the grid", seed, kind, p, grid.At(p.X, p.Y))
					}
				}
			}
		}
	}
}

func TestInjectOptionalPoints(t *testing.T) {
	in := NewInjector(config.DefaultConfig().Settlements, defaultCatalog(t))
	yardOnly := &Settlement{Name: "Yardton", Archetypes: []catalog.Archetype{catalog.Yard}}

	withOptional, without := 0, 0
	for seed := int64(0); seed < 200; seed++ {
		grid := terrain.NewGrid(40, 30, terrain.Road)
		layout := in.Inject(grid, yardOnly, rand.New(rand.NewSource(seed)))
		b := layout.Buildings[0]

		tmpl, _ := in.catalog.Lookup(b.Template)
		for _, kind := range tmpl.Optional {
			if b.HasPoint(kind) {
				withOptional++
			} else {
				without++
			}
		}
	}

	// Each optional point has an even chance; both outcomes must show up
	if withOptional == 0 || without == 0 {
		t.Errorf("optional points added %d times, skipped %d times", withOptional, without)
	}
}

func TestInjectSkipsMissingArchetype(t *testing.T) {
	c, err := catalog.New([]catalog.TemplateDef{{
		Name:      "only_yard",
		Archetype: "yard",
		Size:      "small",
		Required:  []string{"delivery"},
		Layout:    []string{"####", "#D.#", "#..#", "##+#"},
	}})
	if err != nil {
		t.Fatal(err)
	}

	in := NewInjector(config.DefaultConfig().Settlements, c)
	grid := terrain.NewGrid(40, 30, terrain.Road)
	layout := in.Inject(grid, fullPlan(), rand.New(rand.NewSource(1)))

	if len(layout.Buildings) != 1 || layout.Failed != 3 {
		t.Errorf("placed %d, failed %d; want 1 and 3", len(layout.Buildings), layout.Failed)
	}
	if grid.Count(terrain.DeliveryPoint) != 1 {
		t.Error("the yard should still be placed")
	}
}

func TestInjectBuildingsDoNotFit(t *testing.T) {
	cfg := config.DefaultConfig().Settlements
	cfg.FootprintSize = 7
	in := NewInjector(cfg, defaultCatalog(t))
	grid := terrain.NewGrid(40, 30, terrain.Road)

	layout := in.Inject(grid, fullPlan(), rand.New(rand.NewSource(1)))

	if len(layout.Buildings) != 0 || layout.Failed != 4 {
		t.Errorf("placed %d, failed %d; want 0 and 4", len(layout.Buildings), layout.Failed)
	}
	if grid.Count(terrain.SettlementGate) != 4 {
		t.Error("walls and gates should still be stamped")
	}
}

func TestCheckFits(t *testing.T) {
	tests := []struct {
		footprint int
		wantErr   bool
	}{
		{20, false},
		{12, false}, // 6x6 area holds the 6x5 freight yard
		{11, true},  // 5x5 area holds the depot but not the freight yard
		{10, true},
		{5, true},
	}

	for _, tt := range tests {
		cfg := config.DefaultConfig().Settlements
		cfg.FootprintSize = tt.footprint
		in := NewInjector(cfg, defaultCatalog(t))

		err := in.CheckFits(catalog.Yard, 40, 30)
		if (err != nil) != tt.wantErr {
			t.Errorf("footprint %d: CheckFits error = %v, wantErr %v", tt.footprint, err, tt.wantErr)
		}
	}
}

func TestInjectSmallestFittingFootprintPlacesYard(t *testing.T) {
	cfg := config.DefaultConfig().Settlements
	cfg.FootprintSize = 12
	in := NewInjector(cfg, defaultCatalog(t))

	for seed := int64(0); seed < 20; seed++ {
		grid := terrain.NewGrid(40, 30, terrain.Road)
		s := &Settlement{Name: "Tinyford", Archetypes: []catalog.Archetype{catalog.Yard, catalog.Bar}}
		layout := in.Inject(grid, s, rand.New(rand.NewSource(seed)))

		yards := 0
		for _, b := range layout.Buildings {
			if b.Archetype == catalog.Yard {
				yards++
			}
		}
		if yards != 1 {
			t.Errorf("seed %d: %d yards placed, want 1", seed, yards)
		}
	}
}

func TestInjectRingTrees(t *testing.T) {
	cfg := config.DefaultConfig().Settlements
	cfg.RingTreeDensity = 0.3
	in := NewInjector(cfg, defaultCatalog(t))

	for seed := int64(0); seed < 10; seed++ {
		grid := terrain.NewGrid(40, 30, terrain.Road)
		layout := in.Inject(grid, fullPlan(), rand.New(rand.NewSource(seed)))

		approach := gateApproaches(layout.Gates, layout.Footprint)
		trees := grid.Find(terrain.Tree)
		if len(trees) != layout.RingTrees {
			t.Errorf("seed %d: %d trees in grid, layout says %d", seed, len(trees), layout.RingTrees)
		}
		for _, p := range trees {
			d := layout.Footprint.Distance(p.X, p.Y)
			if d < 1 || d > 3 {
				t.Errorf("seed %d: tree at %v is %d cells from the wall", seed, p, d)
			}
			if approach[p] {
				t.Errorf("seed %d: tree at %v blocks a gate", seed, p)
			}
		}
	}
}

func TestInjectRingTreesDensityOne(t *testing.T) {
	cfg := config.DefaultConfig().Settlements
	cfg.RingTreeDensity = 1
	in := NewInjector(cfg, defaultCatalog(t))
	grid := terrain.NewGrid(40, 30, terrain.Road)

	layout := in.Inject(grid, fullPlan(), rand.New(rand.NewSource(1)))

	if layout.RingTrees != 0 || grid.Count(terrain.Tree) != 0 {
		t.Errorf("expected no ring trees at density 1, got %d", layout.RingTrees)
	}
}

func TestInjectKeepsWaterOutsideWall(t *testing.T) {
	cfg := config.DefaultConfig().Settlements
	cfg.RingTreeDensity = 0
	in := NewInjector(cfg, defaultCatalog(t))
	grid := terrain.NewGrid(40, 30, terrain.Water)

	in.Inject(grid, fullPlan(), rand.New(rand.NewSource(1)))

	if grid.Count(terrain.Tree) != 0 {
		t.Error("trees should only grow on open ground")
	}
	if grid.At(0, 0) != terrain.Water || grid.At(9, 15) != terrain.Water {
		t.Error("cells outside the footprint should keep their terrain")
	}
}

func TestInteractionAt(t *testing.T) {
	in := NewInjector(config.DefaultConfig().Settlements, defaultCatalog(t))
	grid := terrain.NewGrid(40, 30, terrain.Road)
	layout := in.Inject(grid, fullPlan(), rand.New(rand.NewSource(5)))

	yard := layout.Buildings[0]
	p := yard.Points[terrain.InteractionDelivery][0]

	kind, ok := InteractionAt(layout.Buildings, p.X, p.Y)
	if !ok || kind != terrain.InteractionDelivery {
		t.Errorf("InteractionAt(%v) = %v, %v; want delivery", p, kind, ok)
	}

	if _, ok := InteractionAt(layout.Buildings, 0, 0); ok {
		t.Error("InteractionAt outside buildings should find nothing")
	}
	if _, ok := InteractionAt(layout.Buildings, yard.X, yard.Y); ok {
		t.Error("InteractionAt on a wall should find nothing")
	}
}
