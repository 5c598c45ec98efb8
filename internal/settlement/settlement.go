// Package settlement plans the world's settlements and lays out their
// walled enclosures and buildings inside a chunk grid.
package settlement

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/worldgen"
)

// FallbackSymbol marks settlements once the symbol pool is used up
const FallbackSymbol = "*"

var symbolPool = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

var namePrefixes = []string{
	"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
	"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
	"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
}

var nameSuffixes = []string{
	"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
	"stead", "wood", "field", "dale", "crest", "vale", "port",
	"town", "bury", "well", "brook", "moor", "ridge", "watch",
}

// extraArchetypes are the archetypes a settlement may add after its yard
var extraArchetypes = []catalog.Archetype{catalog.Bar, catalog.Hotel, catalog.Exchange}

// Settlement is a walled town occupying one chunk
type Settlement struct {
	Coord  terrain.Coord
	Name   string
	Symbol string

	// Archetypes is the building plan: Yard first, then 1-3 distinct extras
	Archetypes []catalog.Archetype
}

// String returns the settlement name and chunk
func (s *Settlement) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Name, s.Symbol, s.Coord)
}

// PlanArchetypes draws a building plan: one Yard, then 1-3 of Bar, Hotel
// and Exchange without replacement in shuffled order
func PlanArchetypes(rng *rand.Rand) []catalog.Archetype {
	extras := append([]catalog.Archetype(nil), extraArchetypes...)
	rng.Shuffle(len(extras), func(i, j int) { extras[i], extras[j] = extras[j], extras[i] })
	n := 1 + rng.Intn(len(extras))

	plan := make([]catalog.Archetype, 0, n+1)
	plan = append(plan, catalog.Yard)
	return append(plan, extras[:n]...)
}

// Plan places count settlements on distinct chunks of a worldWidth x
// worldHeight world. The result depends only on the arguments.
func Plan(seed int64, worldWidth, worldHeight, count int) []Settlement {
	total := worldWidth * worldHeight
	if count > total {
		count = total
	}
	if count <= 0 {
		return nil
	}

	rng := worldgen.NewChunkRand(seed, terrain.Coord{}, worldgen.StreamPlan)
	cells := rng.Perm(total)[:count]
	names := generateNames(rng, count)

	settlements := make([]Settlement, count)
	for i, idx := range cells {
		settlements[i] = Settlement{
			Coord:      terrain.Coord{X: idx % worldWidth, Y: idx / worldWidth},
			Name:       names[i],
			Symbol:     symbolFor(i),
			Archetypes: PlanArchetypes(rng),
		}
	}
	return settlements
}

func symbolFor(i int) string {
	if i < len(symbolPool) {
		return symbolPool[i]
	}
	return FallbackSymbol
}

// generateNames combines name syllables into count distinct names.
// Past the number of combinations, names get a numeric suffix.
func generateNames(rng *rand.Rand, count int) []string {
	combos := len(namePrefixes) * len(nameSuffixes)
	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := namePrefixes[rng.Intn(len(namePrefixes))] + nameSuffixes[rng.Intn(len(nameSuffixes))]
		if len(used) >= combos {
			name = fmt.Sprintf("%s %d", name, len(names)+1)
		}
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Registry indexes the world's settlements by chunk
type Registry struct {
	list    []Settlement
	byCoord map[terrain.Coord]int
}

// NewRegistry builds a registry. A later settlement on an already used
// chunk is ignored.
func NewRegistry(settlements []Settlement) *Registry {
	r := &Registry{byCoord: make(map[terrain.Coord]int, len(settlements))}
	for _, s := range settlements {
		if _, exists := r.byCoord[s.Coord]; exists {
			continue
		}
		r.byCoord[s.Coord] = len(r.list)
		r.list = append(r.list, s)
	}
	return r
}

// At returns the settlement on a chunk
func (r *Registry) At(c terrain.Coord) (*Settlement, bool) {
	i, ok := r.byCoord[c]
	if !ok {
		return nil, false
	}
	return &r.list[i], true
}

// Contains reports whether a chunk holds a settlement
func (r *Registry) Contains(c terrain.Coord) bool {
	_, ok := r.byCoord[c]
	return ok
}

// All returns a copy of every settlement in plan order
func (r *Registry) All() []Settlement {
	return append([]Settlement(nil), r.list...)
}

// Len returns the number of settlements
func (r *Registry) Len() int {
	return len(r.list)
}

// Next returns the settlement after the one on chunk c in plan order,
// wrapping around. When c holds no settlement the first one is returned.
func (r *Registry) Next(c terrain.Coord) (*Settlement, bool) {
	if len(r.list) == 0 {
		return nil, false
	}
	i, ok := r.byCoord[c]
	if !ok {
		return &r.list[0], true
	}
	return &r.list[(i+1)%len(r.list)], true
}
