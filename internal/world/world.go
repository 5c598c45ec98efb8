// Package world composes the generation passes into chunks and serves them
// through a bounded cache.
package world

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/chunkcache"
	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/logger"
	"github.com/lawnchairsociety/overworld/internal/settlement"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/worldgen"
)

// ErrOutOfBounds is returned for chunk coordinates outside the world
var ErrOutOfBounds = errors.New("chunk coordinate out of world bounds")

// World generates and caches the chunks of one seeded world.
// It is not safe for concurrent use.
type World struct {
	cfg  *config.Config
	seed int64

	heights     *worldgen.HeightField
	classifier  *worldgen.Classifier
	rivers      *worldgen.RiverCarver
	vegetation  *worldgen.Scatterer
	injector    *settlement.Injector
	settlements *settlement.Registry
	cache       *chunkcache.Cache[*Chunk]
}

// New creates a world. When settlements is nil they are planned from the
// seed; pass a stored list to restore an earlier session.
func New(cfg *config.Config, cat *catalog.Catalog, seed int64, settlements []settlement.Settlement) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cat == nil {
		return nil, errors.New("world needs a building catalog")
	}
	if !cat.Has(catalog.Yard) {
		return nil, fmt.Errorf("catalog has no %s template", catalog.Yard)
	}

	wc := cfg.World
	injector := settlement.NewInjector(cfg.Settlements, cat)
	if err := injector.CheckFits(catalog.Yard, wc.ChunkWidth, wc.ChunkHeight); err != nil {
		return nil, fmt.Errorf("invalid config: settlements.footprint_size: %w", err)
	}

	if settlements == nil {
		settlements = settlement.Plan(seed, wc.WorldWidth, wc.WorldHeight, cfg.Settlements.Count)
	}
	for _, s := range settlements {
		if !s.Coord.InBounds(wc.WorldWidth, wc.WorldHeight) {
			return nil, fmt.Errorf("settlement %q at %s: %w", s.Name, s.Coord, ErrOutOfBounds)
		}
	}

	w := &World{
		cfg:         cfg,
		seed:        seed,
		heights:     worldgen.NewHeightField(seed, wc.ChunkWidth, wc.ChunkHeight, cfg.Terrain.WorldScale),
		classifier:  worldgen.NewClassifier(cfg.Terrain),
		rivers:      worldgen.NewRiverCarver(cfg.Rivers),
		vegetation:  worldgen.NewScatterer(cfg.Vegetation),
		injector:    injector,
		settlements: settlement.NewRegistry(settlements),
		cache:       chunkcache.New[*Chunk](cfg.Cache.MaxCachedChunks),
	}

	logger.Info("World created",
		"seed", seed,
		"chunks", fmt.Sprintf("%dx%d", wc.WorldWidth, wc.WorldHeight),
		"settlements", w.settlements.Len())

	return w, nil
}

// Seed returns the world seed
func (w *World) Seed() int64 {
	return w.seed
}

// Config returns the configuration the world was built with
func (w *World) Config() *config.Config {
	return w.cfg
}

// Width returns the world width in chunks
func (w *World) Width() int {
	return w.cfg.World.WorldWidth
}

// Height returns the world height in chunks
func (w *World) Height() int {
	return w.cfg.World.WorldHeight
}

// InBounds reports whether (x, y) is a chunk of this world
func (w *World) InBounds(x, y int) bool {
	return terrain.Coord{X: x, Y: y}.InBounds(w.Width(), w.Height())
}

// GenerateOrFetchChunk returns the chunk at (x, y), generating it on a
// cache miss. Regenerating an evicted chunk yields the same content.
func (w *World) GenerateOrFetchChunk(x, y int) (*Chunk, error) {
	coord := terrain.Coord{X: x, Y: y}
	if !w.InBounds(x, y) {
		return nil, fmt.Errorf("chunk %s: %w", coord, ErrOutOfBounds)
	}
	return w.cache.GetOrGenerate(coord, w.generate)
}

// Generate builds the chunk at (x, y) without touching the cache
func (w *World) Generate(x, y int) (*Chunk, error) {
	coord := terrain.Coord{X: x, Y: y}
	if !w.InBounds(x, y) {
		return nil, fmt.Errorf("chunk %s: %w", coord, ErrOutOfBounds)
	}
	return w.generate(coord)
}

// generate runs every pass over a fresh grid. Each pass draws from its own
// seeded stream so the result depends only on the world seed and coord.
func (w *World) generate(coord terrain.Coord) (*Chunk, error) {
	cw, ch := w.cfg.World.ChunkWidth, w.cfg.World.ChunkHeight
	chunk := &Chunk{Coord: coord}

	s, isSettlement := w.settlements.At(coord)

	var grid *terrain.Grid
	var reserved worldgen.Reserved
	if isSettlement {
		// Settlement chunks stay flat; the footprint is kept free of rivers
		grid = terrain.NewGrid(cw, ch, terrain.Road)
		reserved = w.injector.Footprint(cw, ch).Contains
	} else {
		grid = terrain.NewGrid(cw, ch, terrain.Empty)
		field := w.heights.Chunk(coord)
		w.classifier.Classify(grid, field, worldgen.NewChunkRand(w.seed, coord, worldgen.StreamTerrain))
	}

	chunk.Stats.Rivers = w.rivers.Carve(grid, worldgen.NewChunkRand(w.seed, coord, worldgen.StreamRivers), reserved)

	if isSettlement {
		owned := *s
		chunk.Settlement = &owned
		chunk.Layout = w.injector.Inject(grid, &owned, worldgen.NewChunkRand(w.seed, coord, worldgen.StreamSettlement))
	} else {
		chunk.Stats.Vegetation = w.vegetation.Scatter(grid, worldgen.NewChunkRand(w.seed, coord, worldgen.StreamVegetation))
	}

	chunk.Grid = grid
	chunk.Stats.Counts = grid.Counts()

	if logger.Enabled(slog.LevelDebug) {
		attrs := []any{
			"chunk", coord.Key(),
			"settlement", isSettlement,
			"water", chunk.Stats.Counts[terrain.Water],
			"mountains", chunk.Stats.Counts[terrain.Mountain],
			"trees", chunk.Stats.Counts[terrain.Tree] + chunk.Stats.Counts[terrain.LargeTree],
		}
		if chunk.Layout != nil {
			attrs = append(attrs, "buildings", len(chunk.Layout.Buildings), "failed", chunk.Layout.Failed)
		}
		logger.Debug("Chunk generated", attrs...)
	}

	return chunk, nil
}

// IsSettlementChunk reports whether the chunk at (x, y) holds a settlement
func (w *World) IsSettlementChunk(x, y int) bool {
	return w.settlements.Contains(terrain.Coord{X: x, Y: y})
}

// Settlement returns the settlement on chunk (x, y)
func (w *World) Settlement(x, y int) (*settlement.Settlement, bool) {
	return w.settlements.At(terrain.Coord{X: x, Y: y})
}

// Settlements returns every settlement of the world in plan order
func (w *World) Settlements() []settlement.Settlement {
	return w.settlements.All()
}

// NextSettlement returns the settlement after the one on coord, wrapping
func (w *World) NextSettlement(coord terrain.Coord) (*settlement.Settlement, bool) {
	return w.settlements.Next(coord)
}

// SettlementBuildings returns the buildings of the settlement on (x, y).
// The chunk is fetched through the cache. Wilderness chunks have none.
func (w *World) SettlementBuildings(x, y int) ([]*settlement.Building, error) {
	if !w.IsSettlementChunk(x, y) {
		if !w.InBounds(x, y) {
			return nil, fmt.Errorf("chunk %s: %w", terrain.Coord{X: x, Y: y}, ErrOutOfBounds)
		}
		return nil, nil
	}
	chunk, err := w.GenerateOrFetchChunk(x, y)
	if err != nil {
		return nil, err
	}
	return chunk.Buildings(), nil
}

// TerrainProperties returns the static movement properties of a cell
func (w *World) TerrainProperties(c terrain.Cell) terrain.Properties {
	return terrain.PropertiesOf(c)
}

// InvalidateChunk drops a cached chunk so the next request regenerates it.
// Returns true if the chunk was cached.
func (w *World) InvalidateChunk(x, y int) bool {
	return w.cache.Invalidate(terrain.Coord{X: x, Y: y})
}

// CacheStats returns the chunk cache counters
func (w *World) CacheStats() chunkcache.Stats {
	return w.cache.Stats()
}

// CachedChunks returns the cached coordinates, oldest first
func (w *World) CachedChunks() []terrain.Coord {
	return w.cache.Keys()
}
