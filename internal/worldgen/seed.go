// Package worldgen turns a world seed and a chunk coordinate into a terrain
// grid: height field sampling, classification, river carving and vegetation.
package worldgen

import (
	"encoding/binary"
	"math/rand"

	"github.com/lawnchairsociety/overworld/internal/terrain"
	"golang.org/x/crypto/blake2b"
)

// Stream names keep the random sequences of independent generation passes
// apart, so adding draws to one pass never shifts another.
const (
	StreamTerrain    = "terrain"
	StreamRivers     = "rivers"
	StreamVegetation = "vegetation"
	StreamSettlement = "settlement"

	// StreamPlan seeds world-level planning such as settlement placement
	StreamPlan = "plan"
)

// ChunkSeed derives a per-chunk, per-pass seed from the world seed.
// The result depends only on its inputs, so a chunk regenerated after
// eviction draws exactly the same numbers.
func ChunkSeed(worldSeed int64, coord terrain.Coord, stream string) int64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(worldSeed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(coord.X)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(coord.Y)))

	h, _ := blake2b.New256(nil)
	h.Write(buf[:])
	h.Write([]byte(stream))
	sum := h.Sum(nil)

	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// NewChunkRand returns a generator seeded for one pass over one chunk
func NewChunkRand(worldSeed int64, coord terrain.Coord, stream string) *rand.Rand {
	return rand.New(rand.NewSource(ChunkSeed(worldSeed, coord, stream)))
}
