package worldgen

import (
	"github.com/aquilax/go-perlin"
	"github.com/lawnchairsociety/overworld/internal/terrain"
)

// Perlin parameters: smoothness, frequency step and octave count
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// HeightField samples a seeded smooth noise function in absolute world
// coordinates, so neighboring chunks see a continuous raw surface.
type HeightField struct {
	noise       *perlin.Perlin
	seed        int64
	chunkWidth  int
	chunkHeight int
	scale       float64
}

// NewHeightField creates a height field for the given world seed
func NewHeightField(seed int64, chunkWidth, chunkHeight int, scale float64) *HeightField {
	return &HeightField{
		noise:       perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		seed:        seed,
		chunkWidth:  chunkWidth,
		chunkHeight: chunkHeight,
		scale:       scale,
	}
}

// Seed returns the world seed the field was built with
func (h *HeightField) Seed() int64 {
	return h.seed
}

// Sample returns the raw noise value for one cell of one chunk.
// The noise input is the absolute world cell position times the world scale.
func (h *HeightField) Sample(chunkX, chunkY, localX, localY int) float64 {
	wx := float64(chunkX*h.chunkWidth+localX) * h.scale
	wy := float64(chunkY*h.chunkHeight+localY) * h.scale
	return h.noise.Noise2D(wx, wy)
}

// Chunk samples every cell of a chunk and stretches the result to [0,1]
// using that chunk's own minimum and maximum.
//
// Normalizing per chunk means two chunks may map the same raw height to
// different normalized values; mountain density can therefore jump at chunk
// borders. This is kept on purpose.
func (h *HeightField) Chunk(coord terrain.Coord) [][]float64 {
	field := make([][]float64, h.chunkHeight)
	for y := range field {
		field[y] = make([]float64, h.chunkWidth)
		for x := range field[y] {
			field[y][x] = h.Sample(coord.X, coord.Y, x, y)
		}
	}
	Normalize(field)
	return field
}

// Normalize linearly rescales field in place to [0,1].
// A flat field becomes all zeros.
func Normalize(field [][]float64) {
	first := true
	var lo, hi float64
	for _, row := range field {
		for _, v := range row {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	span := hi - lo
	for _, row := range field {
		for x, v := range row {
			if span == 0 {
				row[x] = 0
			} else {
				row[x] = (v - lo) / span
			}
		}
	}
}
