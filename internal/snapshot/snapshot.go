// Package snapshot exports generated chunks to zstd-compressed files so a
// world can be inspected or diffed without regenerating it.
//
// A snapshot file is a zstd stream holding one JSON header line followed by
// the JSON body. The header can be read on its own.
package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/settlement"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/world"
)

// Version is the snapshot format version written by Write.
const Version = 1

// ErrUnsupportedVersion is returned when reading a snapshot of another format version.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Header is the first line of a snapshot file and can be read on its own.
type Header struct {
	Version     int    `json:"version"`
	WorldID     string `json:"world_id"`
	Seed        int64  `json:"seed"`
	ChunkWidth  int    `json:"chunk_width"`
	ChunkHeight int    `json:"chunk_height"`
	WorldWidth  int    `json:"world_width"`
	WorldHeight int    `json:"world_height"`
	Chunks      int    `json:"chunks"`
}

// Snapshot is a set of generated chunks plus the settlement plan of their world.
type Snapshot struct {
	Header Header `json:"header"`

	Settlements []SettlementV1 `json:"settlements"`
	Chunks      []ChunkV1      `json:"chunks"`
}

// SettlementV1 is a planned settlement.
type SettlementV1 struct {
	X          int      `json:"x"`
	Y          int      `json:"y"`
	Name       string   `json:"name"`
	Symbol     string   `json:"symbol"`
	Archetypes []string `json:"archetypes"`
}

// ChunkV1 is one chunk with its cells stored by name, row by row.
type ChunkV1 struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Settlement is the settlement name, empty for wilderness
	Settlement string         `json:"settlement,omitempty"`
	Cells      [][]string     `json:"cells"`
	Buildings  []BuildingV1   `json:"buildings,omitempty"`
	Counts     map[string]int `json:"counts,omitempty"`
}

// BuildingV1 is a placed building in chunk-local coordinates.
type BuildingV1 struct {
	Template  string `json:"template"`
	Archetype string `json:"archetype"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`

	// Points maps interaction kind names to chunk-local [x, y] pairs
	Points map[string][][2]int `json:"points,omitempty"`
}

// Capture generates (or fetches) the listed chunks of w and records them.
func Capture(w *world.World, worldID string, coords []terrain.Coord) (Snapshot, error) {
	cfg := w.Config().World
	snap := Snapshot{
		Header: Header{
			Version:     Version,
			WorldID:     worldID,
			Seed:        w.Seed(),
			ChunkWidth:  cfg.ChunkWidth,
			ChunkHeight: cfg.ChunkHeight,
			WorldWidth:  cfg.WorldWidth,
			WorldHeight: cfg.WorldHeight,
		},
	}

	for _, s := range w.Settlements() {
		snap.Settlements = append(snap.Settlements, SettlementFrom(s))
	}

	for _, c := range coords {
		chunk, err := w.GenerateOrFetchChunk(c.X, c.Y)
		if err != nil {
			return snap, fmt.Errorf("capture chunk %s: %w", c, err)
		}
		snap.Chunks = append(snap.Chunks, ChunkFrom(chunk))
	}
	snap.Header.Chunks = len(snap.Chunks)
	return snap, nil
}

// ChunkFrom converts a generated chunk.
func ChunkFrom(c *world.Chunk) ChunkV1 {
	out := ChunkV1{
		X:     c.Coord.X,
		Y:     c.Coord.Y,
		Cells: c.Grid.Names(),
	}
	if c.Settlement != nil {
		out.Settlement = c.Settlement.Name
	}
	if len(c.Stats.Counts) > 0 {
		out.Counts = make(map[string]int, len(c.Stats.Counts))
		for cell, n := range c.Stats.Counts {
			out.Counts[cell.String()] = n
		}
	}
	for _, b := range c.Buildings() {
		out.Buildings = append(out.Buildings, BuildingFrom(b))
	}
	return out
}

// BuildingFrom converts a placed building.
func BuildingFrom(b *settlement.Building) BuildingV1 {
	bv := BuildingV1{
		Template:  b.Template,
		Archetype: b.Archetype.String(),
		X:         b.X,
		Y:         b.Y,
		Width:     b.Width,
		Height:    b.Height,
		Points:    make(map[string][][2]int, len(b.Points)),
	}
	for kind, pts := range b.Points {
		for _, p := range pts {
			bv.Points[kind.String()] = append(bv.Points[kind.String()], [2]int{p.X, p.Y})
		}
	}
	return bv
}

// SettlementFrom converts a planned settlement.
func SettlementFrom(s settlement.Settlement) SettlementV1 {
	names := make([]string, len(s.Archetypes))
	for i, a := range s.Archetypes {
		names[i] = a.String()
	}
	return SettlementV1{
		X:          s.Coord.X,
		Y:          s.Coord.Y,
		Name:       s.Name,
		Symbol:     s.Symbol,
		Archetypes: names,
	}
}

// Coord returns the chunk coordinate.
func (c ChunkV1) Coord() terrain.Coord {
	return terrain.Coord{X: c.X, Y: c.Y}
}

// Grid rebuilds the cell grid.
func (c ChunkV1) Grid() (*terrain.Grid, error) {
	g, ok := terrain.GridFromNames(c.Cells)
	if !ok {
		return nil, fmt.Errorf("chunk %s: malformed cells", c.Coord())
	}
	return g, nil
}

// SettlementPlan converts the recorded settlements back into a world plan.
func (s Snapshot) SettlementPlan() ([]settlement.Settlement, error) {
	out := make([]settlement.Settlement, 0, len(s.Settlements))
	for _, sv := range s.Settlements {
		st := settlement.Settlement{
			Coord:  terrain.Coord{X: sv.X, Y: sv.Y},
			Name:   sv.Name,
			Symbol: sv.Symbol,
		}
		for _, name := range sv.Archetypes {
			a, ok := catalog.ParseArchetype(name)
			if !ok {
				return nil, fmt.Errorf("settlement %q: unknown archetype %q", sv.Name, name)
			}
			st.Archetypes = append(st.Archetypes, a)
		}
		out = append(out, st)
	}
	return out, nil
}

// Chunk returns the recorded chunk at coord.
func (s Snapshot) Chunk(coord terrain.Coord) (ChunkV1, bool) {
	for _, c := range s.Chunks {
		if c.X == coord.X && c.Y == coord.Y {
			return c, true
		}
	}
	return ChunkV1{}, false
}

// Write stores snap at path, creating parent directories.
func Write(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	if snap.Header.Version == 0 {
		snap.Header.Version = Version
	}
	snap.Header.Chunks = len(snap.Chunks)

	bw := bufio.NewWriterSize(enc, 256*1024)
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Read loads a snapshot written by Write.
func Read(path string) (Snapshot, error) {
	var snap Snapshot
	br, closer, err := open(path)
	if err != nil {
		return snap, err
	}
	defer closer()

	hdr, err := readHeader(br)
	if err != nil {
		return snap, err
	}

	if err := json.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("json decode: %w", err)
	}
	snap.Header = hdr
	return snap, nil
}

// ReadHeader reads only the header line of a snapshot.
func ReadHeader(path string) (Header, error) {
	br, closer, err := open(path)
	if err != nil {
		return Header{}, err
	}
	defer closer()
	return readHeader(br)
}

func open(path string) (*bufio.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	closer := func() {
		dec.Close()
		f.Close()
	}
	return bufio.NewReaderSize(dec, 256*1024), closer, nil
}

func readHeader(br *bufio.Reader) (Header, error) {
	var hdr Header
	line, err := br.ReadBytes('\n')
	if err != nil {
		return hdr, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &hdr); err != nil {
		return hdr, fmt.Errorf("parse header: %w", err)
	}
	if hdr.Version != Version {
		return hdr, fmt.Errorf("%w: %d", ErrUnsupportedVersion, hdr.Version)
	}
	return hdr, nil
}
