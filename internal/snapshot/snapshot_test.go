package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/world"
)

func newTestWorld(t *testing.T, seed int64) *world.World {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	w, err := world.New(config.DefaultConfig(), cat, seed, nil)
	if err != nil {
		t.Fatalf("failed to create world: %v", err)
	}
	return w
}

func TestWriteReadRoundTrip(t *testing.T) {
	w := newTestWorld(t, 99)
	home := w.Settlements()[0].Coord
	coords := []terrain.Coord{{X: 0, Y: 0}, {X: 4, Y: 2}, home}

	snap, err := Capture(w, "world-1", coords)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "snaps", "world.snap.zst")
	if err := Write(path, snap); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.Header.WorldID != "world-1" || got.Header.Seed != 99 || got.Header.Chunks != 3 {
		t.Errorf("header = %+v", got.Header)
	}
	if len(got.Settlements) != len(w.Settlements()) {
		t.Errorf("settlements = %d, want %d", len(got.Settlements), len(w.Settlements()))
	}

	for _, coord := range coords {
		chunk, err := w.GenerateOrFetchChunk(coord.X, coord.Y)
		if err != nil {
			t.Fatal(err)
		}
		stored, ok := got.Chunk(coord)
		if !ok {
			t.Fatalf("chunk %s missing from snapshot", coord)
		}
		grid, err := stored.Grid()
		if err != nil {
			t.Fatal(err)
		}
		if !grid.Equal(chunk.Grid) {
			t.Errorf("chunk %s grid differs after round trip", coord)
		}
		if len(stored.Buildings) != len(chunk.Buildings()) {
			t.Errorf("chunk %s buildings = %d, want %d", coord, len(stored.Buildings), len(chunk.Buildings()))
		}
	}

	settled, _ := got.Chunk(home)
	if settled.Settlement != w.Settlements()[0].Name {
		t.Errorf("settlement name = %q, want %q", settled.Settlement, w.Settlements()[0].Name)
	}
}

func TestSettlementPlanRestore(t *testing.T) {
	w := newTestWorld(t, 5)
	snap, err := Capture(w, "w", nil)
	if err != nil {
		t.Fatal(err)
	}

	restored, err := snap.SettlementPlan()
	if err != nil {
		t.Fatalf("SettlementPlan failed: %v", err)
	}
	want := w.Settlements()
	if len(restored) != len(want) {
		t.Fatalf("restored %d settlements, want %d", len(restored), len(want))
	}
	for i := range want {
		if restored[i].Coord != want[i].Coord || restored[i].Name != want[i].Name {
			t.Errorf("settlement %d = %v, want %v", i, restored[i], want[i])
		}
		if len(restored[i].Archetypes) != len(want[i].Archetypes) || restored[i].Archetypes[0] != catalog.Yard {
			t.Errorf("settlement %d archetypes = %v, want %v", i, restored[i].Archetypes, want[i].Archetypes)
		}
	}

	snap.Settlements[0].Archetypes = []string{"castle"}
	if _, err := snap.SettlementPlan(); err == nil {
		t.Error("expected error for unknown archetype")
	}
}

func TestReadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.snap.zst")
	snap := Snapshot{Header: Header{WorldID: "abc", Seed: 3}}
	snap.Chunks = []ChunkV1{{X: 1, Y: 1, Cells: [][]string{{"road"}}}}

	if err := Write(path, snap); err != nil {
		t.Fatal(err)
	}

	hdr, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if hdr.Version != Version || hdr.WorldID != "abc" || hdr.Chunks != 1 {
		t.Errorf("header = %+v", hdr)
	}
}

func TestReadRejectsOtherVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.snap.zst")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write([]byte(`{"version":7,"world_id":"x"}` + "\n{}\n"))
	enc.Close()
	f.Close()

	if _, err := Read(path); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Read: got %v, want ErrUnsupportedVersion", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope")); !os.IsNotExist(err) {
		t.Errorf("Read of missing file: got %v, want not-exist error", err)
	}
}

func TestMalformedCells(t *testing.T) {
	c := ChunkV1{X: 2, Y: 3, Cells: [][]string{{"road", "lava"}}}
	if _, err := c.Grid(); err == nil {
		t.Error("expected error for unknown cell name")
	}
}
