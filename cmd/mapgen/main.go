package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/snapshot"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/world"
)

// region is a rectangle of chunks to render
type region struct {
	X, Y, W, H int
}

func (r region) coords() []terrain.Coord {
	var out []terrain.Coord
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			out = append(out, terrain.Coord{X: x, Y: y})
		}
	}
	return out
}

func main() {
	configFile := flag.String("config", "data/overworld.yaml", "Path to generator config YAML file")
	seed := flag.Int64("seed", 0, "World seed (default: config seed)")
	catalogFile := flag.String("catalog", "", "Path to building template YAML file (overrides config)")
	inputFile := flag.String("input", "", "Render chunks from a snapshot file instead of generating them")
	exportFile := flag.String("export", "", "Also write the rendered chunks to a snapshot file")
	chunkX := flag.Int("x", 0, "Leftmost chunk column")
	chunkY := flag.Int("y", 0, "Topmost chunk row")
	width := flag.Int("w", 1, "Number of chunk columns")
	height := flag.Int("h", 1, "Number of chunk rows")
	overview := flag.Bool("overview", false, "Render the whole world with one character per chunk")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	r := region{X: *chunkX, Y: *chunkY, W: *width, H: *height}
	if r.W < 1 || r.H < 1 {
		fmt.Fprintf(os.Stderr, "Error: region must be at least 1x1 chunks\n")
		os.Exit(1)
	}

	var output strings.Builder
	var snap snapshot.Snapshot

	if *inputFile != "" {
		var err error
		snap, err = snapshot.Read(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading snapshot: %v\n", err)
			os.Exit(1)
		}
		output.WriteString(fmt.Sprintf("Overworld Snapshot (World: %s, Seed: %d, Chunks: %d)\n",
			snap.Header.WorldID, snap.Header.Seed, len(snap.Chunks)))
	} else {
		w, err := loadWorld(*configFile, *seed, *catalogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		output.WriteString(fmt.Sprintf("Overworld Map (Seed: %d, World: %dx%d chunks)\n", w.Seed(), w.Width(), w.Height()))

		if *overview {
			output.WriteString(strings.Repeat("=", 60) + "\n\n")
			output.WriteString(renderOverview(w))
			writeOutput(*outputFile, output.String())
			return
		}

		snap, err = snapshot.Capture(w, uuid.NewString(), r.coords())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating chunks: %v\n", err)
			os.Exit(1)
		}
	}
	output.WriteString(strings.Repeat("=", 60) + "\n\n")

	if err := renderRegion(&output, snap, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	renderBuildings(&output, snap, r)

	if *showLegend {
		output.WriteString(getLegend())
	}

	if *exportFile != "" {
		if err := snapshot.Write(*exportFile, snap); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", *exportFile)
	}

	writeOutput(*outputFile, output.String())
}

func loadWorld(configPath string, seed int64, catalogPath string) (*world.World, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if seed != 0 {
		cfg.World.Seed = seed
	}
	if catalogPath != "" {
		cfg.Settlements.CatalogPath = catalogPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cat, err := catalog.LoadOrDefault(cfg.Settlements.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return world.New(cfg, cat, cfg.World.Seed, nil)
}

func writeOutput(path, text string) {
	if path != "" {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", path)
	} else {
		fmt.Print(text)
	}
}

// renderOverview draws one character per chunk: the settlement symbol or
// '.' for wilderness, followed by the settlement list.
func renderOverview(w *world.World) string {
	var output strings.Builder
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			if s, ok := w.Settlement(x, y); ok {
				output.WriteString(s.Symbol)
			} else {
				output.WriteByte('.')
			}
		}
		output.WriteByte('\n')
	}

	output.WriteString("\nSettlements:\n")
	for _, s := range w.Settlements() {
		output.WriteString(fmt.Sprintf("  [%s] %s\n", s.Symbol, s.String()))
	}
	return output.String()
}

// renderRegion stitches the chunks of r side by side, one blank column and
// row between neighbours. Chunks missing from snap render as '?'.
func renderRegion(output *strings.Builder, snap snapshot.Snapshot, r region) error {
	cw, ch := snap.Header.ChunkWidth, snap.Header.ChunkHeight

	for cy := r.Y; cy < r.Y+r.H; cy++ {
		rows := make([][]string, r.W)
		labels := make([]string, r.W)
		for i := 0; i < r.W; i++ {
			coord := terrain.Coord{X: r.X + i, Y: cy}
			labels[i] = fmt.Sprintf("%-*s", cw, truncate("Chunk "+coord.String(), cw))

			stored, ok := snap.Chunk(coord)
			if !ok {
				rows[i] = missingChunk(cw, ch)
				continue
			}
			if stored.Settlement != "" {
				labels[i] = fmt.Sprintf("%-*s", cw, truncate(coord.String()+" "+stored.Settlement, cw))
			}
			grid, err := stored.Grid()
			if err != nil {
				return err
			}
			rows[i] = grid.Rows()
		}

		output.WriteString(strings.TrimRight(strings.Join(labels, " "), " ") + "\n")
		for y := 0; y < ch; y++ {
			line := make([]string, r.W)
			for i := range rows {
				if y < len(rows[i]) {
					line[i] = rows[i][y]
				}
			}
			output.WriteString(strings.Join(line, " ") + "\n")
		}
		output.WriteString("\n")
	}
	return nil
}

func renderBuildings(output *strings.Builder, snap snapshot.Snapshot, r region) {
	for _, c := range snap.Chunks {
		if len(c.Buildings) == 0 || c.X < r.X || c.X >= r.X+r.W || c.Y < r.Y || c.Y >= r.Y+r.H {
			continue
		}
		output.WriteString(fmt.Sprintf("%s %s buildings:\n", c.Settlement, c.Coord()))
		for _, b := range c.Buildings {
			var points []string
			for kind, pts := range b.Points {
				points = append(points, fmt.Sprintf("%s x%d", kind, len(pts)))
			}
			output.WriteString(fmt.Sprintf("  %-10s %-14s at (%d,%d) %dx%d  %s\n",
				b.Archetype, b.Template, b.X, b.Y, b.Width, b.Height, strings.Join(points, ", ")))
		}
		output.WriteString("\n")
	}
}

func missingChunk(width, height int) []string {
	rows := make([]string, height)
	for i := range rows {
		rows[i] = strings.Repeat("?", width)
	}
	return rows
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

func getLegend() string {
	var output strings.Builder
	output.WriteString("Legend:\n")
	for _, c := range terrain.AllCells() {
		output.WriteString(fmt.Sprintf("  [%c] %s\n", c.Glyph(), c))
	}
	output.WriteString("  [?] Chunk not in snapshot\n")
	return output.String()
}
