package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lawnchairsociety/overworld/internal/catalog"
	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/logger"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/tui"
	"github.com/lawnchairsociety/overworld/internal/world"
)

func main() {
	configFile := flag.String("config", "data/overworld.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seed := flag.Int64("seed", 0, "World seed (default: config seed)")
	catalogFile := flag.String("catalog", "", "Path to building template YAML file (overrides config)")
	startX := flag.Int("x", 0, "Starting chunk column")
	startY := flag.Int("y", 0, "Starting chunk row")
	flag.Parse()

	// The terminal belongs to the viewer, so logs only go to the file
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logConfig.ConsoleEnabled = false
	logConfig.FileEnabled = true
	logCloser, err := logger.Initialize(logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *catalogFile != "" {
		cfg.Settlements.CatalogPath = *catalogFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}

	cat, err := catalog.LoadOrDefault(cfg.Settlements.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	w, err := world.New(cfg, cat, cfg.World.Seed, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating world: %v\n", err)
		os.Exit(1)
	}

	start := terrain.Coord{X: *startX, Y: *startY}
	if !w.InBounds(start.X, start.Y) {
		fmt.Fprintf(os.Stderr, "Error: chunk %s is outside the %dx%d world\n", start, w.Width(), w.Height())
		os.Exit(1)
	}

	logger.Info("Starting chunk viewer", "seed", w.Seed(), "start", start.String())

	p := tea.NewProgram(tui.NewModel(w, start), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(1)
	}
}
