package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.World.ChunkWidth != 40 || cfg.World.ChunkHeight != 30 {
		t.Errorf("expected 40x30 chunks, got %dx%d", cfg.World.ChunkWidth, cfg.World.ChunkHeight)
	}

	if cfg.Cache.MaxCachedChunks != 100 {
		t.Errorf("expected max cached chunks 100, got %d", cfg.Cache.MaxCachedChunks)
	}

	if cfg.Settlements.FootprintSize != 20 {
		t.Errorf("expected footprint size 20, got %d", cfg.Settlements.FootprintSize)
	}

	if cfg.Terrain.MountainChance != 0.7 {
		t.Errorf("expected mountain chance 0.7, got %v", cfg.Terrain.MountainChance)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}

	if cfg.Rivers.Count != 2 {
		t.Errorf("expected default river count 2, got %d", cfg.Rivers.Count)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "overworld.yaml")

	content := `
world:
  chunk_width: 48
  seed: 1234
rivers:
  count: 4
  branch_chance: 0.2
cache:
  max_cached_chunks: 12
websocket:
  allowed_origins:
    - "https://example.com"
  max_message_size: 8192
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.World.ChunkWidth != 48 {
		t.Errorf("expected chunk width 48, got %d", cfg.World.ChunkWidth)
	}

	// Unset fields keep their defaults
	if cfg.World.ChunkHeight != 30 {
		t.Errorf("expected default chunk height 30, got %d", cfg.World.ChunkHeight)
	}

	if cfg.World.Seed != 1234 {
		t.Errorf("expected seed 1234, got %d", cfg.World.Seed)
	}

	if cfg.Rivers.Count != 4 || cfg.Rivers.BranchChance != 0.2 {
		t.Errorf("unexpected rivers section: %+v", cfg.Rivers)
	}

	if cfg.Cache.MaxCachedChunks != 12 {
		t.Errorf("expected max cached chunks 12, got %d", cfg.Cache.MaxCachedChunks)
	}

	if len(cfg.WebSocket.AllowedOrigins) != 1 || cfg.WebSocket.MaxMessageSize != 8192 {
		t.Errorf("unexpected websocket section: %+v", cfg.WebSocket)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "broken.yaml")

	if err := os.WriteFile(configPath, []byte("world: [not, a, map"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg == nil || cfg.World.ChunkWidth != 40 {
		t.Error("expected defaults alongside parse error")
	}
}

func TestLoadConfig_EnvSeedOverride(t *testing.T) {
	t.Setenv("OVERWORLD_SEED", "777")

	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.World.Seed != 777 {
		t.Errorf("expected seed 777 from env, got %d", cfg.World.Seed)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero chunk width", func(c *Config) { c.World.ChunkWidth = 0 }, "chunk size"},
		{"zero world height", func(c *Config) { c.World.WorldHeight = 0 }, "world size"},
		{"negative scale", func(c *Config) { c.Terrain.WorldScale = -1 }, "world_scale"},
		{"threshold above one", func(c *Config) { c.Terrain.MountainThreshold = 1.5 }, "mountain_threshold"},
		{"grass above mountain", func(c *Config) { c.Terrain.GrassThreshold = 0.8 }, "grass_threshold"},
		{"river min length", func(c *Config) { c.Rivers.MinLength = 0 }, "min_length"},
		{"negative rivers", func(c *Config) { c.Rivers.Count = -1 }, "rivers.count"},
		{"zero tree weight", func(c *Config) { c.Vegetation.SmallTreeWeight = 0 }, "tree weights"},
		{"zero attempts", func(c *Config) { c.Vegetation.MaxAttempts = 0 }, "max_attempts"},
		{"footprint too big", func(c *Config) { c.Settlements.FootprintSize = 31 }, "does not fit"},
		{"footprint too small", func(c *Config) { c.Settlements.FootprintSize = 3 }, "at least 5"},
		{"too many settlements", func(c *Config) { c.Settlements.Count = 1000 }, "settlements.count"},
		{"zero cache", func(c *Config) { c.Cache.MaxCachedChunks = 0 }, "max_cached_chunks"},
		{"negative connections", func(c *Config) { c.Connections.MaxTotal = -1 }, "connection limits"},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{},
	}

	if !cfg.IsOriginAllowed("http://localhost:4443", "localhost:4443") {
		t.Error("expected same-origin request to be allowed")
	}

	if cfg.IsOriginAllowed("http://evil.com", "localhost:4443") {
		t.Error("expected cross-origin request to be rejected")
	}
}

func TestIsOriginAllowed_Wildcard(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{"*"},
	}

	if !cfg.IsOriginAllowed("http://anything.com", "localhost:4443") {
		t.Error("expected wildcard to allow any origin")
	}
}

func TestIsOriginAllowed_ExactMatch(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{
			"https://example.com",
			"http://localhost:3000",
		},
	}

	if !cfg.IsOriginAllowed("https://example.com", "localhost:4443") {
		t.Error("expected exact match to be allowed")
	}

	if cfg.IsOriginAllowed("https://example.com:8080", "localhost:4443") {
		t.Error("expected partial match to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4443", true},                       // No origin header
		{"http://localhost:4443", "localhost:4443", true},  // HTTP match
		{"https://localhost:4443", "localhost:4443", true}, // HTTPS match
		{"http://localhost:4443/", "localhost:4443", true}, // Trailing slash
		{"http://example.com", "localhost:4443", false},    // Different host
		{"http://localhost:3000", "localhost:4443", false}, // Different port
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}
