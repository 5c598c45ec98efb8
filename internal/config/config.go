package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the overworld generator and its service.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Terrain     TerrainConfig     `yaml:"terrain"`
	Rivers      RiverConfig       `yaml:"rivers"`
	Vegetation  VegetationConfig  `yaml:"vegetation"`
	Settlements SettlementConfig  `yaml:"settlements"`
	Cache       CacheConfig       `yaml:"cache"`
	Database    DatabaseConfig    `yaml:"database"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
}

// WorldConfig holds chunk and world dimensions.
type WorldConfig struct {
	// ChunkWidth and ChunkHeight are the number of cells per chunk.
	ChunkWidth  int `yaml:"chunk_width"`
	ChunkHeight int `yaml:"chunk_height"`

	// WorldWidth and WorldHeight are the number of chunks in the world.
	WorldWidth  int `yaml:"world_width"`
	WorldHeight int `yaml:"world_height"`

	// Seed is the world seed. 0 means reuse the stored seed or pick one from the clock.
	Seed int64 `yaml:"seed"`
}

// TerrainConfig holds the height field and classification thresholds.
type TerrainConfig struct {
	// WorldScale converts absolute cell coordinates into noise space.
	WorldScale float64 `yaml:"world_scale"`

	MountainThreshold float64 `yaml:"mountain_threshold"`
	GrassThreshold    float64 `yaml:"grass_threshold"`
	GrassChance       float64 `yaml:"grass_chance"`

	// MountainChance is the probability that a cell above the threshold
	// actually becomes a mountain.
	MountainChance float64 `yaml:"mountain_chance"`
}

// RiverConfig holds river carving parameters.
type RiverConfig struct {
	Count        int     `yaml:"count"`
	MinLength    int     `yaml:"min_length"`
	BranchChance float64 `yaml:"branch_chance"`
}

// VegetationConfig holds tree scattering parameters.
type VegetationConfig struct {
	TreeMaxWeight   int     `yaml:"tree_max_weight"`
	SmallTreeWeight int     `yaml:"small_tree_weight"`
	LargeTreeWeight int     `yaml:"large_tree_weight"`
	LargeTreeChance float64 `yaml:"large_tree_chance"`

	// MaxAttempts bounds the placement loop so it always terminates.
	MaxAttempts int `yaml:"max_attempts"`
}

// SettlementConfig holds settlement placement and layout parameters.
type SettlementConfig struct {
	// Count is the number of settlement chunks placed in the world.
	Count int `yaml:"count"`

	// FootprintSize is the side length of the walled square.
	FootprintSize int `yaml:"footprint_size"`

	// RingTreeDensity is the noise threshold above which a cell in the ring
	// outside the wall gets a tree. Higher means fewer trees.
	RingTreeDensity float64 `yaml:"ring_tree_density"`

	// CatalogPath points at a building template YAML file.
	// Empty uses the built-in catalog.
	CatalogPath string `yaml:"catalog_path"`
}

// CacheConfig holds chunk cache settings.
type CacheConfig struct {
	MaxCachedChunks int `yaml:"max_cached_chunks"`
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`

	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// Address is the listen address of the chunk service.
	Address string `yaml:"address"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum inbound WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// ConnectionsConfig holds connection limit settings for the chunk service.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections. 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// DefaultConfig returns a Config with the stock generation recipe.
func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			ChunkWidth:  40,
			ChunkHeight: 30,
			WorldWidth:  16,
			WorldHeight: 16,
		},
		Terrain: TerrainConfig{
			WorldScale:        0.08,
			MountainThreshold: 0.6,
			GrassThreshold:    0.4,
			GrassChance:       0.3,
			MountainChance:    0.7,
		},
		Rivers: RiverConfig{
			Count:        2,
			MinLength:    5,
			BranchChance: 0.05,
		},
		Vegetation: VegetationConfig{
			TreeMaxWeight:   30,
			SmallTreeWeight: 1,
			LargeTreeWeight: 4,
			LargeTreeChance: 0.3,
			MaxAttempts:     200,
		},
		Settlements: SettlementConfig{
			Count:           6,
			FootprintSize:   20,
			RingTreeDensity: 0.55,
		},
		Cache: CacheConfig{
			MaxCachedChunks: 100,
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/overworld.db",
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				SSLMode:         "disable",
				MaxOpenConns:    10,
				MaxIdleConns:    2,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		WebSocket: WebSocketConfig{
			Address:        ":4443",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 3,
			MaxTotal: 100,
		},
	}
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides. If the file doesn't exist, returns the default config.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			config.applyEnv()
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config YAML: %w", err)
	}

	config.applyEnv()
	return config, nil
}

// applyEnv applies environment variable overrides
func (c *Config) applyEnv() {
	if seed := os.Getenv("OVERWORLD_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.World.Seed = v
		}
	}
	if path := os.Getenv("OVERWORLD_DB"); path != "" {
		c.Database.SQLitePath = path
	}
	if addr := os.Getenv("OVERWORLD_ADDR"); addr != "" {
		c.WebSocket.Address = addr
	}
}

// Validate checks that the configuration describes a generatable world.
func (c *Config) Validate() error {
	w := c.World
	if w.ChunkWidth <= 0 || w.ChunkHeight <= 0 {
		return fmt.Errorf("chunk size must be positive, got %dx%d", w.ChunkWidth, w.ChunkHeight)
	}
	if w.WorldWidth <= 0 || w.WorldHeight <= 0 {
		return fmt.Errorf("world size must be positive, got %dx%d", w.WorldWidth, w.WorldHeight)
	}

	t := c.Terrain
	if t.WorldScale <= 0 {
		return fmt.Errorf("terrain.world_scale must be positive, got %v", t.WorldScale)
	}
	for name, v := range map[string]float64{
		"terrain.mountain_threshold":    t.MountainThreshold,
		"terrain.grass_threshold":       t.GrassThreshold,
		"terrain.grass_chance":          t.GrassChance,
		"terrain.mountain_chance":       t.MountainChance,
		"rivers.branch_chance":          c.Rivers.BranchChance,
		"vegetation.large_tree_chance":  c.Vegetation.LargeTreeChance,
		"settlements.ring_tree_density": c.Settlements.RingTreeDensity,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if t.GrassThreshold > t.MountainThreshold {
		return fmt.Errorf("terrain.grass_threshold (%v) must not exceed terrain.mountain_threshold (%v)",
			t.GrassThreshold, t.MountainThreshold)
	}

	if c.Rivers.Count < 0 {
		return fmt.Errorf("rivers.count must not be negative, got %d", c.Rivers.Count)
	}
	if c.Rivers.MinLength < 1 {
		return fmt.Errorf("rivers.min_length must be at least 1, got %d", c.Rivers.MinLength)
	}

	v := c.Vegetation
	if v.TreeMaxWeight < 0 {
		return fmt.Errorf("vegetation.tree_max_weight must not be negative, got %d", v.TreeMaxWeight)
	}
	if v.SmallTreeWeight < 1 || v.LargeTreeWeight < 1 {
		return fmt.Errorf("tree weights must be at least 1, got small=%d large=%d", v.SmallTreeWeight, v.LargeTreeWeight)
	}
	if v.MaxAttempts < 1 {
		return fmt.Errorf("vegetation.max_attempts must be at least 1, got %d", v.MaxAttempts)
	}

	s := c.Settlements
	if s.Count < 0 || s.Count > w.WorldWidth*w.WorldHeight {
		return fmt.Errorf("settlements.count must be within [0,%d], got %d", w.WorldWidth*w.WorldHeight, s.Count)
	}
	if s.FootprintSize < 5 {
		return fmt.Errorf("settlements.footprint_size must be at least 5, got %d", s.FootprintSize)
	}
	if s.FootprintSize > w.ChunkWidth || s.FootprintSize > w.ChunkHeight {
		return fmt.Errorf("settlements.footprint_size %d does not fit a %dx%d chunk",
			s.FootprintSize, w.ChunkWidth, w.ChunkHeight)
	}

	if c.Cache.MaxCachedChunks < 1 {
		return fmt.Errorf("cache.max_cached_chunks must be at least 1, got %d", c.Cache.MaxCachedChunks)
	}

	if c.Connections.MaxPerIP < 0 || c.Connections.MaxTotal < 0 {
		return fmt.Errorf("connection limits must not be negative, got per_ip=%d total=%d",
			c.Connections.MaxPerIP, c.Connections.MaxTotal)
	}

	switch c.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
