package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/mechtactics/internal/pathfind"
	"github.com/gravitas-games/mechtactics/internal/tilemap"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "./configs/server.yaml"

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	JWT     JWTConfig     `yaml:"jwt"`
	Redis   RedisConfig   `yaml:"redis"`
	Session SessionConfig `yaml:"session"`
	Grid    GridConfig    `yaml:"grid"`
	Pathing PathingConfig `yaml:"pathing"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host" env:"MECH_SERVER_HOST"`
	Port int    `yaml:"port" env:"MECH_SERVER_PORT"`
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Issuer              string `yaml:"issuer" env:"MECH_JWT_ISSUER"`
	PublicKeyURL        string `yaml:"public_key_url" env:"MECH_JWT_PUBLIC_KEY_URL"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings. An empty address disables
// the token blacklist and the occupancy mirror.
type RedisConfig struct {
	Address         string `yaml:"address" env:"MECH_REDIS_ADDRESS"`
	Password        string `yaml:"password" env:"MECH_REDIS_PASSWORD"`
	DB              int    `yaml:"db" env:"MECH_REDIS_DB"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
	OccupancyKey    string `yaml:"occupancy_key"`
}

// SessionConfig holds game session settings
type SessionConfig struct {
	MaxPlayers int `yaml:"max_players" env:"MECH_SESSION_MAX_PLAYERS"`
	Teams      int `yaml:"teams"` // mech teams players are spread across
}

// GridConfig selects where the map comes from. A stored map (map_store plus
// map_name) wins over map_file, which wins over generation.
type GridConfig struct {
	MapFile         string            `yaml:"map_file" env:"MECH_GRID_MAP_FILE"`
	MapStore        string            `yaml:"map_store" env:"MECH_GRID_MAP_STORE"`
	MapName         string            `yaml:"map_name" env:"MECH_GRID_MAP_NAME"`
	DefinitionsFile string            `yaml:"definitions_file" env:"MECH_GRID_DEFINITIONS_FILE"`
	Generate        tilemap.GenConfig `yaml:"generate"`
	HexSize         float64           `yaml:"hex_size" env:"MECH_GRID_HEX_SIZE"`
	Excluded        []string          `yaml:"excluded" env:"MECH_GRID_EXCLUDED"` // added to obstacle kinds
}

// PathingConfig holds search settings
type PathingConfig struct {
	Heuristic        string `yaml:"heuristic" env:"MECH_PATHING_HEURISTIC"` // hex or euclidean
	DefaultMoveRange int    `yaml:"default_move_range"`
}

// Load reads configuration from a YAML file and applies environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.JWT.PublicKeyRefreshHrs == 0 {
		c.JWT.PublicKeyRefreshHrs = 24
	}
	if c.Redis.BlacklistPrefix == "" {
		c.Redis.BlacklistPrefix = "blacklist:"
	}
	if c.Redis.OccupancyKey == "" {
		c.Redis.OccupancyKey = "mechtactics:occupancy"
	}
	if c.Session.MaxPlayers == 0 {
		c.Session.MaxPlayers = 8
	}
	if c.Session.Teams == 0 {
		c.Session.Teams = 2
	}
	if c.Grid.HexSize == 0 {
		c.Grid.HexSize = 1
	}
	def := tilemap.DefaultGenConfig()
	if c.Grid.Generate.Width == 0 {
		c.Grid.Generate.Width = def.Width
	}
	if c.Grid.Generate.Height == 0 {
		c.Grid.Generate.Height = def.Height
	}
	if c.Grid.Generate.WaterLevel == 0 {
		c.Grid.Generate.WaterLevel = def.WaterLevel
	}
	if c.Grid.Generate.RockLevel == 0 {
		c.Grid.Generate.RockLevel = def.RockLevel
	}
	if c.Pathing.Heuristic == "" {
		c.Pathing.Heuristic = "hex"
	}
	if c.Pathing.DefaultMoveRange == 0 {
		c.Pathing.DefaultMoveRange = 3
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.JWT.PublicKeyURL == "" {
		errs = append(errs, errors.New("jwt.public_key_url is required"))
	}
	if c.Grid.HexSize <= 0 {
		errs = append(errs, fmt.Errorf("grid.hex_size must be positive, got %g", c.Grid.HexSize))
	}
	if c.Grid.MapName != "" && c.Grid.MapStore == "" {
		errs = append(errs, errors.New("grid.map_name requires grid.map_store"))
	}
	for _, k := range c.Grid.Excluded {
		if k == "" {
			errs = append(errs, errors.New("grid.excluded contains an empty kind"))
			break
		}
	}
	if _, ok := pathfind.HeuristicByName(c.Pathing.Heuristic); !ok {
		errs = append(errs, fmt.Errorf("pathing.heuristic %q unknown", c.Pathing.Heuristic))
	}
	if c.Pathing.DefaultMoveRange < 0 {
		errs = append(errs, errors.New("pathing.default_move_range must not be negative"))
	}
	if c.Session.Teams < 1 {
		errs = append(errs, errors.New("session.teams must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
