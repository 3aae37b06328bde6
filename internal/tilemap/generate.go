package tilemap

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
)

// GenConfig holds procedural map parameters.
type GenConfig struct {
	Width      int     `yaml:"width"`  // columns (R)
	Height     int     `yaml:"height"` // rows (Q)
	Seed       int64   `yaml:"seed"`   // 0 = random
	WaterLevel float64 `yaml:"water_level"`
	RockLevel  float64 `yaml:"rock_level"`
}

// DefaultGenConfig returns a skirmish-sized map.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:      16,
		Height:     12,
		WaterLevel: 0.28,
		RockLevel:  0.74,
	}
}

// Generate paints a Width x Height map from layered simplex noise: low ground
// becomes water, high ground rock and the rest base plating. The bottom-left
// corner is a mech spawn and the top-right corner a hive.
func Generate(cfg GenConfig) (*Sparse, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("generate: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.WaterLevel >= cfg.RockLevel {
		return nil, fmt.Errorf("generate: water level %.2f must be below rock level %.2f", cfg.WaterLevel, cfg.RockLevel)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	layout := hexgrid.NewLayout(1, hexgrid.Point{})
	s := NewSparse()

	for q := 0; q < cfg.Height; q++ {
		for r := 0; r < cfg.Width; r++ {
			c := hexgrid.GridCoordinate{Q: q, R: r}
			p, err := layout.ToWorld(c)
			if err != nil {
				return nil, err
			}
			elev := octaveNoise(elevNoise, p.X, p.Y, 3, 0.12, 0.5)
			s.Set(c, terrainFor(elev, cfg))
		}
	}

	s.Set(hexgrid.GridCoordinate{Q: 0, R: 0}, "mech_spawn")
	s.Set(hexgrid.GridCoordinate{Q: cfg.Height - 1, R: cfg.Width - 1}, "hive")
	return s, nil
}

func terrainFor(elev float64, cfg GenConfig) hexgrid.Kind {
	switch {
	case elev < cfg.WaterLevel:
		return "water"
	case elev > cfg.RockLevel:
		return "rock"
	default:
		return "base"
	}
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return math.Max(0, math.Min(1, total/maxVal))
}
