package world

import (
	"fmt"
	"math"
)

// Noise backends.
const (
	NoiseSimplex = "simplex"
	NoisePerlin  = "perlin"
)

// Layouts select the TileSource behind chunk generation.
const (
	LayoutNoise   = "noise"   // Unbounded coherent-noise terrain
	LayoutClassic = "classic" // The fixed hand-drawn 12x9 map, grass beyond it
)

// Config holds world parameters. All fields are fixed at world creation.
type Config struct {
	Seed         int64   `json:"seed"`
	TileSize     int     `json:"tile_size"`     // Pixels per tile edge
	ChunkSize    int     `json:"chunk_size"`    // Tiles per chunk edge
	ViewDistance int     `json:"view_distance"` // Resident radius in chunks around the observer
	NoiseScale   float64 `json:"noise_scale"`   // Tiles per base-octave feature
	CastleChance float64 `json:"castle_chance"` // Per-tile probability of a castle on dry grass
	Noise        string  `json:"noise"`
	Layout       string  `json:"layout"`
}

// DefaultConfig returns a reasonable starting configuration.
// An 800x600 viewport at 64px tiles needs view distance 2 with 12-tile chunks.
func DefaultConfig() Config {
	return Config{
		Seed:         42,
		TileSize:     64,
		ChunkSize:    12,
		ViewDistance: 2,
		NoiseScale:   24,
		CastleChance: 0.001,
		Noise:        NoiseSimplex,
		Layout:       LayoutNoise,
	}
}

// SmallTestConfig returns a world with a one-chunk view radius for tests.
func SmallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.ViewDistance = 1
	return cfg
}

// Validate rejects configurations that cannot produce a world.
func (c Config) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile_size must be positive, got %d", ErrInvalidConfiguration, c.TileSize)
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidConfiguration, c.ChunkSize)
	case c.ViewDistance < 0:
		return fmt.Errorf("%w: view_distance must not be negative, got %d", ErrInvalidConfiguration, c.ViewDistance)
	case !(c.NoiseScale > 0) || math.IsInf(c.NoiseScale, 0):
		return fmt.Errorf("%w: noise_scale must be positive, got %v", ErrInvalidConfiguration, c.NoiseScale)
	case !(c.CastleChance >= 0 && c.CastleChance <= 1):
		return fmt.Errorf("%w: castle_chance must be within [0,1], got %v", ErrInvalidConfiguration, c.CastleChance)
	}
	switch c.Noise {
	case NoiseSimplex, NoisePerlin:
	default:
		return fmt.Errorf("%w: unknown noise backend %q", ErrInvalidConfiguration, c.Noise)
	}
	switch c.Layout {
	case LayoutNoise, LayoutClassic:
	default:
		return fmt.Errorf("%w: unknown layout %q", ErrInvalidConfiguration, c.Layout)
	}
	return nil
}

// ChunkPixels returns the edge length of one chunk in world units.
func (c Config) ChunkPixels() float64 {
	return float64(c.ChunkSize * c.TileSize)
}

// MinViewDistance returns the smallest generation radius that keeps a
// viewport of the given size fully generated: the viewport half-diagonal
// plus one chunk of slack must fit within the resident radius.
func (c Config) MinViewDistance(viewportW, viewportH float64) int {
	halfDiag := math.Hypot(viewportW, viewportH) / 2
	return int(math.Ceil((halfDiag + c.ChunkPixels()) / c.ChunkPixels()))
}

// Covers reports whether ViewDistance is large enough for the viewport.
func (c Config) Covers(viewportW, viewportH float64) bool {
	return c.ViewDistance >= c.MinViewDistance(viewportW, viewportH)
}
