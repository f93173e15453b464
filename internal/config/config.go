// Package config loads runner configuration from an optional JSON file and
// TILEWORLD_* environment variables. Environment values win over the file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/talgya/tileworld/internal/world"
)

// Config holds all application configuration.
type Config struct {
	World    world.Config `json:"world"`
	DBPath   string       `json:"db_path"`  // Session metadata database
	APIAddr  string       `json:"api_addr"` // Empty disables the HTTP API
	Viewport Viewport     `json:"viewport"` // Camera size used for coverage checks
	FPS      int          `json:"fps"`      // Frames per second of the refresh loop
}

// Viewport is the rendering collaborator's camera size in world units.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		World:    world.DefaultConfig(),
		DBPath:   "data/tileworld.db",
		APIAddr:  ":8080",
		Viewport: Viewport{Width: 800, Height: 600},
		FPS:      60,
	}
}

// Load reads path (if non-empty and present) over the defaults, then applies
// environment overrides and validates the world config.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Optional file; defaults stand.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.World.Validate(); err != nil {
		return cfg, err
	}
	if cfg.FPS <= 0 {
		return cfg, fmt.Errorf("fps must be positive, got %d", cfg.FPS)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"TILEWORLD_TILE_SIZE", &cfg.World.TileSize},
		{"TILEWORLD_CHUNK_SIZE", &cfg.World.ChunkSize},
		{"TILEWORLD_VIEW_DISTANCE", &cfg.World.ViewDistance},
		{"TILEWORLD_FPS", &cfg.FPS},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("TILEWORLD_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TILEWORLD_SEED: %w", err)
		}
		cfg.World.Seed = seed
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"TILEWORLD_NOISE", &cfg.World.Noise},
		{"TILEWORLD_LAYOUT", &cfg.World.Layout},
		{"TILEWORLD_DB", &cfg.DBPath},
	}
	for _, e := range strs {
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}
	// An explicitly empty address disables the API.
	if v, ok := os.LookupEnv("TILEWORLD_ADDR"); ok {
		cfg.APIAddr = v
	}
	return nil
}
