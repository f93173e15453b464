package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tileworld/internal/world"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tileworld.json")
	data := `{"world": {"seed": 7, "view_distance": 3, "layout": "classic"}, "fps": 30}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.World.Seed)
	assert.Equal(t, 3, cfg.World.ViewDistance)
	assert.Equal(t, world.LayoutClassic, cfg.World.Layout)
	assert.Equal(t, 30, cfg.FPS)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, 64, cfg.World.TileSize)
	assert.Equal(t, ":8080", cfg.APIAddr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tileworld.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"world": {"seed": 7}}`), 0o644))

	t.Setenv("TILEWORLD_SEED", "-99")
	t.Setenv("TILEWORLD_CHUNK_SIZE", "16")
	t.Setenv("TILEWORLD_NOISE", "perlin")
	t.Setenv("TILEWORLD_ADDR", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(-99), cfg.World.Seed)
	assert.Equal(t, 16, cfg.World.ChunkSize)
	assert.Equal(t, world.NoisePerlin, cfg.World.Noise)
	assert.Empty(t, cfg.APIAddr)
}

func TestLoadRejectsInvalidWorld(t *testing.T) {
	t.Setenv("TILEWORLD_TILE_SIZE", "0")
	_, err := Load("")
	assert.True(t, errors.Is(err, world.ErrInvalidConfiguration))
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("TILEWORLD_VIEW_DISTANCE", "far")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"world": `), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
