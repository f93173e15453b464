package world

import (
	"github.com/talgya/tileworld/internal/entropy"
)

// Terrain thresholds over the combined noise value, checked in order.
const (
	waterBelow  = -0.35
	grassBelow  = 0.0
	forestBelow = 0.2
	pathBelow   = 0.35
)

// TileSource fills the tiles of one chunk. Implementations must be pure
// functions of their configuration and the chunk coordinate.
type TileSource interface {
	Fill(coord ChunkCoord, size int, tiles []TileType)
}

// Classifier maps noise samples and local constraints to tile types.
type Classifier struct {
	noise        *NoiseField
	rolls        entropy.Stream
	castleChance float64
	chunkSize    int
}

// NewClassifier creates a terrain classifier for the given config.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		noise:        NewNoiseField(cfg.Seed, cfg.NoiseScale, cfg.Noise),
		rolls:        entropy.NewStream(cfg.Seed),
		castleChance: cfg.CastleChance,
		chunkSize:    cfg.ChunkSize,
	}
}

// terrainFor applies the threshold ladder; first match wins.
func terrainFor(v float64) TileType {
	switch {
	case v < waterBelow:
		return TileWater
	case v < grassBelow:
		return TileGrass
	case v < forestBelow:
		return TileForest
	case v < pathBelow:
		return TilePath
	default:
		return TileGrass
	}
}

// Base returns the undecorated terrain at a tile index.
func (c *Classifier) Base(x, y int) TileType {
	return terrainFor(c.noise.Sample(float64(x), float64(y)))
}

// Classify returns the final tile type at a world tile index, including
// decoration. It agrees exactly with the chunk that contains the tile.
func (c *Classifier) Classify(x, y int) TileType {
	t := c.Base(x, y)
	if t != TileGrass {
		return t
	}
	cx, cy := FloorDiv(x, c.chunkSize), FloorDiv(y, c.chunkSize)
	minX, minY := cx*c.chunkSize, cy*c.chunkSize
	dry := func(nx, ny int) bool {
		if nx < minX || ny < minY || nx >= minX+c.chunkSize || ny >= minY+c.chunkSize {
			return true // outside the chunk counts as grass
		}
		return c.Base(nx, ny) != TileWater
	}
	return c.decorate(x, y, dry)
}

// Fill classifies a whole chunk: a base pass, then a decoration pass that
// only looks at neighbors inside the chunk.
func (c *Classifier) Fill(coord ChunkCoord, size int, tiles []TileType) {
	minX, minY := coord.X*size, coord.Y*size
	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			tiles[ly*size+lx] = c.Base(minX+lx, minY+ly)
		}
	}

	// Decoration reads base tiles only. Castles never sit next to water, so
	// promoting one cannot change another tile's eligibility.
	var promote []int
	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			if tiles[ly*size+lx] != TileGrass {
				continue
			}
			dry := func(nx, ny int) bool {
				lnx, lny := nx-minX, ny-minY
				if lnx < 0 || lny < 0 || lnx >= size || lny >= size {
					return true
				}
				return tiles[lny*size+lnx] != TileWater
			}
			if c.decorate(minX+lx, minY+ly, dry) == TileCastle {
				promote = append(promote, ly*size+lx)
			}
		}
	}
	for _, i := range promote {
		tiles[i] = TileCastle
	}
}

// decorate decides whether a grass tile becomes a castle. dry reports
// whether a neighbor is free of water.
func (c *Classifier) decorate(x, y int, dry func(nx, ny int) bool) TileType {
	if c.castleChance <= 0 || c.rolls.Float(int64(x), int64(y)) >= c.castleChance {
		return TileGrass
	}
	for _, off := range neighborOffsets {
		if !dry(x+off[0], y+off[1]) {
			return TileGrass
		}
	}
	return TileCastle
}
