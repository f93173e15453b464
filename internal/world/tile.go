// Package world provides the chunk-streamed tile world: noise sampling,
// terrain classification, chunk generation and residency around an observer.
// Tiles are addressed by integer tile indices; chunks by ChunkCoord.
package world

// TileType is the terrain carried by a single tile.
type TileType uint8

const (
	TileGrass  TileType = iota // Open ground, the fallback for everything
	TilePath                   // Trodden ground between forest and high grass
	TileWater                  // Lakes; hazardous to stand in
	TileForest                 // Woodland band above grass
	TileCastle                 // Rare decoration placed on dry grass
)

// TileTypes lists every tile type in declaration order.
var TileTypes = [...]TileType{TileGrass, TilePath, TileWater, TileForest, TileCastle}

// String returns a human-readable name for a tile type.
func (t TileType) String() string {
	switch t {
	case TileGrass:
		return "Grass"
	case TilePath:
		return "Path"
	case TileWater:
		return "Water"
	case TileForest:
		return "Forest"
	case TileCastle:
		return "Castle"
	default:
		// Unreachable for tiles produced by this package.
		return "Unknown"
	}
}

// Glyph returns the single-character symbol used by text previews.
func (t TileType) Glyph() byte {
	switch t {
	case TilePath:
		return '='
	case TileWater:
		return '~'
	case TileForest:
		return '^'
	case TileCastle:
		return 'C'
	default:
		return '.'
	}
}

// Passable reports whether an entity may walk onto the tile.
// Every terrain is passable; water hurts instead of blocking.
func (t TileType) Passable() bool {
	return true
}

// Hazardous reports whether standing on the tile inflicts damage over time.
func (t TileType) Hazardous() bool {
	return t == TileWater
}

// Landmark reports whether the tile marks a named location (entering a castle).
func (t TileType) Landmark() bool {
	return t == TileCastle
}
