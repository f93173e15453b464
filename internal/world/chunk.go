package world

import "fmt"

// Chunk is a fixed-size square block of tiles, generated once and
// immutable afterwards. Tiles are stored row-major.
type Chunk struct {
	coord ChunkCoord
	size  int
	tiles []TileType
}

// GenerateChunk builds the full grid for coord in one pass.
func GenerateChunk(coord ChunkCoord, size int, src TileSource) *Chunk {
	c := &Chunk{
		coord: coord,
		size:  size,
		tiles: make([]TileType, size*size),
	}
	src.Fill(coord, size, c.tiles)
	return c
}

// Coord returns the chunk's lattice position.
func (c *Chunk) Coord() ChunkCoord { return c.coord }

// Size returns the chunk edge length in tiles.
func (c *Chunk) Size() int { return c.size }

// TileAt returns the tile at a local index. Indices outside [0, size)
// return ErrOutOfRange; they are never clamped.
func (c *Chunk) TileAt(lx, ly int) (TileType, error) {
	if lx < 0 || ly < 0 || lx >= c.size || ly >= c.size {
		return 0, fmt.Errorf("%w: local (%d,%d) in chunk %v of size %d", ErrOutOfRange, lx, ly, c.coord, c.size)
	}
	return c.tiles[ly*c.size+lx], nil
}

// Each calls fn for every tile in row-major order.
func (c *Chunk) Each(fn func(lx, ly int, t TileType)) {
	for i, t := range c.tiles {
		fn(i%c.size, i/c.size, t)
	}
}

// Tiles returns a row-major copy of the grid, safe to keep across refreshes.
func (c *Chunk) Tiles() []TileType {
	out := make([]TileType, len(c.tiles))
	copy(out, c.tiles)
	return out
}

// Count returns how many tiles of type t the chunk holds.
func (c *Chunk) Count(t TileType) int {
	n := 0
	for _, v := range c.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Positions returns the local positions of every tile of type t, row-major.
func (c *Chunk) Positions(t TileType) [][2]int {
	var out [][2]int
	c.Each(func(lx, ly int, v TileType) {
		if v == t {
			out = append(out, [2]int{lx, ly})
		}
	})
	return out
}
