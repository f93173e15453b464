package world

// Classic map dimensions in tiles.
const (
	ClassicWidth  = 12
	ClassicHeight = 9
)

// ClassicLayout is the hand-placed starter map: a castle in the top-left,
// a small lake to the right, a two-row path and a forest patch at the bottom.
// It is the degenerate form of the chunked world; tiles beyond the
// 12x9 rectangle are grass.
type ClassicLayout struct{}

// TileAt returns the classic terrain at a world tile index.
func (ClassicLayout) TileAt(x, y int) TileType {
	if x < 0 || y < 0 || x >= ClassicWidth || y >= ClassicHeight {
		return TileGrass
	}
	switch {
	case y >= 1 && y <= 2 && x >= 1 && x <= 2:
		return TileCastle
	case y >= 7 && y <= 8 && x >= 1 && x <= 3:
		return TileForest
	case y >= 1 && y <= 3 && x >= 8 && x <= 10:
		return TileWater
	case y >= 5 && y <= 6 && x >= 2 && x <= 9:
		return TilePath
	}
	return TileGrass
}

// Fill implements TileSource.
func (l ClassicLayout) Fill(coord ChunkCoord, size int, tiles []TileType) {
	minX, minY := coord.X*size, coord.Y*size
	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			tiles[ly*size+lx] = l.TileAt(minX+lx, minY+ly)
		}
	}
}
