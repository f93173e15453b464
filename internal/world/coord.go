package world

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// ChunkCoord identifies a chunk in the unbounded chunk lattice.
// It is comparable and used directly as a map key.
type ChunkCoord struct {
	X int `json:"cx"`
	Y int `json:"cy"`
}

// String returns a summary of the coordinate, for logs only.
func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Chebyshev returns the chessboard distance between two chunk coordinates.
func Chebyshev(a, b ChunkCoord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Less orders coordinates row-major: by Y, then X.
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// FloorDiv divides rounding toward negative infinity. b must be positive.
func FloorDiv[T constraints.Integer](a, b T) T {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Mod returns the non-negative remainder of a/b. b must be positive.
func Mod[T constraints.Integer](a, b T) T {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// neighborOffsets are the 8 surrounding tile offsets.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
