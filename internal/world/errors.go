package world

import "errors"

var (
	// ErrOutOfRange reports a local tile index outside a chunk's bounds.
	// It always means the caller's coordinate math is wrong.
	ErrOutOfRange = errors.New("tile index out of range")

	// ErrInvalidConfiguration reports a world config that cannot be built.
	ErrInvalidConfiguration = errors.New("invalid world configuration")
)
