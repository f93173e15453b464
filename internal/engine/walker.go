package engine

import (
	"math"

	"github.com/talgya/tileworld/internal/entropy"
	"github.com/talgya/tileworld/internal/world"
)

// Walker is a wandering observer. Its path is a pure function of the seed,
// its start position and the terrain, so a session replays identically.
type Walker struct {
	X, Y       float64
	Heading    float64 // Radians
	Speed      float64 // World units per frame
	TurnChance float64 // Per-frame probability of picking a new heading

	rolls entropy.Stream
}

// walkerSalt separates the walker's rolls from terrain decoration.
const walkerSalt = 0x77616c6b

// NewWalker creates a walker at (x, y) for the given world seed.
func NewWalker(seed int64, x, y float64) *Walker {
	rolls := entropy.NewStream(seed).Salted(walkerSalt)
	return &Walker{
		X:          x,
		Y:          y,
		Heading:    rolls.Float(0, 2) * 2 * math.Pi,
		Speed:      4,
		TurnChance: 0.02,
		rolls:      rolls,
	}
}

// Step advances the walker one frame. tileAt reports the terrain at a world
// position. A walker on dry land turns back instead of stepping into water;
// one already in water keeps going until it reaches the shore.
func (w *Walker) Step(tick uint64, tileAt func(x, y float64) world.TileType) {
	t := int64(tick)
	if w.rolls.Float(t, 0) < w.TurnChance {
		w.Heading = w.rolls.Float(t, 1) * 2 * math.Pi
	}

	nx := w.X + w.Speed*math.Cos(w.Heading)
	ny := w.Y + w.Speed*math.Sin(w.Heading)

	if tileAt(nx, ny).Hazardous() && !tileAt(w.X, w.Y).Hazardous() {
		w.Heading = math.Mod(w.Heading+math.Pi, 2*math.Pi)
		return
	}
	w.X, w.Y = nx, ny
}
