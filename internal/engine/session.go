package engine

import (
	"sort"
	"sync"

	"github.com/talgya/tileworld/internal/world"
)

// Session ties the world to its observer. The frame loop and outside readers
// (the HTTP API) both go through it; the mutex keeps world access on one
// goroutine at a time. Nothing it returns aliases chunk storage.
type Session struct {
	mu     sync.Mutex
	world  *world.Map
	walker *Walker
	frame  uint64
}

// Snapshot is a point-in-time summary of the session.
type Snapshot struct {
	Frame     uint64           `json:"frame"`
	ObserverX float64          `json:"observer_x"`
	ObserverY float64          `json:"observer_y"`
	Center    world.ChunkCoord `json:"center"`
	Tile      string           `json:"tile"`
	Store     world.StoreStats `json:"store"`
}

// NewSession creates a session and makes the observer's window resident.
func NewSession(m *world.Map, w *Walker) *Session {
	m.Refresh(w.X, w.Y)
	return &Session{world: m, walker: w}
}

// Frame runs one simulation tick: residency is refreshed for the observer's
// current position before anything queries tiles, then the observer moves.
func (s *Session) Frame(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame = tick
	s.world.Refresh(s.walker.X, s.walker.Y)
	s.walker.Step(tick, s.world.TileAt)
}

// Config returns the world configuration.
func (s *Session) Config() world.Config {
	return s.world.Config()
}

// Observer returns the observer's position.
func (s *Session) Observer() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.walker.X, s.walker.Y
}

// Snapshot summarizes the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Frame:     s.frame,
		ObserverX: s.walker.X,
		ObserverY: s.walker.Y,
		Center:    s.world.Center(),
		Tile:      s.world.TileAt(s.walker.X, s.walker.Y).String(),
		Store:     s.world.Store().Stats(),
	}
}

// TileAt returns the tile type at a world coordinate.
func (s *Session) TileAt(x, y float64) world.TileType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.TileAt(x, y)
}

// Locate maps a world coordinate to its chunk and local tile.
func (s *Session) Locate(x, y float64) (world.ChunkCoord, int, int) {
	// Pure arithmetic over immutable config; no lock needed.
	return s.world.WorldToChunkTile(x, y)
}

// Resident returns the resident chunk coordinates in row-major order.
func (s *Session) Resident() []world.ChunkCoord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Store().KeyCoords()
}

// ChunkTiles returns a copy of a resident chunk's grid.
func (s *Session) ChunkTiles(coord world.ChunkCoord) ([]world.TileType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.world.Store().Lookup(coord)
	if !ok {
		return nil, false
	}
	return c.Tiles(), true
}

// Landmarks returns the local positions of castles in a resident chunk.
func (s *Session) Landmarks(coord world.ChunkCoord) ([][2]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.world.Store().Lookup(coord)
	if !ok {
		return nil, false
	}
	return c.Positions(world.TileCastle), true
}

// Visible returns the chunks intersecting a viewport, row-major.
func (s *Session) Visible(cameraX, cameraY, w, h float64) []world.ChunkCoord {
	// Window computation never touches the store.
	set := s.world.VisibleChunkWindow(cameraX, cameraY, w, h)
	out := make([]world.ChunkCoord, 0, set.Size())
	set.Each(func(c world.ChunkCoord) {
		out = append(out, c)
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}
