package world

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/zyedidia/generic/mapset"
)

// Map is the unbounded tile world for one game session. It converts world
// coordinates to chunks and tiles, answers tile queries, and keeps the
// chunks around the observer resident. Not safe for concurrent use.
type Map struct {
	cfg    Config
	store  *ChunkStore
	center ChunkCoord
}

// TileView is one tile as seen through a viewport.
type TileView struct {
	X, Y    int     // World tile index
	ScreenX float64 // Left edge relative to the camera
	ScreenY float64 // Top edge relative to the camera
	Type    TileType
}

// New creates a world from cfg. An invalid config returns an error wrapping
// ErrInvalidConfiguration and no map.
func New(cfg Config) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var src TileSource
	switch cfg.Layout {
	case LayoutClassic:
		src = ClassicLayout{}
	default:
		src = NewClassifier(cfg)
	}
	return &Map{
		cfg:   cfg,
		store: NewChunkStore(cfg.ChunkSize, src),
	}, nil
}

// Config returns the configuration the map was built with.
func (m *Map) Config() Config { return m.cfg }

// Store returns the chunk store, for introspection.
func (m *Map) Store() *ChunkStore { return m.store }

// Center returns the observer chunk from the most recent Refresh.
func (m *Map) Center() ChunkCoord { return m.center }

// TileIndex converts a world coordinate to a tile index by floor division.
func (m *Map) TileIndex(x, y float64) (int, int) {
	ts := float64(m.cfg.TileSize)
	return int(math.Floor(x / ts)), int(math.Floor(y / ts))
}

// WorldToChunkTile maps a world coordinate to its chunk and the local tile
// index inside it. Negative coordinates land in the chunk below/left with
// a non-negative local index.
func (m *Map) WorldToChunkTile(x, y float64) (ChunkCoord, int, int) {
	tx, ty := m.TileIndex(x, y)
	return m.tileToChunk(tx, ty)
}

func (m *Map) tileToChunk(tx, ty int) (ChunkCoord, int, int) {
	n := m.cfg.ChunkSize
	return ChunkCoord{X: FloorDiv(tx, n), Y: FloorDiv(ty, n)}, Mod(tx, n), Mod(ty, n)
}

// TileAt returns the tile type under a world coordinate, generating its
// chunk if needed. It succeeds for every finite coordinate.
func (m *Map) TileAt(x, y float64) TileType {
	tx, ty := m.TileIndex(x, y)
	return m.TileAtIndex(tx, ty)
}

// TileAtIndex returns the tile type at a world tile index.
func (m *Map) TileAtIndex(tx, ty int) TileType {
	coord, lx, ly := m.tileToChunk(tx, ty)
	t, err := m.store.GetOrCreate(coord).TileAt(lx, ly)
	if err != nil {
		// tileToChunk always normalizes; reaching this is a defect here.
		panic(fmt.Sprintf("world: %v", err))
	}
	return t
}

// Window returns the chunks within Chebyshev distance radius of center,
// inclusive, in row-major order.
func Window(center ChunkCoord, radius int) []ChunkCoord {
	out := make([]ChunkCoord, 0, (2*radius+1)*(2*radius+1))
	for cy := center.Y - radius; cy <= center.Y+radius; cy++ {
		for cx := center.X - radius; cx <= center.X+radius; cx++ {
			out = append(out, ChunkCoord{X: cx, Y: cy})
		}
	}
	return out
}

// EnsureLoaded makes every chunk in window resident.
func (m *Map) EnsureLoaded(window []ChunkCoord) {
	for _, coord := range window {
		m.store.GetOrCreate(coord)
	}
}

// Refresh re-centers residency on the observer: it loads the window around
// the observer's chunk, then evicts everything outside it. The observer
// position is read once, here.
func (m *Map) Refresh(observerX, observerY float64) {
	center, _, _ := m.WorldToChunkTile(observerX, observerY)
	window := Window(center, m.cfg.ViewDistance)

	m.EnsureLoaded(window)

	keep := mapset.New[ChunkCoord]()
	for _, coord := range window {
		keep.Put(coord)
	}
	evicted := m.store.RetainOnly(keep)

	if center != m.center || evicted > 0 {
		slog.Debug("world refreshed",
			"center", center.String(),
			"resident", m.store.Len(),
			"evicted", evicted,
		)
	}
	m.center = center
}

// tileSpan returns the tile indices overlapped by [origin, origin+extent).
// ok is false for an empty span.
func (m *Map) tileSpan(origin, extent float64) (first, last int, ok bool) {
	if !(extent > 0) {
		return 0, 0, false
	}
	ts := float64(m.cfg.TileSize)
	first = int(math.Floor(origin / ts))
	last = int(math.Ceil((origin+extent)/ts)) - 1
	return first, last, last >= first
}

// VisibleChunkWindow returns the chunks intersecting the viewport whose
// top-left corner is (cameraX, cameraY). Rendering uses it; it never
// generates chunks.
func (m *Map) VisibleChunkWindow(cameraX, cameraY, viewportW, viewportH float64) mapset.Set[ChunkCoord] {
	out := mapset.New[ChunkCoord]()
	x0, x1, okX := m.tileSpan(cameraX, viewportW)
	y0, y1, okY := m.tileSpan(cameraY, viewportH)
	if !okX || !okY {
		return out
	}
	n := m.cfg.ChunkSize
	for cy := FloorDiv(y0, n); cy <= FloorDiv(y1, n); cy++ {
		for cx := FloorDiv(x0, n); cx <= FloorDiv(x1, n); cx++ {
			out.Put(ChunkCoord{X: cx, Y: cy})
		}
	}
	return out
}

// VisibleTiles calls fn for every tile whose screen rectangle intersects
// the viewport, row by row. Tiles outside the viewport are never visited.
func (m *Map) VisibleTiles(cameraX, cameraY, viewportW, viewportH float64, fn func(TileView)) {
	x0, x1, okX := m.tileSpan(cameraX, viewportW)
	y0, y1, okY := m.tileSpan(cameraY, viewportH)
	if !okX || !okY {
		return
	}
	ts := float64(m.cfg.TileSize)
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			fn(TileView{
				X:       tx,
				Y:       ty,
				ScreenX: float64(tx)*ts - cameraX,
				ScreenY: float64(ty)*ts - cameraY,
				Type:    m.TileAtIndex(tx, ty),
			})
		}
	}
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(seed=%d, center=%v, resident=%d)", m.cfg.Seed, m.center, m.store.Len())
}
