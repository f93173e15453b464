package world

import (
	"log/slog"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// StoreStats are lifetime counters for a ChunkStore.
type StoreStats struct {
	Resident  int    `json:"resident"`
	Generated uint64 `json:"generated"`
	Evicted   uint64 `json:"evicted"`
}

// ChunkStore owns every live chunk, keyed by coordinate.
// It is not safe for concurrent use.
type ChunkStore struct {
	chunks map[ChunkCoord]*Chunk
	size   int
	source TileSource

	generated uint64
	evicted   uint64
}

// NewChunkStore creates an empty store generating size x size chunks from src.
func NewChunkStore(size int, src TileSource) *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkCoord]*Chunk),
		size:   size,
		source: src,
	}
}

// GetOrCreate returns the chunk at coord, generating and inserting it on
// first use. Repeated calls return the same chunk.
func (s *ChunkStore) GetOrCreate(coord ChunkCoord) *Chunk {
	if c, ok := s.chunks[coord]; ok {
		return c
	}
	c := GenerateChunk(coord, s.size, s.source)
	s.chunks[coord] = c
	s.generated++
	slog.Debug("chunk generated", "coord", coord.String())
	return c
}

// Lookup returns the chunk at coord only if it is resident.
func (s *ChunkStore) Lookup(coord ChunkCoord) (*Chunk, bool) {
	c, ok := s.chunks[coord]
	return c, ok
}

// RetainOnly evicts every chunk whose coordinate is not in keep and returns
// how many were evicted. This is the only way chunks leave the store.
func (s *ChunkStore) RetainOnly(keep mapset.Set[ChunkCoord]) int {
	n := 0
	for coord := range s.chunks {
		if keep.Has(coord) {
			continue
		}
		delete(s.chunks, coord)
		n++
		slog.Debug("chunk evicted", "coord", coord.String())
	}
	s.evicted += uint64(n)
	return n
}

// KeyCoords returns the resident coordinates in row-major order.
func (s *ChunkStore) KeyCoords() []ChunkCoord {
	out := make([]ChunkCoord, 0, len(s.chunks))
	for coord := range s.chunks {
		out = append(out, coord)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}

// Len returns the number of resident chunks.
func (s *ChunkStore) Len() int {
	return len(s.chunks)
}

// Stats returns the store's counters.
func (s *ChunkStore) Stats() StoreStats {
	return StoreStats{
		Resident:  len(s.chunks),
		Generated: s.generated,
		Evicted:   s.evicted,
	}
}
