package persistence

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tileworld/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "tileworld.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	cfg := world.DefaultConfig()

	id, err := db.StartSession(cfg)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	s, err := db.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, cfg.Seed, s.Seed)
	assert.Equal(t, cfg.ChunkSize, s.ChunkSize)
	assert.Equal(t, cfg.Noise, s.Noise)
	assert.False(t, s.EndedAt.Valid)

	stats := world.StoreStats{Resident: 25, Generated: 140, Evicted: 115}
	require.NoError(t, db.EndSession(id, 3600, stats))

	s, err = db.GetSession(id)
	require.NoError(t, err)
	assert.True(t, s.EndedAt.Valid)
	assert.Equal(t, uint64(3600), s.Frames)
	assert.Equal(t, uint64(140), s.Generated)
	assert.Equal(t, uint64(115), s.Evicted)
}

func TestEndUnknownSession(t *testing.T) {
	db := openTestDB(t)
	assert.Error(t, db.EndSession(uuid.New(), 1, world.StoreStats{}))
}

func TestRecentSessions(t *testing.T) {
	db := openTestDB(t)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id, err := db.StartSession(world.DefaultConfig())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := db.RecentSessions(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2].String(), got[0].ID)
	assert.Equal(t, ids[1].String(), got[1].ID)
}

func TestObserverRoundTrip(t *testing.T) {
	db := openTestDB(t)

	_, _, ok, err := db.LoadObserver(42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.SaveObserver(42, -1234.5, 0.125))
	require.NoError(t, db.SaveObserver(42, -1500.25, 64))

	x, y, ok, err := db.LoadObserver(42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -1500.25, x)
	assert.Equal(t, 64.0, y)

	// Positions are kept per seed.
	_, _, ok, err = db.LoadObserver(7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadObserverMalformed(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveMeta(observerKey(1), "nowhere"))
	_, _, _, err := db.LoadObserver(1)
	assert.Error(t, err)
}
