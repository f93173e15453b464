package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tileworld/internal/world"
)

func TestStepCallbacks(t *testing.T) {
	e := NewEngine(10)
	var frames, seconds, minutes int
	e.OnFrame = func(uint64) { frames++ }
	e.OnSecond = func(uint64) { seconds++ }
	e.OnMinute = func(uint64) { minutes++ }

	for i := 0; i < 1200; i++ {
		e.step()
	}
	assert.Equal(t, 1200, frames)
	assert.Equal(t, 120, seconds)
	assert.Equal(t, 2, minutes)
	assert.Equal(t, uint64(1200), e.Tick)
}

func TestRunStop(t *testing.T) {
	e := NewEngine(1000)
	e.OnFrame = func(tick uint64) {
		if tick == 5 {
			e.Stop()
		}
	}
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.Equal(t, uint64(5), e.Tick)
	assert.False(t, e.Running())
}

func TestSetSpeedClampsNegative(t *testing.T) {
	e := NewEngine(60)
	e.SetSpeed(-3)
	assert.Zero(t, e.Speed())
	e.SetSpeed(2.5)
	assert.Equal(t, 2.5, e.Speed())
}

func allGrass(float64, float64) world.TileType { return world.TileGrass }

func TestWalkerDeterministic(t *testing.T) {
	a := NewWalker(42, 10, 20)
	b := NewWalker(42, 10, 20)
	for tick := uint64(1); tick <= 500; tick++ {
		a.Step(tick, allGrass)
		b.Step(tick, allGrass)
	}
	assert.Equal(t, a.X, b.X)
	assert.Equal(t, a.Y, b.Y)
	assert.Equal(t, a.Heading, b.Heading)
}

func TestWalkerMovesAtSpeed(t *testing.T) {
	w := NewWalker(1, 0, 0)
	w.TurnChance = 0
	w.Heading = 0
	w.Step(1, allGrass)
	assert.InDelta(t, 4, w.X, 1e-9)
	assert.InDelta(t, 0, w.Y, 1e-9)
}

func TestWalkerTurnsBackAtWater(t *testing.T) {
	w := NewWalker(1, 0, 0)
	w.TurnChance = 0
	w.Heading = 0
	lakeEast := func(x, _ float64) world.TileType {
		if x > 2 {
			return world.TileWater
		}
		return world.TileGrass
	}
	w.Step(1, lakeEast)
	assert.Equal(t, 0.0, w.X)
	assert.InDelta(t, math.Pi, w.Heading, 1e-9)

	w.Step(2, lakeEast)
	assert.InDelta(t, -4, w.X, 1e-9)
}

func TestWalkerLeavesWater(t *testing.T) {
	w := NewWalker(1, 0, 0)
	w.TurnChance = 0
	w.Heading = 0
	everywhereWet := func(float64, float64) world.TileType { return world.TileWater }
	w.Step(1, everywhereWet)
	assert.InDelta(t, 4, w.X, 1e-9)
}

func TestSessionFrameKeepsWindowResident(t *testing.T) {
	m, err := world.New(world.SmallTestConfig())
	require.NoError(t, err)
	s := NewSession(m, NewWalker(42, 0, 0))
	require.Len(t, s.Resident(), 9)

	for tick := uint64(1); tick <= 600; tick++ {
		s.Frame(tick)
	}
	snap := s.Snapshot()
	assert.Equal(t, uint64(600), snap.Frame)

	// Frame refreshes before moving, so the window is around the position
	// the observer had at the start of the last frame.
	resident := s.Resident()
	require.Len(t, resident, 9)
	for _, c := range resident {
		assert.LessOrEqual(t, world.Chebyshev(c, snap.Center), 1)
	}
}

func TestSessionChunkTilesCopy(t *testing.T) {
	m, err := world.New(world.SmallTestConfig())
	require.NoError(t, err)
	s := NewSession(m, NewWalker(42, 0, 0))

	tiles, ok := s.ChunkTiles(world.ChunkCoord{X: 0, Y: 0})
	require.True(t, ok)
	require.Len(t, tiles, 144)
	assert.Equal(t, s.TileAt(0, 0), tiles[0])

	_, ok = s.ChunkTiles(world.ChunkCoord{X: 50, Y: 50})
	assert.False(t, ok)
}

func TestSessionVisibleSorted(t *testing.T) {
	m, err := world.New(world.SmallTestConfig())
	require.NoError(t, err)
	s := NewSession(m, NewWalker(42, 0, 0))
	assert.Equal(t, []world.ChunkCoord{
		{X: -1, Y: -1}, {X: 0, Y: -1},
		{X: -1, Y: 0}, {X: 0, Y: 0},
	}, s.Visible(-400, -300, 800, 600))
}

func TestSessionLandmarks(t *testing.T) {
	cfg := world.SmallTestConfig()
	cfg.Layout = world.LayoutClassic
	m, err := world.New(cfg)
	require.NoError(t, err)
	s := NewSession(m, NewWalker(42, 0, 0))

	castles, ok := s.Landmarks(world.ChunkCoord{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}, castles)

	_, ok = s.Landmarks(world.ChunkCoord{X: 9, Y: 9})
	assert.False(t, ok)
}
