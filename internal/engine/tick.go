// Package engine provides the frame-driven loop that keeps the world
// resident around a moving observer.
package engine

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Engine drives the session forward one frame at a time.
type Engine struct {
	Tick            uint64 // Current frame counter (monotonic, never resets)
	FramesPerSecond int

	running atomic.Bool
	speedMu sync.Mutex
	speed   float64 // 1.0 = real-time, 0 = paused

	// Callbacks for each tick layer, populated during setup.
	OnFrame  func(tick uint64) // Every frame
	OnSecond func(tick uint64) // Every FramesPerSecond frames
	OnMinute func(tick uint64) // Every 60 seconds of frames
}

// NewEngine creates an engine running at fps frames per second.
func NewEngine(fps int) *Engine {
	if fps <= 0 {
		fps = 60
	}
	return &Engine{
		FramesPerSecond: fps,
		speed:           1.0,
	}
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	e.speedMu.Lock()
	defer e.speedMu.Unlock()
	return e.speed
}

// SetSpeed changes the speed multiplier. Negative values pause.
func (e *Engine) SetSpeed(speed float64) {
	e.speedMu.Lock()
	e.speed = math.Max(0, speed)
	e.speedMu.Unlock()
}

// Running reports whether Run is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run starts the frame loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("frame engine started", "tick", e.Tick, "fps", e.FramesPerSecond, "speed", e.Speed())

	interval := time.Second / time.Duration(e.FramesPerSecond)
	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused; sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.step()

		// Sleep for the remainder of the frame, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("frame engine stopped", "tick", e.Tick)
}

// Stop halts the frame loop after the current frame.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// step advances the loop by one frame.
func (e *Engine) step() {
	e.Tick++

	if e.OnFrame != nil {
		e.OnFrame(e.Tick)
	}

	perSecond := uint64(e.FramesPerSecond)
	if e.Tick%perSecond == 0 && e.OnSecond != nil {
		e.OnSecond(e.Tick)
	}

	if e.Tick%(perSecond*60) == 0 && e.OnMinute != nil {
		e.OnMinute(e.Tick)
	}
}
