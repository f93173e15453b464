// Command tileworld runs the infinite tile world around a wandering observer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tileworld/internal/api"
	"github.com/talgya/tileworld/internal/config"
	"github.com/talgya/tileworld/internal/engine"
	"github.com/talgya/tileworld/internal/logging"
	"github.com/talgya/tileworld/internal/persistence"
	"github.com/talgya/tileworld/internal/world"
)

func main() {
	configPath := flag.String("config", os.Getenv("TILEWORLD_CONFIG"), "optional JSON config file")
	flag.Parse()

	logging.Setup(os.Stdout)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── World ─────────────────────────────────────────────────────────
	worldMap, err := world.New(cfg.World)
	if err != nil {
		slog.Error("invalid world config", "error", err)
		os.Exit(1)
	}
	slog.Info("world configured",
		"seed", cfg.World.Seed,
		"tile_size", cfg.World.TileSize,
		"chunk_size", cfg.World.ChunkSize,
		"view_distance", cfg.World.ViewDistance,
		"noise", cfg.World.Noise,
		"layout", cfg.World.Layout,
	)
	if !cfg.World.Covers(cfg.Viewport.Width, cfg.Viewport.Height) {
		slog.Warn("view distance too small for viewport; edges may show unloaded chunks",
			"view_distance", cfg.World.ViewDistance,
			"needed", cfg.World.MinViewDistance(cfg.Viewport.Width, cfg.Viewport.Height),
			"viewport", fmt.Sprintf("%gx%g", cfg.Viewport.Width, cfg.Viewport.Height),
		)
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("failed to create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	sessionID, err := db.StartSession(cfg.World)
	if err != nil {
		slog.Error("failed to record session", "error", err)
		os.Exit(1)
	}

	// ── Observer (resumes where the last run with this seed stopped) ──
	startX, startY := 0.0, 0.0
	if x, y, ok, err := db.LoadObserver(cfg.World.Seed); err != nil {
		slog.Warn("could not restore observer, starting at origin", "error", err)
	} else if ok {
		startX, startY = x, y
		slog.Info("observer restored", "x", x, "y", y)
	}

	walker := engine.NewWalker(cfg.World.Seed, startX, startY)
	session := engine.NewSession(worldMap, walker)
	saveObserver := func() {
		x, y := session.Observer()
		if err := db.SaveObserver(cfg.World.Seed, x, y); err != nil {
			slog.Error("observer save failed", "error", err)
		}
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine(cfg.FPS)
	eng.OnFrame = session.Frame
	eng.OnSecond = func(tick uint64) { saveObserver() }
	eng.OnMinute = func(tick uint64) {
		snap := session.Snapshot()
		slog.Info("world status",
			"frame", humanize.Comma(int64(snap.Frame)),
			"observer", fmt.Sprintf("(%.0f,%.0f)", snap.ObserverX, snap.ObserverY),
			"center", snap.Center.String(),
			"tile", snap.Tile,
			"resident", snap.Store.Resident,
			"generated", humanize.Comma(int64(snap.Store.Generated)),
			"evicted", humanize.Comma(int64(snap.Store.Evicted)),
		)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	var srv *http.Server
	if cfg.APIAddr != "" {
		adminKey := os.Getenv("TILEWORLD_ADMIN_KEY")
		if adminKey == "" {
			slog.Warn("TILEWORLD_ADMIN_KEY not set; admin POST endpoints will be disabled")
		}
		apiServer := &api.Server{
			Session:   session,
			Eng:       eng,
			DB:        db,
			Addr:      cfg.APIAddr,
			AdminKey:  adminKey,
			SessionID: sessionID.String(),
		}
		srv = apiServer.Start()
	}

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nTile world %s is live (seed %d).\n", sessionID, cfg.World.Seed)
	if srv != nil {
		fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.APIAddr)
	}
	fmt.Println("Starting frame loop... (Ctrl+C to stop)")

	eng.Run()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("HTTP shutdown failed", "error", err)
		}
		cancel()
	}

	saveObserver()
	stats := worldMap.Store().Stats()
	if err := db.EndSession(sessionID, eng.Tick, stats); err != nil {
		slog.Error("failed to close session record", "error", err)
	}

	fmt.Printf("Stopped after %s frames; %s chunks generated, %s evicted.\n",
		humanize.Comma(int64(eng.Tick)),
		humanize.Comma(int64(stats.Generated)),
		humanize.Comma(int64(stats.Evicted)),
	)
}
