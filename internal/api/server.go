// Package api provides the HTTP API for inspecting the live world.
// GET endpoints are public and read-only.
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talgya/tileworld/internal/engine"
	"github.com/talgya/tileworld/internal/persistence"
	"github.com/talgya/tileworld/internal/world"
)

// maxViewport bounds /visible requests, in world units per axis.
const maxViewport = 16384

// Server serves the world state over HTTP.
type Server struct {
	Session   *engine.Session
	Eng       *engine.Engine
	DB        *persistence.DB // Optional; session history is unavailable without it
	Addr      string
	AdminKey  string // Bearer token for POST endpoints. Empty = POST disabled.
	SessionID string
}

// Handler builds the API router.
func (s *Server) Handler() http.Handler {
	// Arbitrary tile queries can generate chunks outside the window.
	queryLimiter := NewRateLimiter(600, time.Minute)

	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/chunks", s.handleChunks)
		r.Get("/chunk/{cx}/{cy}", s.handleChunk)
		r.Get("/visible", s.handleVisible)
		r.Get("/sessions", s.handleSessions)
		r.With(queryLimiter.Middleware).Get("/tile", s.handleTile)

		r.Get("/speed", s.handleSpeed)
		r.Post("/speed", s.adminOnly(s.handleSpeed))
	})
	return r
}

// Start begins serving the HTTP API in a goroutine. The returned server can
// be shut down by the caller.
func (s *Server) Start() *http.Server {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminOnly requires the admin bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no TILEWORLD_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg := s.Session.Config()
	writeJSON(w, map[string]any{
		"session_id": s.SessionID,
		"world":      cfg,
		"session":    s.Session.Snapshot(),
	})
}

func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"chunks": s.Session.Resident(),
	})
}

// handleChunk returns a resident chunk as glyph rows. Chunks outside the
// window are not generated on request.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	cx, err1 := strconv.Atoi(chi.URLParam(r, "cx"))
	cy, err2 := strconv.Atoi(chi.URLParam(r, "cy"))
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid chunk coordinate", http.StatusBadRequest)
		return
	}

	coord := world.ChunkCoord{X: cx, Y: cy}
	tiles, ok := s.Session.ChunkTiles(coord)
	if !ok {
		http.Error(w, "chunk not resident", http.StatusNotFound)
		return
	}

	size := s.Session.Config().ChunkSize
	rows := make([]string, size)
	counts := make(map[string]int)
	buf := make([]byte, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			t := tiles[y*size+x]
			buf[x] = t.Glyph()
			counts[t.String()]++
		}
		rows[y] = string(buf)
	}

	// Evicted between the two calls: report no landmarks rather than fail.
	landmarks, _ := s.Session.Landmarks(coord)
	if landmarks == nil {
		landmarks = [][2]int{}
	}

	writeJSON(w, map[string]any{
		"chunk":     coord,
		"size":      size,
		"rows":      rows,
		"counts":    counts,
		"landmarks": landmarks,
	})
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	x, y, ok := floatParams(w, r, "x", "y")
	if !ok {
		return
	}
	coord, lx, ly := s.Session.Locate(x, y)
	t := s.Session.TileAt(x, y)
	writeJSON(w, map[string]any{
		"x":         x,
		"y":         y,
		"chunk":     coord,
		"local_x":   lx,
		"local_y":   ly,
		"type":      t.String(),
		"hazardous": t.Hazardous(),
		"landmark":  t.Landmark(),
	})
}

func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	vals, ok := floatParamList(w, r, "x", "y", "w", "h")
	if !ok {
		return
	}
	if vals[2] > maxViewport || vals[3] > maxViewport {
		http.Error(w, "viewport too large", http.StatusBadRequest)
		return
	}
	cfg := s.Session.Config()
	writeJSON(w, map[string]any{
		"chunks": s.Session.Visible(vals[0], vals[1], vals[2], vals[3]),
		"covers": cfg.Covers(vals[2], vals[3]),
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "session history unavailable", http.StatusServiceUnavailable)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			http.Error(w, "limit must be 1-200", http.StatusBadRequest)
			return
		}
		limit = n
	}
	sessions, err := s.DB.RecentSessions(limit)
	if err != nil {
		slog.Error("list sessions failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"sessions": sessions})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 100 {
			http.Error(w, "speed must be 0-100", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func floatParams(w http.ResponseWriter, r *http.Request, a, b string) (float64, float64, bool) {
	vals, ok := floatParamList(w, r, a, b)
	if !ok {
		return 0, 0, false
	}
	return vals[0], vals[1], true
}

// floatParamList parses required finite float query parameters, writing a
// 400 response on the first bad one.
func floatParamList(w http.ResponseWriter, r *http.Request, names ...string) ([]float64, bool) {
	q := r.URL.Query()
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil || math.IsNaN(v) || math.Abs(v) > 1e15 {
			http.Error(w, "invalid "+name, http.StatusBadRequest)
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
