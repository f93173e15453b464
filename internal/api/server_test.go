package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tileworld/internal/engine"
	"github.com/talgya/tileworld/internal/persistence"
	"github.com/talgya/tileworld/internal/world"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	m, err := world.New(world.SmallTestConfig())
	require.NoError(t, err)
	return &Server{
		Session:  engine.NewSession(m, engine.NewWalker(42, 0, 0)),
		Eng:      engine.NewEngine(60),
		AdminKey: "secret",
	}
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestStatus(t *testing.T) {
	h := newTestServer(t).Handler()
	rec, body := get(t, h, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	session := body["session"].(map[string]any)
	store := session["store"].(map[string]any)
	assert.Equal(t, 9.0, store["resident"])
}

func TestChunks(t *testing.T) {
	h := newTestServer(t).Handler()
	rec, body := get(t, h, "/api/v1/chunks")
	require.Equal(t, http.StatusOK, rec.Code)
	chunks := body["chunks"].([]any)
	require.Len(t, chunks, 9)
	assert.Equal(t, map[string]any{"cx": -1.0, "cy": -1.0}, chunks[0])
}

func TestChunkResident(t *testing.T) {
	h := newTestServer(t).Handler()
	rec, body := get(t, h, "/api/v1/chunk/-1/0")
	require.Equal(t, http.StatusOK, rec.Code)

	rows := body["rows"].([]any)
	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.Len(t, row.(string), 12)
	}
	total := 0.0
	for _, n := range body["counts"].(map[string]any) {
		total += n.(float64)
	}
	assert.Equal(t, 144.0, total)
	assert.NotNil(t, body["landmarks"])
}

func TestChunkNotResident(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	rec, _ := get(t, h, "/api/v1/chunk/40/40")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	// Asking must not make it resident.
	assert.Len(t, s.Session.Resident(), 9)

	rec, _ = get(t, h, "/api/v1/chunk/a/0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTile(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	rec, body := get(t, h, "/api/v1/tile?x=-1&y=-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"cx": -1.0, "cy": -1.0}, body["chunk"])
	assert.Equal(t, 11.0, body["local_x"])
	assert.Equal(t, 11.0, body["local_y"])
	assert.Equal(t, s.Session.TileAt(-1, -1).String(), body["type"])

	rec, _ = get(t, h, "/api/v1/tile?x=abc&y=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = get(t, h, "/api/v1/tile?x=NaN&y=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVisible(t *testing.T) {
	h := newTestServer(t).Handler()
	rec, body := get(t, h, "/api/v1/visible?x=-400&y=-300&w=800&h=600")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["chunks"].([]any), 4)
	// View distance 1 is too small for 800x600 at 64px tiles.
	assert.Equal(t, false, body["covers"])

	rec, _ = get(t, h, "/api/v1/visible?x=0&y=0&w=1e9&h=600")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionsWithoutDB(t *testing.T) {
	h := newTestServer(t).Handler()
	rec, _ := get(t, h, "/api/v1/sessions")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSessionsWithDB(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.StartSession(world.SmallTestConfig())
	require.NoError(t, err)

	s := newTestServer(t)
	s.DB = db
	rec, body := get(t, s.Handler(), "/api/v1/sessions?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["sessions"].([]any), 1)

	rec, _ = get(t, s.Handler(), "/api/v1/sessions?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpeedRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	post := func(auth, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(body))
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, post("", `{"speed": 2}`))
	assert.Equal(t, http.StatusUnauthorized, post("Bearer wrong", `{"speed": 2}`))
	assert.Equal(t, http.StatusBadRequest, post("Bearer secret", `{"speed": -1}`))
	assert.Equal(t, http.StatusOK, post("Bearer secret", `{"speed": 2}`))
	assert.Equal(t, 2.0, s.Eng.Speed())

	s.AdminKey = ""
	assert.Equal(t, http.StatusForbidden, post("Bearer secret", `{"speed": 3}`))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
	assert.Equal(t, 61, rl.RetryAfter("1.2.3.4"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
