// Package persistence provides SQLite-based session metadata storage.
// Generated chunks are never stored; the world regenerates from its seed.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/tileworld/internal/world"
)

// DB wraps a SQLite connection for session persistence.
type DB struct {
	conn *sqlx.DB
}

// Session is one run of the world, as recorded in the sessions table.
type Session struct {
	ID           string         `db:"id" json:"id"`
	Seed         int64          `db:"seed" json:"seed"`
	TileSize     int            `db:"tile_size" json:"tile_size"`
	ChunkSize    int            `db:"chunk_size" json:"chunk_size"`
	ViewDistance int            `db:"view_distance" json:"view_distance"`
	Noise        string         `db:"noise" json:"noise"`
	Layout       string         `db:"layout" json:"layout"`
	StartedAt    string         `db:"started_at" json:"started_at"`
	EndedAt      sql.NullString `db:"ended_at" json:"-"`
	Frames       uint64         `db:"frames" json:"frames"`
	Generated    uint64         `db:"generated" json:"generated"`
	Evicted      uint64         `db:"evicted" json:"evicted"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		tile_size INTEGER NOT NULL,
		chunk_size INTEGER NOT NULL,
		view_distance INTEGER NOT NULL,
		noise TEXT NOT NULL,
		layout TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT,
		frames INTEGER NOT NULL DEFAULT 0,
		generated INTEGER NOT NULL DEFAULT 0,
		evicted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartSession records a new session for cfg and returns its ID.
func (db *DB) StartSession(cfg world.Config) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.conn.Exec(`INSERT INTO sessions
		(id, seed, tile_size, chunk_size, view_distance, noise, layout, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), cfg.Seed, cfg.TileSize, cfg.ChunkSize, cfg.ViewDistance,
		cfg.Noise, cfg.Layout, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// EndSession stamps a session with its final frame count and store totals.
func (db *DB) EndSession(id uuid.UUID, frames uint64, stats world.StoreStats) error {
	res, err := db.conn.Exec(`UPDATE sessions
		SET ended_at = ?, frames = ?, generated = ?, evicted = ?
		WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), frames, stats.Generated, stats.Evicted, id.String(),
	)
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update session %s: %w", id, sql.ErrNoRows)
	}
	slog.Info("session recorded", "id", id.String(), "frames", frames, "generated", stats.Generated)
	return nil
}

// GetSession returns one session by ID.
func (db *DB) GetSession(id uuid.UUID) (Session, error) {
	var s Session
	err := db.conn.Get(&s, "SELECT * FROM sessions WHERE id = ?", id.String())
	return s, err
}

// RecentSessions returns the most recent N sessions, newest first.
func (db *DB) RecentSessions(limit int) ([]Session, error) {
	var sessions []Session
	err := db.conn.Select(&sessions,
		"SELECT * FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return sessions, err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

func observerKey(seed int64) string {
	return "observer:" + strconv.FormatInt(seed, 10)
}

// SaveObserver remembers the observer position for a seed.
func (db *DB) SaveObserver(seed int64, x, y float64) error {
	value := strconv.FormatFloat(x, 'g', -1, 64) + "," + strconv.FormatFloat(y, 'g', -1, 64)
	return db.SaveMeta(observerKey(seed), value)
}

// LoadObserver returns the last saved observer position for a seed.
// ok is false when the seed has never been run.
func (db *DB) LoadObserver(seed int64) (x, y float64, ok bool, err error) {
	value, err := db.GetMeta(observerKey(seed))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}

	xs, ys, found := strings.Cut(value, ",")
	if !found {
		return 0, 0, false, fmt.Errorf("observer %q: malformed position", value)
	}
	if x, err = strconv.ParseFloat(xs, 64); err != nil {
		return 0, 0, false, fmt.Errorf("observer x: %w", err)
	}
	if y, err = strconv.ParseFloat(ys, 64); err != nil {
		return 0, 0, false, fmt.Errorf("observer y: %w", err)
	}
	return x, y, true, nil
}
