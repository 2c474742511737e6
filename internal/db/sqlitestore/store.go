// Package sqlitestore is a single-file spawn store for local runs without
// PostGIS. Distances are filtered in Go after a bounding-box query and biomes
// come from axis-aligned lat/lon boxes.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/udisondev/geospawn/internal/geo"
	"github.com/udisondev/geospawn/internal/model"
	"github.com/udisondev/geospawn/internal/spawn"
)

var _ spawn.Store = (*Store)(nil)

// Store implements spawn.Store on SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock sets the clock used to decide which spawns are active.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (or creates) the database at path. ":memory:" is accepted.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty sqlite path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// Один коннект: :memory: живёт ровно столько, сколько соединение.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("applying %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			location TEXT,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_players_updated_at ON players(updated_at);`,
		`CREATE TABLE IF NOT EXISTS spawns (
			id TEXT PRIMARY KEY,
			species TEXT NOT NULL,
			location TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			spawned_at INTEGER NOT NULL,
			despawned_at INTEGER NOT NULL,
			biome_type TEXT NOT NULL,
			rarity TEXT NOT NULL,
			CHECK (despawned_at > spawned_at)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_spawns_despawned_at ON spawns(despawned_at);`,
		`CREATE INDEX IF NOT EXISTS idx_spawns_lat_lon ON spawns(lat, lon);`,
		`CREATE TABLE IF NOT EXISTS biome_zones (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			biome_type TEXT NOT NULL,
			min_lat REAL NOT NULL,
			min_lon REAL NOT NULL,
			max_lat REAL NOT NULL,
			max_lon REAL NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("initialising sqlite schema: %w", err)
		}
	}
	return nil
}

func millis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// ActiveAnchors returns players updated strictly after since.
// location may hold WKT or GeoJSON; unparseable rows are skipped.
func (s *Store) ActiveAnchors(ctx context.Context, since time.Time) ([]model.Anchor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, location, updated_at FROM players
		 WHERE updated_at > ? AND location IS NOT NULL
		 ORDER BY id`, millis(since))
	if err != nil {
		return nil, fmt.Errorf("loading active players: %w", err)
	}
	defer rows.Close()

	var anchors []model.Anchor
	for rows.Next() {
		var (
			id, raw string
			updated int64
		)
		if err := rows.Scan(&id, &raw, &updated); err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}
		loc, err := geo.ParsePoint(raw)
		if err != nil {
			slog.Debug("skipping player with malformed location", "player", id, "error", err)
			continue
		}
		anchors = append(anchors, model.Anchor{PlayerID: id, Location: loc, UpdatedAt: fromMillis(updated)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player rows: %w", err)
	}
	return anchors, nil
}

// UpsertPlayer stores a raw location value (WKT or GeoJSON text) for id.
func (s *Store) UpsertPlayer(ctx context.Context, id, location string, updatedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, location, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET location = excluded.location, updated_at = excluded.updated_at`,
		id, location, millis(updatedAt))
	if err != nil {
		return fmt.Errorf("upserting player %q: %w", id, err)
	}
	return nil
}

// InsertSpawns writes the batch in one transaction.
func (s *Store) InsertSpawns(ctx context.Context, spawns []model.Spawn) (err error) {
	if len(spawns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning spawn insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO spawns (id, species, location, lat, lon, spawned_at, despawned_at, biome_type, rarity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing spawn insert: %w", err)
	}
	defer stmt.Close()

	for _, sp := range spawns {
		_, err = stmt.ExecContext(ctx,
			sp.ID.String(), sp.Species, geo.FormatPoint(sp.Location), sp.Location.Lat, sp.Location.Lon,
			millis(sp.AppearsAt), millis(sp.ExpiresAt), string(sp.Biome), string(sp.Rarity))
		if err != nil {
			return fmt.Errorf("inserting spawn %s: %w", sp.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing %d spawns: %w", len(spawns), err)
	}
	return nil
}

// DeleteExpired removes spawns with despawned_at < now.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM spawns WHERE despawned_at < ?`, millis(now))
	if err != nil {
		return 0, fmt.Errorf("deleting expired spawns: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading deleted count: %w", err)
	}
	return n, nil
}

// CountActiveNearby counts spawns not yet expired within radiusMeters of c.
func (s *Store) CountActiveNearby(ctx context.Context, c model.Coordinate, radiusMeters float64) (int, error) {
	radiusKm := radiusMeters / 1000
	minLat, minLon, maxLat, maxLon := geo.BoundingBox(c, radiusKm)

	rows, err := s.db.QueryContext(ctx,
		`SELECT lat, lon FROM spawns
		 WHERE despawned_at > ?
		   AND lat BETWEEN ? AND ?
		   AND lon BETWEEN ? AND ?`,
		millis(s.now()), minLat, maxLat, minLon, maxLon)
	if err != nil {
		return 0, fmt.Errorf("counting spawns near %v: %w", c, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var p model.Coordinate
		if err := rows.Scan(&p.Lat, &p.Lon); err != nil {
			return 0, fmt.Errorf("scanning spawn position: %w", err)
		}
		if geo.HaversineKm(c, p) <= radiusKm {
			count++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating spawn positions: %w", err)
	}
	return count, nil
}

// BiomeAt returns the biome of the smallest zone containing c, "" if none.
func (s *Store) BiomeAt(ctx context.Context, c model.Coordinate) (string, error) {
	var tag string
	err := s.db.QueryRowContext(ctx,
		`SELECT biome_type FROM biome_zones
		 WHERE ? BETWEEN min_lat AND max_lat AND ? BETWEEN min_lon AND max_lon
		 ORDER BY (max_lat - min_lat) * (max_lon - min_lon) ASC
		 LIMIT 1`, c.Lat, c.Lon).Scan(&tag)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up biome at %v: %w", c, err)
	}
	return tag, nil
}

// AddZone registers a rectangular biome zone.
func (s *Store) AddZone(ctx context.Context, biome model.Biome, lo, hi model.Coordinate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO biome_zones (biome_type, min_lat, min_lon, max_lat, max_lon) VALUES (?, ?, ?, ?, ?)`,
		string(biome), lo.Lat, lo.Lon, hi.Lat, hi.Lon)
	if err != nil {
		return fmt.Errorf("adding %s zone: %w", biome, err)
	}
	return nil
}

// LoadAll returns every stored spawn ordered by appearance.
func (s *Store) LoadAll(ctx context.Context) ([]model.Spawn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, species, location, spawned_at, despawned_at, biome_type, rarity
		 FROM spawns ORDER BY spawned_at, id`)
	if err != nil {
		return nil, fmt.Errorf("loading all spawns: %w", err)
	}
	defer rows.Close()

	var spawns []model.Spawn
	for rows.Next() {
		var (
			id, wkt, biome, rarity string
			appears, expires       int64
			sp                     model.Spawn
		)
		if err := rows.Scan(&id, &sp.Species, &wkt, &appears, &expires, &biome, &rarity); err != nil {
			return nil, fmt.Errorf("scanning spawn row: %w", err)
		}
		if sp.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing spawn id %q: %w", id, err)
		}
		if sp.Location, err = geo.ParsePoint(wkt); err != nil {
			return nil, fmt.Errorf("parsing spawn %s location: %w", id, err)
		}
		sp.AppearsAt, sp.ExpiresAt = fromMillis(appears), fromMillis(expires)
		sp.Biome, sp.Rarity = model.Biome(biome), model.Rarity(rarity)
		spawns = append(spawns, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn rows: %w", err)
	}
	return spawns, nil
}
