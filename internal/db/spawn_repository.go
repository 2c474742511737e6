package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/geospawn/internal/geo"
	"github.com/udisondev/geospawn/internal/model"
)

// SpawnRepository handles spawn persistence
type SpawnRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnRepository creates a new spawn repository
func NewSpawnRepository(pool *pgxpool.Pool) *SpawnRepository {
	return &SpawnRepository{pool: pool}
}

// InsertSpawns writes the whole batch in a single statement.
func (r *SpawnRepository) InsertSpawns(ctx context.Context, spawns []model.Spawn) error {
	if len(spawns) == 0 {
		return nil
	}

	query := `
		INSERT INTO spawns (id, species, location, spawned_at, despawned_at, biome_type, rarity)
		SELECT u.id::uuid, u.species, ST_GeogFromText(u.wkt), u.spawned_at, u.despawned_at, u.biome_type, u.rarity
		FROM unnest($1::text[], $2::text[], $3::text[], $4::timestamptz[], $5::timestamptz[], $6::text[], $7::text[])
			AS u(id, species, wkt, spawned_at, despawned_at, biome_type, rarity)
	`

	n := len(spawns)
	var (
		ids      = make([]string, n)
		species  = make([]string, n)
		wkts     = make([]string, n)
		appears  = make([]time.Time, n)
		expires  = make([]time.Time, n)
		biomes   = make([]string, n)
		rarities = make([]string, n)
	)
	for i, s := range spawns {
		ids[i] = s.ID.String()
		species[i] = s.Species
		wkts[i] = geo.FormatPoint(s.Location)
		appears[i] = s.AppearsAt
		expires[i] = s.ExpiresAt
		biomes[i] = string(s.Biome)
		rarities[i] = string(s.Rarity)
	}

	if _, err := r.pool.Exec(ctx, query, ids, species, wkts, appears, expires, biomes, rarities); err != nil {
		return fmt.Errorf("inserting %d spawns: %w", n, err)
	}
	return nil
}

// DeleteExpired removes spawns with despawned_at < now.
func (r *SpawnRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM spawns WHERE despawned_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("deleting expired spawns: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountActiveNearby calls count_active_spawns_nearby.
func (r *SpawnRepository) CountActiveNearby(ctx context.Context, c model.Coordinate, radiusMeters float64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count_active_spawns_nearby($1, $2, $3)`,
		c.Lat, c.Lon, radiusMeters,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting spawns near %v: %w", c, err)
	}
	return count, nil
}

// LoadAll loads all spawns ordered by appearance.
func (r *SpawnRepository) LoadAll(ctx context.Context) ([]model.Spawn, error) {
	query := `
		SELECT id::text, species, ST_AsText(location), spawned_at, despawned_at, biome_type, rarity
		FROM spawns
		ORDER BY spawned_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading all spawns: %w", err)
	}
	defer rows.Close()

	spawns := make([]model.Spawn, 0, 50)

	for rows.Next() {
		var (
			id, wkt       string
			s             model.Spawn
			biome, rarity string
		)
		if err := rows.Scan(&id, &s.Species, &wkt, &s.AppearsAt, &s.ExpiresAt, &biome, &rarity); err != nil {
			return nil, fmt.Errorf("scanning spawn row: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing spawn id %q: %w", id, err)
		}
		if s.Location, err = geo.ParsePoint(wkt); err != nil {
			return nil, fmt.Errorf("parsing spawn %s location: %w", id, err)
		}
		s.Biome = model.Biome(biome)
		s.Rarity = model.Rarity(rarity)
		spawns = append(spawns, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn rows: %w", err)
	}

	return spawns, nil
}
