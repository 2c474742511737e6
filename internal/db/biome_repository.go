package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/geospawn/internal/model"
)

// BiomeRepository resolves biomes through get_biome_at_point.
type BiomeRepository struct {
	pool *pgxpool.Pool
}

// NewBiomeRepository creates a new biome repository
func NewBiomeRepository(pool *pgxpool.Pool) *BiomeRepository {
	return &BiomeRepository{pool: pool}
}

// BiomeAt returns the biome tag at c, or "" when no zone covers it.
func (r *BiomeRepository) BiomeAt(ctx context.Context, c model.Coordinate) (string, error) {
	var tag *string
	err := r.pool.QueryRow(ctx, `SELECT get_biome_at_point($1, $2)`, c.Lat, c.Lon).Scan(&tag)
	if err != nil {
		return "", fmt.Errorf("looking up biome at %v: %w", c, err)
	}
	if tag == nil {
		return "", nil
	}
	return *tag, nil
}

// AddZone registers a biome area given as WKT (POLYGON or MULTIPOLYGON).
func (r *BiomeRepository) AddZone(ctx context.Context, biome model.Biome, areaWKT string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO biome_zones (biome_type, area) VALUES ($1, ST_GeogFromText($2))`,
		string(biome), areaWKT,
	)
	if err != nil {
		return fmt.Errorf("adding %s zone: %w", biome, err)
	}
	return nil
}
