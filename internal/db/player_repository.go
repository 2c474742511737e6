package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/geospawn/internal/geo"
	"github.com/udisondev/geospawn/internal/model"
)

// PlayerRepository reads player positions. Writes exist for seeding and tests;
// in production the players table is owned by the tracking service.
type PlayerRepository struct {
	pool *pgxpool.Pool
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(pool *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

// ActiveAnchors returns players updated strictly after since.
// Rows whose location cannot be parsed are skipped.
func (r *PlayerRepository) ActiveAnchors(ctx context.Context, since time.Time) ([]model.Anchor, error) {
	query := `
		SELECT id, ST_AsText(location), updated_at
		FROM players
		WHERE updated_at > $1 AND location IS NOT NULL
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("loading active players: %w", err)
	}
	defer rows.Close()

	anchors := make([]model.Anchor, 0, 16)
	malformed := 0

	for rows.Next() {
		var (
			id        string
			wkt       string
			updatedAt time.Time
		)
		if err := rows.Scan(&id, &wkt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}

		loc, err := geo.ParsePoint(wkt)
		if err != nil {
			malformed++
			slog.Debug("skipping player with malformed location", "player", id, "error", err)
			continue
		}
		anchors = append(anchors, model.Anchor{PlayerID: id, Location: loc, UpdatedAt: updatedAt})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player rows: %w", err)
	}
	if malformed > 0 {
		slog.Warn("players skipped for malformed location", "count", malformed)
	}

	return anchors, nil
}

// UpsertPlayer creates or moves a player.
func (r *PlayerRepository) UpsertPlayer(ctx context.Context, id string, loc model.Coordinate, updatedAt time.Time) error {
	query := `
		INSERT INTO players (id, location, updated_at)
		VALUES ($1, ST_GeogFromText($2), $3)
		ON CONFLICT (id) DO UPDATE
		SET location = EXCLUDED.location, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.pool.Exec(ctx, query, id, geo.FormatPoint(loc), updatedAt); err != nil {
		return fmt.Errorf("upserting player %q: %w", id, err)
	}
	return nil
}
