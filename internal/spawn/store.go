package spawn

import (
	"context"
	"time"

	"github.com/udisondev/geospawn/internal/model"
)

// AnchorSource lists players whose position was updated after since.
// Rows with unusable geometry are dropped by the implementation.
type AnchorSource interface {
	ActiveAnchors(ctx context.Context, since time.Time) ([]model.Anchor, error)
}

// SpawnWriter persists a generated batch as a single write.
type SpawnWriter interface {
	InsertSpawns(ctx context.Context, spawns []model.Spawn) error
}

// SpawnReaper removes spawns whose expiry is strictly before now.
type SpawnReaper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// DensityOracle counts currently active spawns within radiusMeters of c.
type DensityOracle interface {
	CountActiveNearby(ctx context.Context, c model.Coordinate, radiusMeters float64) (int, error)
}

// BiomeOracle classifies a point. An empty tag means "unknown".
type BiomeOracle interface {
	BiomeAt(ctx context.Context, c model.Coordinate) (string, error)
}

// Store is everything the generator needs from persistence.
type Store interface {
	AnchorSource
	SpawnWriter
	SpawnReaper
	DensityOracle
	BiomeOracle
}
