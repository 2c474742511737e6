package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/geospawn/internal/model"
)

// Singapore is the reference anchor used across store tests.
var Singapore = model.NewCoordinate(1.3521, 103.8198)

// SingaporeZoneWKT covers Singapore island.
const SingaporeZoneWKT = "POLYGON((103.6 1.2, 104.1 1.2, 104.1 1.5, 103.6 1.5, 103.6 1.2))"

// NewSpawn builds a spawn at loc living from appears for lifespan.
func NewSpawn(species string, loc model.Coordinate, appears time.Time, lifespan time.Duration) model.Spawn {
	return model.Spawn{
		ID:        uuid.New(),
		Species:   species,
		Location:  loc,
		AppearsAt: appears,
		ExpiresAt: appears.Add(lifespan),
		Biome:     model.BiomeUrban,
		Rarity:    model.RarityCommon,
	}
}
