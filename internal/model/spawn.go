package model

import (
	"time"

	"github.com/google/uuid"
)

// Spawn is a generated, time-bounded collectible at a coordinate.
// Rarity is copied from species metadata at generation time and never
// recomputed afterwards.
type Spawn struct {
	ID        uuid.UUID
	Species   string
	Location  Coordinate
	AppearsAt time.Time
	ExpiresAt time.Time
	Biome     Biome
	Rarity    Rarity
}

// Lifespan returns how long the spawn stays visible.
func (s Spawn) Lifespan() time.Duration {
	return s.ExpiresAt.Sub(s.AppearsAt)
}

// ActiveAt reports whether the spawn is visible at t.
func (s Spawn) ActiveAt(t time.Time) bool {
	return !t.Before(s.AppearsAt) && t.Before(s.ExpiresAt)
}

// ExpiredAt reports whether the lifecycle reaper should remove the spawn at t.
func (s Spawn) ExpiredAt(t time.Time) bool {
	return s.ExpiresAt.Before(t)
}
