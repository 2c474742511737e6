package spawn

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the generation tunables.
type Config struct {
	SearchRadiusKm float64       `yaml:"search_radius_km"`
	MaxSpawns      int           `yaml:"max_spawns"`    // population cap per anchor radius
	MaxPerBatch    int           `yaml:"max_per_batch"` // upper bound of one anchor's batch
	MinLifespan    time.Duration `yaml:"min_lifespan"`
	MaxLifespan    time.Duration `yaml:"max_lifespan"`
	StaggerWindow  time.Duration `yaml:"stagger_window"` // appearance offset drawn from [-W, +W]
	ActiveWindow   time.Duration `yaml:"active_window"`  // players updated within this window are anchors
	CycleInterval  time.Duration `yaml:"cycle_interval"`
	AnchorWorkers  int           `yaml:"anchor_workers"` // >1 processes anchors concurrently
}

// DefaultConfig returns Config with the game's production values.
func DefaultConfig() Config {
	return Config{
		SearchRadiusKm: 0.3,
		MaxSpawns:      10,
		MaxPerBatch:    5,
		MinLifespan:    5 * time.Minute,
		MaxLifespan:    30 * time.Minute,
		StaggerWindow:  60 * time.Second,
		ActiveWindow:   5 * time.Minute,
		CycleInterval:  30 * time.Second,
		AnchorWorkers:  1,
	}
}

var errInvalidConfig = errors.New("invalid generation config")

// Validate checks the invariants the generator relies on.
func (c Config) Validate() error {
	switch {
	case c.SearchRadiusKm <= 0:
		return fmt.Errorf("%w: search_radius_km must be positive", errInvalidConfig)
	case c.MaxSpawns <= 0:
		return fmt.Errorf("%w: max_spawns must be positive", errInvalidConfig)
	case c.MaxPerBatch <= 0:
		return fmt.Errorf("%w: max_per_batch must be positive", errInvalidConfig)
	case c.MinLifespan < time.Second:
		return fmt.Errorf("%w: min_lifespan must be at least 1s", errInvalidConfig)
	case c.MaxLifespan < c.MinLifespan:
		return fmt.Errorf("%w: max_lifespan %v below min_lifespan %v", errInvalidConfig, c.MaxLifespan, c.MinLifespan)
	case c.StaggerWindow < 0:
		return fmt.Errorf("%w: stagger_window must not be negative", errInvalidConfig)
	case c.ActiveWindow <= 0:
		return fmt.Errorf("%w: active_window must be positive", errInvalidConfig)
	case c.CycleInterval <= 0:
		return fmt.Errorf("%w: cycle_interval must be positive", errInvalidConfig)
	case c.AnchorWorkers < 0:
		return fmt.Errorf("%w: anchor_workers must not be negative", errInvalidConfig)
	}
	return nil
}
