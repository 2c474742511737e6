package spawn

import (
	"context"
	"fmt"

	"github.com/udisondev/geospawn/internal/model"
)

// Capacity computes how many more spawns fit around a point.
//
// The count and the later insert are not isolated from other writers, so the
// budget is an advisory upper bound: anchors with overlapping radii can each
// see the same count and jointly overshoot the cap.
type Capacity struct {
	oracle   DensityOracle
	radiusKm float64
	cap      int
}

// NewCapacity creates a capacity controller for the given radius and cap.
func NewCapacity(oracle DensityOracle, radiusKm float64, cap int) *Capacity {
	return &Capacity{oracle: oracle, radiusKm: radiusKm, cap: cap}
}

// RemainingBudget returns cap minus the active count near c.
// A result <= 0 means no budget; it is not clamped.
func (c *Capacity) RemainingBudget(ctx context.Context, at model.Coordinate) (int, error) {
	count, err := c.oracle.CountActiveNearby(ctx, at, c.radiusKm*1000)
	if err != nil {
		return 0, fmt.Errorf("counting active spawns near %v: %w", at, err)
	}
	return c.cap - count, nil
}
